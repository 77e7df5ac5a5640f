package metrics

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const spectrogramHistoryLimit = 50

// Point is one (I, Q) constellation sample.
type Point struct{ I, Q float64 }

// TimeDomain holds the last samples for the time-domain plot.
type TimeDomain struct {
	Real []float64 `json:"real"`
	Imag []float64 `json:"imag"`
}

// Plots bundles the four observer plot kinds emitted every N chunks (spec
// §4.9, design default N=5).
type Plots struct {
	Constellation []Point      `json:"constellation"`
	TimeDomain    TimeDomain   `json:"time_domain"`
	PSD           []float64    `json:"psd_db"`
	Spectrogram   [][]float64  `json:"spectrogram"`
}

// ComputePlots decimates the constellation to ~500 points, keeps the last
// 1024 samples for the time-domain view, computes a centred 1024-bin PSD in
// dB, and appends a row to the rolling spectrogram history, evicting the
// oldest row past spectrogramHistoryLimit.
func (a *Analyzer) ComputePlots(samples []complex128) Plots {
	constellation := decimateConstellation(samples, 500)
	td := lastTimeDomain(samples, 1024)
	psd := centeredPSD(samples, 1024)

	a.spectrogramHistory = append(a.spectrogramHistory, psd)
	if len(a.spectrogramHistory) > spectrogramHistoryLimit {
		a.spectrogramHistory = a.spectrogramHistory[1:]
	}

	return Plots{
		Constellation: constellation,
		TimeDomain:    td,
		PSD:           psd,
		Spectrogram:   append([][]float64(nil), a.spectrogramHistory...),
	}
}

func decimateConstellation(samples []complex128, target int) []Point {
	if len(samples) == 0 {
		return nil
	}
	step := len(samples) / target
	if step < 1 {
		step = 1
	}
	out := make([]Point, 0, target)
	for i := 0; i < len(samples); i += step {
		out = append(out, Point{I: real(samples[i]), Q: imag(samples[i])})
	}
	return out
}

func lastTimeDomain(samples []complex128, n int) TimeDomain {
	start := 0
	if len(samples) > n {
		start = len(samples) - n
	}
	tail := samples[start:]

	td := TimeDomain{
		Real: make([]float64, len(tail)),
		Imag: make([]float64, len(tail)),
	}
	for i, s := range tail {
		td.Real[i] = real(s)
		td.Imag[i] = imag(s)
	}
	return td
}

func centeredPSD(samples []complex128, n int) []float64 {
	window := make([]complex128, n)
	copy(window, lastComplex(samples, n))

	fft := fourier.NewCmplxFFT(n)
	coeffs := fft.Coefficients(nil, window)

	psd := make([]float64, n)
	for i, c := range coeffs {
		power := real(c)*real(c) + imag(c)*imag(c)
		psd[fftShiftIndex(i, n)] = powerToDB(power)
	}
	return psd
}

func lastComplex(samples []complex128, n int) []complex128 {
	if len(samples) >= n {
		return samples[len(samples)-n:]
	}
	padded := make([]complex128, n)
	copy(padded[n-len(samples):], samples)
	return padded
}

// fftShiftIndex maps an unshifted FFT bin index to its fftshift position,
// moving the zero-frequency bin to the centre.
func fftShiftIndex(i, n int) int {
	return (i + n/2) % n
}

func powerToDB(power float64) float64 {
	if power <= 0 {
		return -200
	}
	return 10 * math.Log10(power)
}
