// Package metrics implements the MetricsAnalyzer component: per-chunk
// FFT-based signal-quality estimation and Prometheus export (spec §4.9).
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Record is one metrics observation, emitted to observers (spec §3).
type Record struct {
	TimestampUnix    float64 `json:"timestamp"`
	SNRdB            float64 `json:"snr_db"`
	SignalStrengthdB float64 `json:"signal_strength_dbm"`
	BER              float64 `json:"ber"`
	PacketSuccess    float64 `json:"packet_success"`
	BandwidthOcc     float64 `json:"bandwidth_occupancy"`
}

// berTable is the monotonic piecewise-constant SNR-to-BER lookup (spec
// §4.9), evaluated top-down: first threshold the SNR clears wins.
var berTable = []struct {
	minSNR float64
	ber    float64
}{
	{15, 1e-5},
	{12, 1e-4},
	{10, 1e-3},
	{8, 1e-2},
	{6, 5e-2},
	{4, 0.15},
	{2, 0.30},
	{0, 0.40},
}

const defaultBER = 0.50

// berForSNR maps an SNR in dB to a bit-error rate via the table above.
func berForSNR(snrDB float64) float64 {
	for _, row := range berTable {
		if snrDB >= row.minSNR {
			return row.ber
		}
	}
	return defaultBER
}

// Analyzer computes quality metrics and plot data from successive sample
// chunks, following the original's FFT-based estimator.
type Analyzer struct {
	sampleRate         float64
	spectrogramHistory [][]float64
}

// NewAnalyzer returns an Analyzer for samples at the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{sampleRate: sampleRate}
}

// Analyze computes one Record from a chunk of complex baseband samples.
func (a *Analyzer) Analyze(samples []complex128, timestampUnix float64) Record {
	mags := powerSpectrum(samples)

	peak := maxFloat(mags)
	med := median(mags)

	snr := 0.0
	if med > 0 {
		snr = 10 * math.Log10(peak/med)
	}

	meanPower := meanSquareMagnitude(samples)
	strength := 10*math.Log10(meanPower+1e-20) + 30

	ber := berForSNR(snr)
	berClamped := math.Max(0, math.Min(0.5, ber))
	packetSuccess := math.Pow(1-berClamped, 1000)

	occupancy := bandwidthOccupancy(mags, peak)

	return Record{
		TimestampUnix:    timestampUnix,
		SNRdB:            snr,
		SignalStrengthdB: strength,
		BER:              ber,
		PacketSuccess:    packetSuccess,
		BandwidthOcc:     occupancy,
	}
}

func powerSpectrum(samples []complex128) []float64 {
	fft := fourier.NewCmplxFFT(len(samples))
	coeffs := fft.Coefficients(nil, samples)
	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return mags
}

func meanSquareMagnitude(samples []complex128) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += real(s)*real(s) + imag(s)*imag(s)
	}
	return sum / float64(len(samples))
}

func maxFloat(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	return m
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// bandwidthOccupancy is the fraction of bins whose power lies within 20 dB
// of the peak bin's power.
func bandwidthOccupancy(mags []float64, peak float64) float64 {
	if peak <= 0 || len(mags) == 0 {
		return 0
	}
	thresholdRatio := math.Pow(10, -20.0/10.0)
	threshold := peak * thresholdRatio

	count := 0
	for _, m := range mags {
		if m >= threshold {
			count++
		}
	}
	return float64(count) / float64(len(mags))
}
