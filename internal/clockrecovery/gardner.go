// Package clockrecovery implements Gardner timing-error-detector based
// symbol timing recovery for the AIS demodulator.
package clockrecovery

import "math"

// Gardner recovers symbol timing from an oversampled real-valued baseband
// stream using the Gardner timing-error detector, tracking a fractional
// interpolation interval (mu) and a samples-per-symbol estimate (omega)
// with a loop-bandwidth-derived gain pair (spec §4.7).
type Gardner struct {
	sps      float64
	mu       float64
	omega    float64
	omegaMid float64
	omegaLim float64

	gainMu    float64
	gainOmega float64
}

// New returns a Gardner recovery loop for the given samples-per-symbol
// ratio and loop bandwidth (typically 0.001-0.1).
func New(samplesPerSymbol, loopBandwidth float64) *Gardner {
	return &Gardner{
		sps:       samplesPerSymbol,
		omega:     samplesPerSymbol,
		omegaMid:  samplesPerSymbol,
		omegaLim:  0.5,
		gainMu:    loopBandwidth,
		gainOmega: loopBandwidth * loopBandwidth / 4.0,
	}
}

// Process runs the Gardner loop over samples and returns one recovered bit
// per detected symbol: 1 if the decision-point sample is positive, 0
// otherwise.
func (g *Gardner) Process(samples []float64) []int {
	var bits []int

	i := 0
	lastSample := 0.0
	midSample := 0.0

	for i < len(samples)-int(g.omega) {
		currIdx := i + int(g.mu)
		if currIdx >= len(samples) {
			break
		}
		currSample := samples[currIdx]

		midIdx := i + int(g.mu) - int(g.omega/2)
		if midIdx >= 0 && midIdx < len(samples) {
			midSample = samples[midIdx]
		}

		timingError := (currSample - lastSample) * midSample

		g.mu += g.gainMu * timingError
		g.omega += g.gainOmega * timingError
		g.omega = clamp(g.omega, g.omegaMid-g.omegaLim, g.omegaMid+g.omegaLim)

		if currSample > 0 {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}

		step := int(g.omega)
		i += step
		g.mu -= float64(step)
		if g.mu < 0 {
			g.mu += g.omega
			i--
		}

		lastSample = currSample
	}

	return bits
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
