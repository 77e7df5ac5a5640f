// Package sstv implements the slow-scan television imaging decoder: Goertzel
// tone detection, a VIS-code state machine, line-sync detection, and
// per-pixel frequency-to-intensity mapping (spec §4.8).
package sstv

import "math"

// GoertzelMagnitude computes the single-bin Goertzel response of samples to
// target frequency f at sample rate fs, following the standard recurrence:
// q0 = coeff*q1 - q2 + sample, magnitude = sqrt(q1^2 + q2^2 - q1*q2*coeff).
func GoertzelMagnitude(samples []float64, f, fs float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	k := math.Round(float64(n) * f / fs)
	omega := 2 * math.Pi * k / float64(n)
	coeff := 2 * math.Cos(omega)

	var q1, q2 float64
	for _, s := range samples {
		q0 := coeff*q1 - q2 + s
		q2 = q1
		q1 = q0
	}
	return math.Sqrt(q1*q1 + q2*q2 - q1*q2*coeff)
}

// ToneDetected reports whether the tone at targetHz is present in samples,
// defined as its Goertzel magnitude exceeding the magnitude of referenceHz
// by a factor of three (spec §4.8).
func ToneDetected(samples []float64, targetHz, referenceHz, fs float64) bool {
	target := GoertzelMagnitude(samples, targetHz, fs)
	reference := GoertzelMagnitude(samples, referenceHz, fs)
	return target > reference*3
}

// dominantFrequency returns the FFT bin with peak magnitude within
// [loHz, hiHz], using realFFT (gonum's radix-2 complex FFT of the real
// input), for the per-pixel decode step.
func dominantFrequency(samples []float64, fs, loHz, hiHz float64) float64 {
	coeffs := realFFT(samples)
	n := len(coeffs)

	bestBin := -1
	bestMag := -1.0
	for bin, c := range coeffs {
		freq := float64(bin) * fs / float64(n)
		if freq < loHz || freq > hiHz {
			continue
		}
		mag := math.Hypot(real(c), imag(c))
		if mag > bestMag {
			bestMag = mag
			bestBin = bin
		}
	}
	if bestBin < 0 {
		return (loHz + hiHz) / 2
	}
	return float64(bestBin) * fs / float64(n)
}
