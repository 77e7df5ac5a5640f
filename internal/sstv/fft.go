package sstv

import "gonum.org/v1/gonum/dsp/fourier"

// realFFT computes the FFT of real-valued input, padding to the next power
// of two as gonum's radix-2 routines require. The returned slice has the
// padded length, not len(input); callers must derive bin frequency as
// bin*fs/len(result).
func realFFT(input []float64) []complex128 {
	complexInput := make([]complex128, len(input))
	for i, v := range input {
		complexInput[i] = complex(v, 0)
	}
	padded := fourier.PadRadix2(complexInput)
	return fourier.CoefficientsRadix2(padded)
}
