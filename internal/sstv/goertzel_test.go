package sstv

import (
	"math"
	"math/rand"
	"testing"
)

func TestGoertzelDiscrimination(t *testing.T) {
	const fs = 8000.0
	const f0 = 1900.0
	const n = 256
	const sigma = 0.2

	rng := rand.New(rand.NewSource(42))
	trials := 200
	wins := 0

	for trial := 0; trial < trials; trial++ {
		samples := make([]float64, n)
		for i := range samples {
			samples[i] = math.Sin(2*math.Pi*f0*float64(i)/fs) + rng.NormFloat64()*sigma
		}

		magAtF0 := GoertzelMagnitude(samples, f0, fs)
		magFar := GoertzelMagnitude(samples, f0+400, fs)

		if magAtF0 > magFar {
			wins++
		}
	}

	if float64(wins)/float64(trials) < 0.9 {
		t.Fatalf("expected high discrimination rate, got %d/%d", wins, trials)
	}
}

func TestToneDetected(t *testing.T) {
	const fs = 8000.0
	const n = 240 // 30ms at 8kHz
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 1200 * float64(i) / fs)
	}
	if !ToneDetected(samples, 1200, 1900, fs) {
		t.Fatal("expected 1200Hz tone to be detected against 1900Hz reference")
	}
	if ToneDetected(samples, 1900, 1200, fs) {
		t.Fatal("did not expect 1900Hz tone to register against a stronger 1200Hz signal")
	}
}
