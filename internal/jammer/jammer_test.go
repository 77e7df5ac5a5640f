package jammer

import (
	"math"
	"testing"

	"hz.tools/rf"
)

func newTestSynth() *Synth {
	s := New(1_024_000)
	s.SetTuning(100_000_000, 1_024_000)
	return s
}

func TestPassbandGating(t *testing.T) {
	s := newTestSynth()
	s.SetEnabled(true)
	s.SetAmplitude(0.5)
	s.SetTargetFrequency(rf.Hz(100_000_000 + 800_000)) // outside fs/2 = 512kHz

	for _, kind := range []Kind{KindSpot, KindSweep, KindPulse, KindChirp, KindFHSS} {
		s.SetKind(kind)
		chunk := s.Chunk(4096)
		for i, c := range chunk {
			if c != 0 {
				t.Fatalf("kind %v: expected zero chunk out of passband, got nonzero at %d: %v", kind, i, c)
			}
		}
	}
}

func TestBarragePassbandIndependent(t *testing.T) {
	s := newTestSynth()
	s.SetEnabled(true)
	s.SetKind(KindBarrage)
	s.SetAmplitude(0.3)
	s.SetTargetFrequency(rf.Hz(100_000_000 + 800_000)) // would be out of passband for other kinds

	chunk := s.Chunk(4096)
	var sumSq float64
	for _, c := range chunk {
		r, i := float64(real(c)), float64(imag(c))
		sumSq += r*r + i*i
	}
	variance := sumSq / float64(len(chunk))
	if variance <= 0 {
		t.Fatalf("expected nonzero barrage variance regardless of passband, got %v", variance)
	}
}

func TestSpotPhaseContinuity(t *testing.T) {
	s1 := newTestSynth()
	s1.SetEnabled(true)
	s1.SetKind(KindSpot)
	s1.SetAmplitude(1.0)
	s1.SetTargetFrequency(rf.Hz(100_100_000))

	const n = 2048
	first := s1.Chunk(n)
	second := s1.Chunk(n)

	s2 := newTestSynth()
	s2.SetEnabled(true)
	s2.SetKind(KindSpot)
	s2.SetAmplitude(1.0)
	s2.SetTargetFrequency(rf.Hz(100_100_000))
	combined := s2.Chunk(2 * n)

	for i := 0; i < n; i++ {
		if diff := cmplxAbs(complex128(first[i] - combined[i])); diff > 1e-5 {
			t.Fatalf("first half mismatch at %d: %v vs %v", i, first[i], combined[i])
		}
	}
	for i := 0; i < n; i++ {
		if diff := cmplxAbs(complex128(second[i] - combined[n+i])); diff > 1e-5 {
			t.Fatalf("second half mismatch at %d: %v vs %v", i, second[i], combined[n+i])
		}
	}
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func TestSetAmplitudeValidation(t *testing.T) {
	s := newTestSynth()
	if err := s.SetAmplitude(math.NaN()); err == nil {
		t.Fatal("expected error for NaN amplitude")
	}
	if err := s.SetAmplitude(-1); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
	if err := s.SetAmplitude(2.0); err != nil {
		t.Fatalf("expected clamp, not error, for amplitude > 1: %v", err)
	}
	if got := s.Snapshot().Amplitude; got != 1.0 {
		t.Fatalf("expected amplitude clamped to 1.0, got %v", got)
	}
}
