package metrics

import (
	"math"
	"testing"
)

func TestBERTable(t *testing.T) {
	cases := []struct {
		snr  float64
		want float64
	}{
		{20, 1e-5},
		{15, 1e-5},
		{13, 1e-4},
		{10, 1e-3},
		{8, 1e-2},
		{6, 5e-2},
		{4, 0.15},
		{2, 0.30},
		{0, 0.40},
		{-5, 0.50},
	}
	for _, c := range cases {
		if got := berForSNR(c.snr); got != c.want {
			t.Errorf("berForSNR(%v) = %v, want %v", c.snr, got, c.want)
		}
	}
}

func TestPacketSuccessMonotonic(t *testing.T) {
	prevSuccess := -1.0
	for _, snr := range []float64{-5, 0, 4, 8, 12, 16} {
		ber := berForSNR(snr)
		success := math.Pow(1-ber, 1000)
		if success < prevSuccess {
			t.Fatalf("packet success not monotonic with SNR at %v: %v < %v", snr, success, prevSuccess)
		}
		prevSuccess = success
	}
}

func TestAnalyzeProducesFiniteRecord(t *testing.T) {
	a := NewAnalyzer(1_000_000)
	samples := make([]complex128, 1024)
	for i := range samples {
		samples[i] = complex(float64(i%7)-3, float64(i%5)-2)
	}
	rec := a.Analyze(samples, 0)
	if math.IsNaN(rec.SNRdB) || math.IsInf(rec.SNRdB, 0) {
		t.Fatalf("expected finite SNR, got %v", rec.SNRdB)
	}
	if rec.PacketSuccess < 0 || rec.PacketSuccess > 1 {
		t.Fatalf("expected packet success in [0,1], got %v", rec.PacketSuccess)
	}
}
