package dongle

import "testing"

func TestQuantizeRoundTrip(t *testing.T) {
	for i := -127; i <= 127; i++ {
		v := float32(i) / 127.0
		u := Quantize(v)
		back := Dequantize(u)
		err := float64(back) - float64(v)
		if err < 0 {
			err = -err
		}
		if err > 1.0/127.5 {
			t.Fatalf("v=%v: round-trip error %v exceeds 1/127.5", v, err)
		}
	}
}

func TestQuantizeClips(t *testing.T) {
	if Quantize(2.0) != 255 {
		t.Fatalf("expected clip to 255 for v=2.0, got %d", Quantize(2.0))
	}
	if Quantize(-2.0) != 0 {
		t.Fatalf("expected clip to 0 for v=-2.0, got %d", Quantize(-2.0))
	}
}
