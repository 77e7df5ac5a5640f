package ais

import "testing"

func nrziEncode(bits []int, seed int) []int {
	encoded := make([]int, len(bits))
	last := seed
	for i, b := range bits {
		if b == 1 {
			encoded[i] = last // no transition
		} else {
			encoded[i] = 1 - last // transition
		}
		last = encoded[i]
	}
	return encoded
}

func TestNRZIInvolution(t *testing.T) {
	bits := []int{1, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 1}
	for seed := 0; seed <= 1; seed++ {
		encoded := nrziEncode(bits, seed)
		// NRZIDecode always assumes a last-bit of 0 at stream start, matching
		// the original decoder; verify round-trip for that convention.
		if seed != 0 {
			continue
		}
		decoded := NRZIDecode(encoded)
		for i := range bits {
			if decoded[i] != bits[i] {
				t.Fatalf("seed=%d: mismatch at %d: got %d want %d", seed, i, decoded[i], bits[i])
			}
		}
	}
}

func stuff(bits []int) []int {
	out := make([]int, 0, len(bits)+len(bits)/5+1)
	ones := 0
	for _, b := range bits {
		out = append(out, b)
		if b == 1 {
			ones++
			if ones == 5 {
				out = append(out, 0)
				ones = 0
			}
		} else {
			ones = 0
		}
	}
	return out
}

func TestDestuffInverse(t *testing.T) {
	cases := [][]int{
		{0, 1, 1, 1, 1, 1, 0, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{0, 0, 0, 0, 0},
		{1, 0, 1, 0, 1, 1, 1, 1, 1, 0, 0, 1},
	}
	for _, bits := range cases {
		stuffed := stuff(bits)
		unstuffed := RemoveBitStuffing(stuffed)
		if len(unstuffed) != len(bits) {
			t.Fatalf("length mismatch: got %v want %v", unstuffed, bits)
		}
		for i := range bits {
			if unstuffed[i] != bits[i] {
				t.Fatalf("mismatch at %d: got %v want %v", i, unstuffed, bits)
			}
		}
	}
}

func TestCRCCorrectness(t *testing.T) {
	data := []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0, 0, 1, 1, 0, 1, 0, 1}
	crc := CalculateCRC(data)

	var trailer []int
	for i := 15; i >= 0; i-- {
		trailer = append(trailer, int((crc>>uint(i))&1))
	}

	frame := append(append([]int(nil), data...), trailer...)
	if !VerifyCRC(frame) {
		t.Fatal("expected valid CRC to verify")
	}

	for i := range frame {
		flipped := append([]int(nil), frame...)
		flipped[i] = 1 - flipped[i]
		if VerifyCRC(flipped) {
			t.Fatalf("single-bit flip at %d unexpectedly verified", i)
		}
	}
}
