package jammer

import "hz.tools/sdr"

// Mixer additively combines a jammer chunk into a clean sample chunk. It
// performs no clipping — saturation clipping happens only at the
// DongleServer's wire-quantization stage, preserving headroom for
// downstream float consumers (spec §4.3).
type Mixer struct {
	synth *Synth
}

// NewMixer returns a Mixer that pulls jammer chunks from synth.
func NewMixer(synth *Synth) *Mixer {
	return &Mixer{synth: synth}
}

// Mix returns clean unchanged if the jammer is disabled or silent;
// otherwise it returns the element-wise sum of clean and a freshly
// synthesized jammer chunk of matching length.
func (m *Mixer) Mix(clean sdr.SamplesC64) sdr.SamplesC64 {
	cfg := m.synth.Snapshot()
	if !cfg.Enabled || cfg.Amplitude <= 0 {
		return clean
	}

	jam := m.synth.Chunk(len(clean))
	out := make(sdr.SamplesC64, len(clean))
	for i := range clean {
		out[i] = clean[i] + jam[i]
	}
	return out
}
