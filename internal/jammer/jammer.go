// Package jammer synthesizes continuous-phase jamming waveforms and mixes
// them additively into a clean sample chunk.
package jammer

import (
	"errors"
	"math"
	"math/rand"
	"sync"

	"hz.tools/rf"
	"hz.tools/sdr"
)

// ErrInvalidParameter is returned by setters given an out-of-range value.
var ErrInvalidParameter = errors.New("jammer: invalid parameter")

// Kind is one of the six jamming waveform kinds.
type Kind int

const (
	// KindBarrage is wideband Gaussian noise, passband-independent.
	KindBarrage Kind = iota
	// KindSpot is a single continuous tone.
	KindSpot
	// KindSweep is a tone swept sinusoidally around the target frequency.
	KindSweep
	// KindPulse is a tone gated on/off on a fixed period.
	KindPulse
	// KindChirp is a sawtooth-swept tone.
	KindChirp
	// KindFHSS hops among five discrete offsets every 10ms.
	KindFHSS
)

func (k Kind) String() string {
	switch k {
	case KindBarrage:
		return "barrage"
	case KindSpot:
		return "spot"
	case KindSweep:
		return "sweep"
	case KindPulse:
		return "pulse"
	case KindChirp:
		return "chirp"
	case KindFHSS:
		return "fhss"
	default:
		return "unknown"
	}
}

// waveform-specific constants, per spec §4.2.
const (
	sweepWidth     = 50e3 // Hz
	sweepRateHz    = 10.0 // Hz
	pulsePeriod    = 1000 // samples
	pulseWidth     = 100  // samples
	chirpRateHzPS  = 100e3 // Hz/s
	chirpWidth     = 50e3  // Hz
)

var fhssHops = [5]rf.Hz{-40e3, -20e3, 0, 20e3, 40e3}

// Config is an immutable snapshot of jammer state, constructed by the
// control plane and loaded once per chunk by the pipeline. This is the
// single-writer/single-reader pattern described in spec §9: no field
// locking is needed because a torn read merely applies a stale config for
// one chunk.
type Config struct {
	Enabled    bool
	Kind       Kind
	Amplitude  float64 // linear, [0,1]
	TargetFreq rf.Hz
	CenterFreq rf.Hz
	SampleRate uint
}

// InBandwidth reports whether the jammer's target frequency lies in the
// receiver's passband, per spec §3 passband predicate.
func (c Config) InBandwidth() bool {
	offset := c.TargetFreq - c.CenterFreq
	if offset < 0 {
		offset = -offset
	}
	return float64(offset) < float64(c.SampleRate)/2
}

// Synth is the JammerSynth component: it produces chunks of one of six
// jamming waveforms with phase continuity preserved across chunks of the
// same kind/frequency/tuning.
type Synth struct {
	mu sync.Mutex

	cfg Config

	counter uint64 // phase-continuity sample counter (k in spec notation)

	// sweepPhase and chirpPhase carry the cumulative phase accumulator for
	// those two kinds across chunk boundaries, so the waveform has no
	// discontinuity at a chunk edge (spec §4.2).
	sweepPhase float64
	chirpPhase float64

	rng *rand.Rand
}

// New returns a disabled Synth with the given default sample rate.
func New(sampleRate uint) *Synth {
	return &Synth{
		cfg: Config{Kind: KindBarrage, SampleRate: sampleRate},
		rng: rand.New(rand.NewSource(1)),
	}
}

// SetEnabled toggles jamming on or off.
func (s *Synth) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Enabled = enabled
}

// SetKind selects the waveform kind, resetting the phase counter — a new
// kind is always a fresh start (spec §4.2).
func (s *Synth) SetKind(k Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Kind = k
	s.counter = 0
	s.sweepPhase = 0
	s.chirpPhase = 0
}

// SetAmplitude sets linear amplitude, clamped to [0,1]. NaN or negative
// values are rejected.
func (s *Synth) SetAmplitude(a float64) error {
	if math.IsNaN(a) || a < 0 {
		return ErrInvalidParameter
	}
	if a > 1 {
		a = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Amplitude = a
	s.counter = 0
	s.sweepPhase = 0
	s.chirpPhase = 0
	return nil
}

// SetTargetFrequency sets the jammer's absolute target frequency,
// resetting the phase counter.
func (s *Synth) SetTargetFrequency(f rf.Hz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.TargetFreq = f
	s.counter = 0
	s.sweepPhase = 0
	s.chirpPhase = 0
}

// SetTuning updates the receiver's centre frequency and sample rate (as
// observed from the DongleServer's command stream), resetting the phase
// counter.
func (s *Synth) SetTuning(centerFreq rf.Hz, sampleRate uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.CenterFreq = centerFreq
	s.cfg.SampleRate = sampleRate
	s.counter = 0
	s.sweepPhase = 0
	s.chirpPhase = 0
}

// Snapshot returns the current jammer configuration.
func (s *Synth) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Chunk produces n jamming samples and advances the phase counter by n.
func (s *Synth) Chunk(n int) sdr.SamplesC64 {
	s.mu.Lock()
	cfg := s.cfg
	k := s.counter
	s.counter += uint64(n)
	s.mu.Unlock()

	out := make(sdr.SamplesC64, n)
	if !cfg.Enabled || cfg.Amplitude <= 0 {
		return out
	}

	switch cfg.Kind {
	case KindBarrage:
		s.genBarrage(out, cfg)
	case KindSpot:
		if cfg.InBandwidth() {
			genSpot(out, cfg, k)
		}
	case KindSweep:
		if cfg.InBandwidth() {
			s.genSweep(out, cfg, k)
		}
	case KindPulse:
		if cfg.InBandwidth() {
			genPulse(out, cfg, k)
		}
	case KindChirp:
		if cfg.InBandwidth() {
			s.genChirp(out, cfg, k)
		}
	case KindFHSS:
		if cfg.InBandwidth() {
			s.genFHSS(out, cfg, k)
		}
	}
	return out
}

// genBarrage fills out with independent Gaussian I/Q, variance A^2. Not
// gated by passband (spec §4.2: "No passband check").
func (s *Synth) genBarrage(out sdr.SamplesC64, cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := cfg.Amplitude
	for i := range out {
		i0 := s.rng.NormFloat64() * a
		q0 := s.rng.NormFloat64() * a
		out[i] = complex(float32(i0), float32(q0))
	}
}

func genSpot(out sdr.SamplesC64, cfg Config, k uint64) {
	delta := float64(cfg.TargetFreq - cfg.CenterFreq)
	fs := float64(cfg.SampleRate)
	omega := 2 * math.Pi * delta / fs
	for i := range out {
		t := float64(k) + float64(i)
		phase := omega * t
		out[i] = complex(
			float32(cfg.Amplitude*math.Cos(phase)),
			float32(cfg.Amplitude*math.Sin(phase)),
		)
	}
}

// genSweep accumulates phase in s.sweepPhase across calls so the waveform
// is continuous at chunk boundaries (spec §4.2, §8 phase-continuity).
func (s *Synth) genSweep(out sdr.SamplesC64, cfg Config, k uint64) {
	delta := float64(cfg.TargetFreq - cfg.CenterFreq)
	fs := float64(cfg.SampleRate)

	s.mu.Lock()
	phase := s.sweepPhase
	s.mu.Unlock()

	for i := range out {
		t := float64(k) + float64(i)
		instOffset := delta + sweepWidth*math.Sin(2*math.Pi*sweepRateHz*t/fs)
		phase += 2 * math.Pi * instOffset / fs
		out[i] = complex(
			float32(cfg.Amplitude*math.Cos(phase)),
			float32(cfg.Amplitude*math.Sin(phase)),
		)
	}

	s.mu.Lock()
	s.sweepPhase = phase
	s.mu.Unlock()
}

func genPulse(out sdr.SamplesC64, cfg Config, k uint64) {
	delta := float64(cfg.TargetFreq - cfg.CenterFreq)
	fs := float64(cfg.SampleRate)
	omega := 2 * math.Pi * delta / fs
	for i := range out {
		t := float64(k) + float64(i)
		if int(t)%pulsePeriod < pulseWidth {
			phase := omega * t
			out[i] = complex(
				float32(cfg.Amplitude*math.Cos(phase)),
				float32(cfg.Amplitude*math.Sin(phase)),
			)
		}
	}
}

// genChirp accumulates phase in s.chirpPhase across calls so the waveform
// is continuous at chunk boundaries (spec §4.2).
func (s *Synth) genChirp(out sdr.SamplesC64, cfg Config, k uint64) {
	delta := float64(cfg.TargetFreq - cfg.CenterFreq)
	fs := float64(cfg.SampleRate)
	sweepTime := fs / chirpRateHzPS

	s.mu.Lock()
	phase := s.chirpPhase
	s.mu.Unlock()

	for i := range out {
		t := float64(k) + float64(i)
		phaseAcc := math.Mod(t, sweepTime) / sweepTime
		instFreq := delta + chirpWidth*(phaseAcc-0.5)
		phase += 2 * math.Pi * instFreq / fs
		out[i] = complex(
			float32(cfg.Amplitude*math.Cos(phase)),
			float32(cfg.Amplitude*math.Sin(phase)),
		)
	}

	s.mu.Lock()
	s.chirpPhase = phase
	s.mu.Unlock()
}

// genFHSS hops among the five discrete offsets every block of ⌊0.01·fs⌋
// samples. Block boundaries and the hop chosen for each block are keyed off
// the absolute sample index (k+i), not the chunk-relative index, so hopping
// stays aligned across chunk boundaries with no extra state to carry.
func (s *Synth) genFHSS(out sdr.SamplesC64, cfg Config, k uint64) {
	delta := float64(cfg.TargetFreq - cfg.CenterFreq)
	fs := float64(cfg.SampleRate)
	blockLen := uint64(0.01 * fs)
	if blockLen == 0 {
		blockLen = 1
	}

	for i := range out {
		absIdx := k + uint64(i)
		block := absIdx / blockLen
		hop := fhssHops[hopForBlock(block)]
		totalOffset := delta + float64(hop)
		phase := 2 * math.Pi * totalOffset / fs * float64(absIdx)
		out[i] = complex(
			float32(cfg.Amplitude*math.Cos(phase)),
			float32(cfg.Amplitude*math.Sin(phase)),
		)
	}
}

// hopForBlock deterministically selects a hop index for a given block
// number, so that the same block always hops to the same offset regardless
// of which chunk boundary it straddles.
func hopForBlock(block uint64) int {
	r := rand.New(rand.NewSource(int64(block) + 1))
	return r.Intn(len(fhssHops))
}
