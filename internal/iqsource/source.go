// Package iqsource implements the paced playback of a recorded
// complex-baseband IQ file: the real-time pacemaker for the rest of the
// pipeline.
package iqsource

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"hz.tools/sdr"
)

// Errors returned by Load.
var (
	// ErrNotFound is returned when the backing file does not exist.
	ErrNotFound = errors.New("iqsource: file not found")

	// ErrInvalidFormat is returned when the file length is not a multiple
	// of 8 bytes (one complex64 sample).
	ErrInvalidFormat = errors.New("iqsource: file length is not a multiple of 8 bytes")
)

const bytesPerSample = 8 // 4 bytes I + 4 bytes Q, both float32

// Source is the SampleSource component: it memory-resident-loads a
// complex-baseband file and yields chunks in file order, looping at EOF and supporting pause/resume and hot file swap.
//
// Source is safe for concurrent use: Chunk is expected to be called from
// the single pipeline goroutine, while the control-plane goroutine calls
// Play/Pause/Stop/Switch. All mutation goes through mu.
type Source struct {
	mu sync.Mutex

	path    string
	samples sdr.SamplesC64

	sampleRate uint
	offset     int
	running    bool
	paused     bool
}

// New returns an unloaded Source at the given declared sample rate. Call
// Load before the first Chunk.
func New(sampleRate uint) *Source {
	return &Source{sampleRate: sampleRate}
}

// Load reads path fully into memory as interleaved little-endian float32
// I/Q pairs. It does not start playback.
func (s *Source) Load(path string) error {
	samples, err := readFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.samples = samples
	s.offset = 0
	return nil
}

func readFile(path string) (sdr.SamplesC64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("iqsource: reading %s: %w", path, err)
	}
	if len(data)%bytesPerSample != 0 {
		return nil, ErrInvalidFormat
	}
	return decodeSamples(data), nil
}

// Play starts (or resumes) playback.
func (s *Source) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.paused = false
}

// Pause suspends Chunk output without resetting offset.
func (s *Source) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Stop halts playback and resets the read offset to the start of file.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.paused = false
	s.offset = 0
}

// Switch atomically replaces the backing file. Playback is left stopped;
// the caller must re-issue Play.
func (s *Source) Switch(path string) error {
	samples, err := readFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.samples = samples
	s.offset = 0
	s.running = false
	s.paused = false
	return nil
}

// Chunk returns the next n samples from the current offset. A chunk that
// reaches EOF stops there (it is shorter than n) and the offset wraps to 0
// within the same call, so the following chunk begins with sample 0. It
// returns (nil, false) while paused, stopped, or with no file loaded.
func (s *Source) Chunk(n int) (sdr.SamplesC64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.paused || len(s.samples) == 0 {
		return nil, false
	}

	end := s.offset + n
	if end > len(s.samples) {
		end = len(s.samples)
	}
	out := make(sdr.SamplesC64, end-s.offset)
	copy(out, s.samples[s.offset:end])
	s.offset = end
	if s.offset >= len(s.samples) {
		s.offset = 0
	}
	return out, true
}

// Status is a read-only snapshot of the stream descriptor, used by the
// control plane's periodic status publish.
type Status struct {
	Running bool
	Paused  bool
	Path    string
}

// Snapshot returns the current playback status.
func (s *Source) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Running: s.running, Paused: s.paused, Path: s.path}
}

// SampleRate returns the file's declared sample rate, authoritative for
// real-time pacing (see spec §3, tuning state).
func (s *Source) SampleRate() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate
}

func decodeSamples(data []byte) sdr.SamplesC64 {
	n := len(data) / bytesPerSample
	out := make(sdr.SamplesC64, n)
	for i := 0; i < n; i++ {
		re := math.Float32frombits(binary.LittleEndian.Uint32(data[i*8:]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(data[i*8+4:]))
		out[i] = complex(re, im)
	}
	return out
}
