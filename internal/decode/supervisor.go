// Package decode implements the Decoders orchestration component: one
// dongle.Client per decoder kind, each reconnecting with a fixed backoff
// and publishing its output into an observer.Hub (spec §4.11, §5).
package decode

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/n0call/rangesdr/internal/ais"
	"github.com/n0call/rangesdr/internal/clockrecovery"
	"github.com/n0call/rangesdr/internal/dongle"
	"github.com/n0call/rangesdr/internal/metrics"
	"github.com/n0call/rangesdr/internal/observer"
	"github.com/n0call/rangesdr/internal/sstv"
)

// ReconnectBackoff is the fixed reconnect delay for decoder consumers
// (spec §5): unlike the teacher's exponential rotctld backoff, the
// dongle-emulation server is expected to come back quickly after a
// pipeline restart, so a flat delay is sufficient.
const ReconnectBackoff = 1 * time.Second

// ChunkSize is the number of samples pulled per StreamClient.Chunk call.
const ChunkSize = 8192

// Supervisor owns one reconnecting dongle.Client per decoder kind and
// drives its consume loop until its context is cancelled.
type Supervisor struct {
	addr       string
	hub        *observer.Hub
	sampleRate float64
}

// NewSupervisor returns a Supervisor that dials addr for each decoder kind.
func NewSupervisor(addr string, hub *observer.Hub, sampleRate float64) *Supervisor {
	return &Supervisor{addr: addr, hub: hub, sampleRate: sampleRate}
}

// dial blocks, retrying with ReconnectBackoff, until it obtains a connected
// client or ctx is cancelled.
func (s *Supervisor) dial(ctx context.Context, label string) (*dongle.Client, bool) {
	for {
		client := dongle.NewClient(s.addr)
		if err := client.Connect(); err == nil {
			return client, true
		}
		log.Printf("[decode:%s] connect failed, retrying in %v", label, ReconnectBackoff)
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(ReconnectBackoff):
		}
	}
}

// RunMetrics drives the MetricsAnalyzer decoder consumer until ctx is done.
func (s *Supervisor) RunMetrics(ctx context.Context, exporter *metrics.Exporter) {
	analyzer := metrics.NewAnalyzer(s.sampleRate)
	chunkCount := 0

	for ctx.Err() == nil {
		client, ok := s.dial(ctx, "metrics")
		if !ok {
			return
		}

		for ctx.Err() == nil {
			chunk, err := client.Chunk(ChunkSize)
			if err != nil {
				break
			}
			complexChunk := toComplex128(chunk)

			record := analyzer.Analyze(complexChunk, float64(time.Now().UnixNano())/1e9)
			if exporter != nil {
				exporter.Observe(record)
			}
			s.hub.Publish("metrics", record)

			chunkCount++
			if chunkCount%5 == 0 {
				s.hub.Publish("plots", analyzer.ComputePlots(complexChunk))
			}
		}
		client.Close()
	}
}

// RunAIS drives the AISFrame decoder consumer until ctx is done.
func (s *Supervisor) RunAIS(ctx context.Context, jammingPower func() float64) {
	const baudRate = 9600.0
	const audioRate = 12000.0
	samplesPerBit := audioRate / baudRate

	for ctx.Err() == nil {
		client, ok := s.dial(ctx, "ais")
		if !ok {
			return
		}
		gardner := clockrecovery.New(samplesPerBit, 0.01)
		decoder := ais.NewDecoder()

		for ctx.Err() == nil {
			chunk, err := client.Chunk(ChunkSize)
			if err != nil {
				break
			}

			audio := demodulateFM(chunk)
			bits := gardner.Process(audio)
			nrzi := ais.NRZIDecode(bits)
			destuffed := ais.RemoveBitStuffing(nrzi)

			power := 0.0
			if jammingPower != nil {
				power = jammingPower()
			}
			for _, report := range decoder.Feed(destuffed, power) {
				s.hub.Publish("ais", report)
			}
		}
		client.Close()
	}
}

// RunSSTV drives the SSTVSync decoder consumer until ctx is done.
func (s *Supervisor) RunSSTV(ctx context.Context, audioRate float64) {
	for ctx.Err() == nil {
		client, ok := s.dial(ctx, "sstv")
		if !ok {
			return
		}

		decoder := sstv.NewDecoder(audioRate)
		decoder.OnScanLine(func(ev sstv.ScanLineEvent) {
			s.hub.Publish("sstv_scanline", ev)
		})
		decoder.OnImage(func(ev sstv.ImageEvent) {
			s.hub.Publish("sstv_image", ev)
		})

		visWindow := int(audioRate * 0.030) // 30ms bit window
		pixelWindow := audioRate * sstv.LineTime / float64(sstv.Width)

		for ctx.Err() == nil {
			chunk, err := client.Chunk(ChunkSize)
			if err != nil {
				break
			}
			audio := demodulateFM(chunk)

			switch decoder.State() {
			case sstv.StateWaitingForVIS:
				for start := 0; start+visWindow <= len(audio); start += visWindow {
					decoder.FeedVISWindow(audio[start:start+visWindow], 30*time.Millisecond)
				}
			case sstv.StateWaitingForSync:
				for start := 0; start+visWindow <= len(audio); start += visWindow {
					decoder.FeedSyncWindow(audio[start : start+visWindow])
				}
			case sstv.StateDecoding:
				n := int(pixelWindow)
				for start := 0; start+n <= len(audio); start += n {
					decoder.FeedPixelWindow(audio[start : start+n])
				}
			}
		}
		client.Close()
	}
}

func toComplex128(samples []complex64) []complex128 {
	out := make([]complex128, len(samples))
	for i, s := range samples {
		out[i] = complex(float64(real(s)), float64(imag(s)))
	}
	return out
}

// demodulateFM performs a simple instantaneous-phase-derivative FM
// demodulation, the audio front end shared by the AIS and SSTV consumers.
func demodulateFM(samples []complex64) []float64 {
	out := make([]float64, len(samples))
	var prevPhase float64
	for i, s := range samples {
		phase := phaseOf(s)
		if i == 0 {
			out[i] = 0
		} else {
			out[i] = wrapPhase(phase - prevPhase)
		}
		prevPhase = phase
	}
	return out
}

func phaseOf(s complex64) float64 {
	return math.Atan2(float64(imag(s)), float64(real(s)))
}

// wrapPhase wraps a phase difference into (-pi, pi].
func wrapPhase(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
