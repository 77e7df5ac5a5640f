// Command rangesdr-feed runs the streaming pipeline: SampleSource feeds
// JammerSynth via Mixer into DongleServer's broadcast, while ControlPlane
// mutates jammer/source state over MQTT (spec §2, §5).
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"hz.tools/rf"

	"github.com/n0call/rangesdr/internal/config"
	"github.com/n0call/rangesdr/internal/control"
	"github.com/n0call/rangesdr/internal/dongle"
	"github.com/n0call/rangesdr/internal/iqsource"
	"github.com/n0call/rangesdr/internal/jammer"
)

func main() {
	configPath := pflag.String("config", "feed.yaml", "path to YAML configuration file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("rangesdr-feed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := iqsource.New(cfg.Source.SampleRate)
	if cfg.Source.FilePath != "" {
		if err := source.Load(cfg.Source.FilePath); err != nil {
			log.Fatalf("rangesdr-feed: loading %s: %v", cfg.Source.FilePath, err)
		}
		source.Play()
	}

	synth := jammer.New(cfg.Dongle.TunedSampleHz)
	synth.SetTuning(rf.Hz(cfg.Dongle.CenterFreqHz), cfg.Dongle.TunedSampleHz)
	if kind, ok := parseJammerKind(cfg.Jammer.Kind); ok {
		synth.SetKind(kind)
	}
	if err := synth.SetAmplitude(cfg.Jammer.Amplitude); err != nil {
		log.Printf("rangesdr-feed: invalid initial jammer amplitude: %v", err)
	}
	synth.SetEnabled(cfg.Jammer.Enabled)

	mixer := jammer.NewMixer(synth)

	server := dongle.NewServer(cfg.Dongle.ListenAddr, dongle.Tuning{
		CenterFreq: rf.Hz(cfg.Dongle.CenterFreqHz),
		SampleRate: cfg.Dongle.TunedSampleHz,
	})
	server.OnTuningChange(func(t dongle.Tuning) {
		synth.SetTuning(t.CenterFreq, t.SampleRate)
	})

	plane, err := control.New(control.Config{
		Broker:   fmt.Sprintf("tcp://%s:%d", cfg.MQTT.BrokerHost, cfg.MQTT.BrokerPort),
		ClientID: cfg.MQTT.ClientID,
		Prefix:   cfg.MQTT.Prefix,
	}, source, synth, server)
	if err != nil {
		log.Fatalf("rangesdr-feed: control plane: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Serve()
	})

	g.Go(func() error {
		plane.Run(ctx)
		return nil
	})

	g.Go(func() error {
		return runPipeline(ctx, source, mixer, server, cfg.Source.ChunkSize)
	})

	if err := g.Wait(); err != nil {
		log.Printf("rangesdr-feed: exited: %v", err)
	}
}

// runPipeline is the real-time pacemaker: it pulls one chunk per tick,
// mixes in the jammer, and broadcasts to every connected dongle session
// (spec §4.1, §5).
func runPipeline(ctx context.Context, source *iqsource.Source, mixer *jammer.Mixer, server *dongle.Server, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 8192
	}

	rate := source.SampleRate()
	if rate == 0 {
		rate = 2_000_000
	}
	period := time.Duration(float64(chunkSize) / float64(rate) * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			chunk, ok := source.Chunk(chunkSize)
			if !ok {
				continue
			}
			mixed := mixer.Mix(chunk)
			server.Broadcast(mixed)
		}
	}
}

func parseJammerKind(s string) (jammer.Kind, bool) {
	switch s {
	case "barrage":
		return jammer.KindBarrage, true
	case "spot":
		return jammer.KindSpot, true
	case "sweep":
		return jammer.KindSweep, true
	case "pulse":
		return jammer.KindPulse, true
	case "chirp":
		return jammer.KindChirp, true
	case "fhss":
		return jammer.KindFHSS, true
	default:
		return 0, false
	}
}
