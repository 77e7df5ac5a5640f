// Command rangesdr-decode runs the decoder consumers (MetricsAnalyzer,
// AISFrame, SSTVSync) against a running rangesdr-feed dongle server and
// publishes their output to the observer websocket hub (spec §4.10-§4.13).
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/n0call/rangesdr/internal/config"
	"github.com/n0call/rangesdr/internal/decode"
	"github.com/n0call/rangesdr/internal/metrics"
	"github.com/n0call/rangesdr/internal/observer"
)

func main() {
	configPath := pflag.String("config", "decode.yaml", "path to YAML configuration file")
	audioRate := pflag.Float64("audio-rate", 12000, "demodulated audio sample rate in Hz")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("rangesdr-decode: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := observer.NewHub()
	exporter := metrics.NewExporter()
	supervisor := decode.NewSupervisor(cfg.Dongle.ListenAddr, hub, float64(cfg.Dongle.TunedSampleHz))

	mux := http.NewServeMux()
	mux.Handle("/observe", hub)
	mux.Handle("/metrics", promHandler())

	httpServer := &http.Server{Addr: cfg.Server.ListenAddr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return httpServer.Close()
	})
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		supervisor.RunMetrics(ctx, exporter)
		return nil
	})
	g.Go(func() error {
		supervisor.RunAIS(ctx, func() float64 { return 0 })
		return nil
	})
	g.Go(func() error {
		supervisor.RunSSTV(ctx, *audioRate)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("rangesdr-decode: exited: %v", err)
	}
}
