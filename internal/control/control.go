// Package control implements the ControlPlane: it subscribes to a pub/sub
// control topic, maps commands onto the SampleSource and JammerSynth, and
// publishes periodic (and on-mutation) status snapshots.
package control

import (
	"context"
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"hz.tools/rf"

	"github.com/n0call/rangesdr/internal/dongle"
	"github.com/n0call/rangesdr/internal/iqsource"
	"github.com/n0call/rangesdr/internal/jammer"
)

// StatusInterval is the fixed periodic status-publish cadence (spec §4.5).
const StatusInterval = 2 * time.Second

// Envelope is the JSON control-message shape: either the direct
// `{"command": ..., "parameters": ...}` form or the legacy
// `{"type": "trigger", "content": {...}}` wrapper (spec §6).
type Envelope struct {
	Type    string          `json:"type,omitempty"`
	Content *Command        `json:"content,omitempty"`
	Command string          `json:"command,omitempty"`
	Params  json.RawMessage `json:"parameters,omitempty"`
}

// Command is the unwrapped {command, parameters} pair.
type Command struct {
	Command string          `json:"command"`
	Params  json.RawMessage `json:"parameters"`
}

type params struct {
	Type      string  `json:"type"`
	Amplitude float64 `json:"amplitude"`
	Power     float64 `json:"power"`
	Frequency float64 `json:"frequency"`
	File      string  `json:"file"`
}

// Plane is the ControlPlane component.
type Plane struct {
	client mqtt.Client
	prefix string

	source *iqsource.Source
	synth  *jammer.Synth
	server *dongle.Server

	statusTopic  string
	controlTopic string
}

// Config configures the MQTT transport used by Plane, grounded on
// original_source's mqtt_handler.py topic layout and the teacher's
// mqtt_publisher.go connection-option idiom.
type Config struct {
	Broker   string // e.g. "tcp://mqtt:1883"
	ClientID string
	Prefix   string // topic prefix, default "rangesdr/feed"
}

// New connects to the MQTT broker and subscribes to the control topic.
func New(cfg Config, source *iqsource.Source, synth *jammer.Synth, server *dongle.Server) (*Plane, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "rangesdr/feed"
	}

	p := &Plane{
		prefix:       cfg.Prefix,
		source:       source,
		synth:        synth,
		server:       server,
		statusTopic:  cfg.Prefix + "/status",
		controlTopic: cfg.Prefix + "/control",
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		log.Println("control: connected to broker")
		c.Subscribe(p.controlTopic, 0, p.onMessage)
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		log.Printf("control: connection lost: %v", err)
	})

	p.client = mqtt.NewClient(opts)
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return p, nil
}

// Run publishes a status snapshot every StatusInterval until ctx is done.
func (p *Plane) Run(ctx context.Context) {
	ticker := time.NewTicker(StatusInterval)
	defer ticker.Stop()

	p.PublishStatus()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PublishStatus()
		}
	}
}

func (p *Plane) onMessage(_ mqtt.Client, msg mqtt.Message) {
	var env Envelope
	if err := json.Unmarshal(msg.Payload(), &env); err != nil {
		log.Printf("control: bad message: %v", err)
		return
	}

	cmd, raw := env.Command, env.Params
	if env.Type == "trigger" && env.Content != nil {
		cmd, raw = env.Content.Command, env.Content.Params
	}
	if cmd == "" {
		return
	}

	var ps params
	_ = json.Unmarshal(raw, &ps)

	p.dispatch(cmd, ps)
	p.PublishStatus()
}

func (p *Plane) dispatch(cmd string, ps params) {
	switch cmd {
	case "play":
		p.source.Play()
	case "pause":
		p.source.Pause()
	case "stop":
		p.source.Stop()
	case "enable":
		p.synth.SetEnabled(true)
	case "disable":
		p.synth.SetEnabled(false)
	case "set_kind":
		if k, ok := parseKind(ps.Type); ok {
			p.synth.SetKind(k)
		} else {
			log.Printf("control: invalid jammer kind %q", ps.Type)
		}
	case "set_amplitude":
		amp := ps.Amplitude
		if amp == 0 {
			amp = ps.Power
		}
		if err := p.synth.SetAmplitude(amp); err != nil {
			log.Printf("control: %v", err)
		}
	case "set_target_frequency":
		p.synth.SetTargetFrequency(rf.Hz(ps.Frequency))
	case "switch_source":
		if ps.File == "" {
			log.Printf("control: switch_source missing file")
			return
		}
		if err := p.source.Switch(ps.File); err != nil {
			log.Printf("control: switch_source failed: %v", err)
		}
	default:
		log.Printf("control: unrecognized command %q", cmd)
	}
}

func parseKind(s string) (jammer.Kind, bool) {
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

// Status mirrors the JSON schema of spec §6.
type Status struct {
	Timestamp float64        `json:"timestamp"`
	Playback  PlaybackStatus `json:"playback"`
	Jamming   JammingStatus  `json:"jamming"`
	GqrxConn  bool           `json:"gqrx_connected"`
}

// PlaybackStatus is the "playback" field of Status.
type PlaybackStatus struct {
	Running bool   `json:"running"`
	Paused  bool   `json:"paused"`
	File    string `json:"file"`
}

// JammingStatus is the "jamming" field of Status.
type JammingStatus struct {
	Enabled        bool     `json:"enabled"`
	Type           string   `json:"type"`
	Power          float64  `json:"power"`
	JammingFreqMHz float64  `json:"jamming_freq_mhz"`
	CurrentFreqMHz float64  `json:"current_freq_mhz"`
	SampleRateMHz  float64  `json:"sample_rate_mhz"`
	InBandwidth    bool     `json:"in_bandwidth"`
	FreqOffsetKHz  *float64 `json:"freq_offset_khz"`
}

// PublishStatus builds and publishes a retained status snapshot,
// reflecting the source/jammer/server state at call time.
func (p *Plane) PublishStatus() {
	srcStatus := p.source.Snapshot()
	jamCfg := p.synth.Snapshot()

	offset := float64(jamCfg.TargetFreq-jamCfg.CenterFreq) / 1e3
	var offsetPtr *float64
	if jamCfg.InBandwidth() {
		offsetPtr = &offset
	}

	status := Status{
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
		Playback: PlaybackStatus{
			Running: srcStatus.Running,
			Paused:  srcStatus.Paused,
			File:    srcStatus.Path,
		},
		Jamming: JammingStatus{
			Enabled:        jamCfg.Enabled,
			Type:           jamCfg.Kind.String(),
			Power:          jamCfg.Amplitude,
			JammingFreqMHz: float64(jamCfg.TargetFreq) / 1e6,
			CurrentFreqMHz: float64(jamCfg.CenterFreq) / 1e6,
			SampleRateMHz:  float64(jamCfg.SampleRate) / 1e6,
			InBandwidth:    jamCfg.InBandwidth(),
			FreqOffsetKHz:  offsetPtr,
		},
		GqrxConn: p.server.ClientCount() > 0,
	}

	payload, err := json.Marshal(status)
	if err != nil {
		log.Printf("control: marshal status: %v", err)
		return
	}
	p.client.Publish(p.statusTopic, 0, true, payload)
}
