// Package config loads the YAML configuration shared by both rangesdr
// binaries, with environment-variable overrides for the deployment-time
// surface (spec SPEC_FULL.md §3 addendum).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Jammer  JammerConfig  `yaml:"jammer"`
	Dongle  DongleConfig  `yaml:"dongle"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig configures the IQ playback engine.
type SourceConfig struct {
	FilePath   string `yaml:"file_path"`
	SampleRate uint   `yaml:"sample_rate"`
	ChunkSize  int    `yaml:"chunk_size"`
}

// JammerConfig configures the jammer's initial state.
type JammerConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
}

// DongleConfig configures the dongle-emulation TCP listener.
type DongleConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	CenterFreqHz  uint64 `yaml:"center_freq_hz"`
	TunedSampleHz uint   `yaml:"tuned_sample_hz"`
}

// MQTTConfig configures the ControlPlane's broker connection.
type MQTTConfig struct {
	BrokerHost string `yaml:"broker_host"`
	BrokerPort int    `yaml:"broker_port"`
	ClientID   string `yaml:"client_id"`
	Prefix     string `yaml:"prefix"`
}

// ServerConfig configures the observer HTTP/websocket listener.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads filename as YAML, applies defaults for unset fields, then
// applies the documented environment-variable overrides.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", filename, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Source.SampleRate == 0 {
		cfg.Source.SampleRate = 2_000_000
	}
	if cfg.Source.ChunkSize == 0 {
		cfg.Source.ChunkSize = 8192
	}
	if cfg.Jammer.Kind == "" {
		cfg.Jammer.Kind = "barrage"
	}
	if cfg.Dongle.ListenAddr == "" {
		cfg.Dongle.ListenAddr = ":1234"
	}
	if cfg.Dongle.TunedSampleHz == 0 {
		cfg.Dongle.TunedSampleHz = cfg.Source.SampleRate
	}
	if cfg.MQTT.BrokerHost == "" {
		cfg.MQTT.BrokerHost = "localhost"
	}
	if cfg.MQTT.BrokerPort == 0 {
		cfg.MQTT.BrokerPort = 1883
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "rangesdr-feed"
	}
	if cfg.MQTT.Prefix == "" {
		cfg.MQTT.Prefix = "rangesdr/feed"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides applies the documented environment-variable surface:
// IQ_FILE_PATH, SAMPLE_RATE, and the MQTT broker host/port.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IQ_FILE_PATH"); v != "" {
		cfg.Source.FilePath = v
	}
	if v := os.Getenv("SAMPLE_RATE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Source.SampleRate = uint(n)
		}
	}
	if v := os.Getenv("MQTT_BROKER_HOST"); v != "" {
		cfg.MQTT.BrokerHost = v
	}
	if v := os.Getenv("MQTT_BROKER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.BrokerPort = n
		}
	}
}
