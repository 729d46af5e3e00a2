// Package config handles loading, defaulting, and validation of the slidecast
// TOML configuration file. Every section maps to a typed struct so the rest
// of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Data     DataConfig     `toml:"data"     json:"data"`
	Logging  LoggingConfig  `toml:"logging"  json:"logging"`
	Server   ServerConfig   `toml:"server"   json:"server"`
	Demo     DemoConfig     `toml:"demo"     json:"demo"`
	Recorder RecorderConfig `toml:"recorder" json:"recorder"`
	Features FeatureConfig  `toml:"features" json:"features"`
	Monitor  MonitorConfig  `toml:"monitor"  json:"monitor"`
}

type DataConfig struct {
	Root     string `toml:"root"     json:"root"`
	Database string `toml:"database" json:"database"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

// DemoConfig controls the built-in simulated presentation, used to exercise
// the full telemetry pipeline without a real viewer attached.
type DemoConfig struct {
	Enabled         bool `toml:"enabled"          json:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds" json:"interval_seconds"`
	SlideCount      int  `toml:"slide_count"      json:"slide_count"`
}

// RecorderConfig tunes the session event recorder's flush behavior.
type RecorderConfig struct {
	BatchSize            int `toml:"batch_size"             json:"batch_size"`
	FlushIntervalSeconds int `toml:"flush_interval_seconds" json:"flush_interval_seconds"`
	MaxRetries           int `toml:"max_retries"            json:"max_retries"`
	BackoffSeconds       int `toml:"backoff_seconds"        json:"backoff_seconds"`
}

// FeatureConfig holds feature flags. These gate optional telemetry surfaces,
// never the presentation itself.
type FeatureConfig struct {
	PerformanceMonitoring bool `toml:"performance_monitoring" json:"performance_monitoring"`
	SessionRecording      bool `toml:"session_recording"      json:"session_recording"`
}

// MonitorConfig holds alerting thresholds for the metric sink endpoint.
type MonitorConfig struct {
	SlowPageLoadMS int `toml:"slow_page_load_ms" json:"slow_page_load_ms"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Data: DataConfig{
			Root:     "/var/lib/slidecast",
			Database: "slidecast.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Demo: DemoConfig{
			Enabled:         false,
			IntervalSeconds: 2,
			SlideCount:      12,
		},
		Recorder: RecorderConfig{
			BatchSize:            50,
			FlushIntervalSeconds: 10,
			MaxRetries:           3,
			BackoffSeconds:       1,
		},
		Features: FeatureConfig{
			PerformanceMonitoring: true,
			SessionRecording:      true,
		},
		Monitor: MonitorConfig{
			SlowPageLoadMS: 3000,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Data.Root == "" {
		return errors.New("data.root must not be empty")
	}
	if cfg.Data.Database == "" {
		return errors.New("data.database must not be empty")
	}
	if cfg.Demo.IntervalSeconds < 0 {
		return errors.New("demo.interval_seconds must be >= 0")
	}
	if cfg.Demo.SlideCount < 1 {
		return errors.New("demo.slide_count must be >= 1")
	}
	if cfg.Recorder.BatchSize < 1 {
		return errors.New("recorder.batch_size must be >= 1")
	}
	if cfg.Recorder.FlushIntervalSeconds < 1 {
		return errors.New("recorder.flush_interval_seconds must be >= 1")
	}
	if cfg.Recorder.MaxRetries < 0 {
		return errors.New("recorder.max_retries must be >= 0")
	}
	if cfg.Recorder.BackoffSeconds < 0 {
		return errors.New("recorder.backoff_seconds must be >= 0")
	}
	if cfg.Monitor.SlowPageLoadMS < 0 {
		return errors.New("monitor.slow_page_load_ms must be >= 0")
	}
	return nil
}
