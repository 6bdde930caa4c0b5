package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// DefaultMaster is the connection target used when none is configured.
const DefaultMaster = "tcp:127.0.0.1:5760"

// Config represents the complete .mavinspect.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Master is the bus connection target, "scheme:host:port".
	Master string `yaml:"master" mapstructure:"master"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug" mapstructure:"debug"`

	// Details stores each message as a formatted dump instead of fields.
	Details bool `yaml:"details" mapstructure:"details"`

	// LogFile receives log output while the UI owns the terminal. Empty
	// discards it.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`

	// MetricsAddr serves prometheus metrics when set, e.g. ":9108".
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`

	// HandshakeTimeout bounds the wait for the first heartbeat.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout" mapstructure:"handshake_timeout"`

	// ShutdownGrace bounds how long background tasks get to stop.
	ShutdownGrace time.Duration `yaml:"shutdown_grace" mapstructure:"shutdown_grace"`

	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
	Stats  StatsConfig  `yaml:"stats" mapstructure:"stats"`
	View   ViewConfig   `yaml:"view" mapstructure:"view"`
}

// IngestConfig controls the bus polling loop.
type IngestConfig struct {
	// PollTimeout bounds each wait for a message.
	PollTimeout time.Duration `yaml:"poll_timeout" mapstructure:"poll_timeout"`
}

// StatsConfig controls frequency estimation.
type StatsConfig struct {
	// Window is the trailing window arrivals are counted over.
	Window time.Duration `yaml:"window" mapstructure:"window"`

	// SweepInterval is how often idle rates are recomputed.
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
}

// ViewConfig controls the terminal view.
type ViewConfig struct {
	// ProjectionInterval is how often the tree is rebuilt from the store.
	ProjectionInterval time.Duration `yaml:"projection_interval" mapstructure:"projection_interval"`

	// StatusLogSize bounds the retained status messages.
	StatusLogSize int `yaml:"status_log_size" mapstructure:"status_log_size"`

	// ShowStatus sets whether the status panel starts visible.
	ShowStatus bool `yaml:"show_status" mapstructure:"show_status"`

	// Warmup delays the UI so the first frame has data in it.
	Warmup time.Duration `yaml:"warmup" mapstructure:"warmup"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:          CurrentConfigVersion,
		Master:           DefaultMaster,
		HandshakeTimeout: 30 * time.Second,
		ShutdownGrace:    2 * time.Second,
		Ingest: IngestConfig{
			PollTimeout: time.Second,
		},
		Stats: StatsConfig{
			Window:        2 * time.Second,
			SweepInterval: 500 * time.Millisecond,
		},
		View: ViewConfig{
			ProjectionInterval: 500 * time.Millisecond,
			StatusLogSize:      100,
			ShowStatus:         true,
		},
	}
}
