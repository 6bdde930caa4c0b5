package config

import (
	"gopkg.in/yaml.v3"
)

// Marshal renders cfg as YAML in the same shape Load reads. Durations are
// written as strings so the output round-trips.
func Marshal(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"version":           cfg.Version,
		"master":            cfg.Master,
		"debug":             cfg.Debug,
		"details":           cfg.Details,
		"log_file":          cfg.LogFile,
		"metrics_addr":      cfg.MetricsAddr,
		"handshake_timeout": cfg.HandshakeTimeout.String(),
		"shutdown_grace":    cfg.ShutdownGrace.String(),
		"ingest": map[string]any{
			"poll_timeout": cfg.Ingest.PollTimeout.String(),
		},
		"stats": map[string]any{
			"window":         cfg.Stats.Window.String(),
			"sweep_interval": cfg.Stats.SweepInterval.String(),
		},
		"view": map[string]any{
			"projection_interval": cfg.View.ProjectionInterval.String(),
			"status_log_size":     cfg.View.StatusLogSize,
			"show_status":         cfg.View.ShowStatus,
			"warmup":              cfg.View.Warmup.String(),
		},
	}
	return yaml.Marshal(doc)
}
