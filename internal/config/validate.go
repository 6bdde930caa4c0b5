package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/mavinspect/internal/errors"
)

// Schemes accepted in a connection target.
var validSchemes = []string{"tcp", "udp", "udpin"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but mavinspect only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade mavinspect or lower the version in your config")
	}

	if err := ValidateMaster(cfg.Master); err != nil {
		return err
	}

	durations := []struct {
		key string
		val time.Duration
	}{
		{"handshake_timeout", cfg.HandshakeTimeout},
		{"shutdown_grace", cfg.ShutdownGrace},
		{"ingest.poll_timeout", cfg.Ingest.PollTimeout},
		{"stats.window", cfg.Stats.Window},
		{"stats.sweep_interval", cfg.Stats.SweepInterval},
		{"view.projection_interval", cfg.View.ProjectionInterval},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' must be positive, got %s", d.key, d.val),
				"Use a Go duration like '500ms' or '2s'")
		}
	}

	if cfg.View.Warmup < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'view.warmup' can't be negative, got %s", cfg.View.Warmup),
			"Use 0 to start the UI immediately")
	}

	if cfg.View.StatusLogSize <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'view.status_log_size' must be at least 1, got %d", cfg.View.StatusLogSize),
			"The default keeps the last 100 status messages")
	}

	return nil
}

// ValidateMaster checks a connection target of the form scheme:host:port.
func ValidateMaster(master string) error {
	scheme, addr, ok := strings.Cut(master, ":")
	if !ok || addr == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid connection target %q", master),
			"Use scheme:host:port, e.g. "+DefaultMaster)
	}
	for _, s := range validSchemes {
		if strings.EqualFold(scheme, s) {
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unsupported connection scheme %q", scheme),
		"Valid schemes: "+strings.Join(validSchemes, ", "))
}
