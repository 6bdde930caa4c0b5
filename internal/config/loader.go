package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/mavinspect/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".mavinspect.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/mavinspect"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix namespaces environment overrides, e.g. MAVINSPECT_MASTER.
	EnvPrefix = "MAVINSPECT"
)

// NewViper returns a viper instance with every default registered and
// environment overrides enabled. Callers may bind flags on it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults mirrors DefaultConfig so viper knows every key. Keys viper
// doesn't know are invisible to AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("master", d.Master)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("details", d.Details)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("handshake_timeout", d.HandshakeTimeout)
	v.SetDefault("shutdown_grace", d.ShutdownGrace)
	v.SetDefault("ingest.poll_timeout", d.Ingest.PollTimeout)
	v.SetDefault("stats.window", d.Stats.Window)
	v.SetDefault("stats.sweep_interval", d.Stats.SweepInterval)
	v.SetDefault("view.projection_interval", d.View.ProjectionInterval)
	v.SetDefault("view.status_log_size", d.View.StatusLogSize)
	v.SetDefault("view.show_status", d.View.ShowStatus)
	v.SetDefault("view.warmup", d.View.Warmup)
}

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	return LoadWith(NewViper(), path)
}

// LoadWith reads path into v (skipped when path is empty) and decodes the
// merged result of defaults, file, environment and any bound flags.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Create "+ConfigFileName+", or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .mavinspect.yaml in current directory
// 3. ~/.config/mavinspect/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Current directory
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	// 3. Global config
	if home, _ := os.UserHomeDir(); home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults
// (with environment overrides applied) if none is found.
func LoadOrDefault() (*Config, error) {
	path, err := Find("")
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	// viper's default decode hooks turn "5s" style strings into durations.
	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	cfg.LogFile = ExpandTilde(cfg.LogFile)
	return cfg, nil
}
