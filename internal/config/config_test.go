package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/mavinspect/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "tcp:127.0.0.1:5760", cfg.Master)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Details)
	assert.Empty(t, cfg.LogFile)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, 30*time.Second, cfg.HandshakeTimeout)
	assert.Equal(t, 2*time.Second, cfg.ShutdownGrace)
	assert.Equal(t, time.Second, cfg.Ingest.PollTimeout)
	assert.Equal(t, 2*time.Second, cfg.Stats.Window)
	assert.Equal(t, 500*time.Millisecond, cfg.Stats.SweepInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.View.ProjectionInterval)
	assert.Equal(t, 100, cfg.View.StatusLogSize)
	assert.True(t, cfg.View.ShowStatus)
	assert.Zero(t, cfg.View.Warmup)

	assert.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	// Create a temp config file
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".mavinspect.yaml")

	content := `
version: 1
master: udp:0.0.0.0:14550
details: true
handshake_timeout: 5s
ingest:
  poll_timeout: 250ms
stats:
  window: 4s
view:
  status_log_size: 50
  show_status: false
  warmup: 1s
`
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "udp:0.0.0.0:14550", cfg.Master)
	assert.True(t, cfg.Details)
	assert.Equal(t, 5*time.Second, cfg.HandshakeTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Ingest.PollTimeout)
	assert.Equal(t, 4*time.Second, cfg.Stats.Window)
	assert.Equal(t, 50, cfg.View.StatusLogSize)
	assert.False(t, cfg.View.ShowStatus)
	assert.Equal(t, time.Second, cfg.View.Warmup)

	// Untouched keys keep their defaults.
	assert.Equal(t, 500*time.Millisecond, cfg.Stats.SweepInterval)
	assert.Equal(t, 2*time.Second, cfg.ShutdownGrace)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/.mavinspect.yaml")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("master: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("handshake_timeout: soon\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid config format")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAVINSPECT_MASTER", "udpin:0.0.0.0:14551")
	t.Setenv("MAVINSPECT_STATS_WINDOW", "3s")
	t.Setenv("MAVINSPECT_VIEW_SHOW_STATUS", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "udpin:0.0.0.0:14551", cfg.Master)
	assert.Equal(t, 3*time.Second, cfg.Stats.Window)
	assert.False(t, cfg.View.ShowStatus)
}

func TestLoadWith_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("master: tcp:10.0.0.1:5760\ndebug: false\n"), 0644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("master", DefaultMaster, "")
	fs.Bool("debug", false, "")
	require.NoError(t, fs.Parse([]string{"--debug"}))

	v := NewViper()
	require.NoError(t, v.BindPFlag("master", fs.Lookup("master")))
	require.NoError(t, v.BindPFlag("debug", fs.Lookup("debug")))

	cfg, err := LoadWith(v, path)
	require.NoError(t, err)

	assert.Equal(t, "tcp:10.0.0.1:5760", cfg.Master, "unset flag does not mask the file")
	assert.True(t, cfg.Debug, "set flag wins over the file")
}

func TestLoad_ExpandsLogFile(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("MAVINSPECT_LOG_FILE", "~/mavinspect.log")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "mavinspect.log"), cfg.LogFile)
}

func TestFind(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) (string, func())
		explicit string
		wantErr  bool
		wantPath string
	}{
		{
			name: "explicit path exists",
			setup: func(t *testing.T) (string, func()) {
				dir := t.TempDir()
				path := filepath.Join(dir, "custom.yaml")
				err := os.WriteFile(path, []byte("version: 1"), 0644)
				require.NoError(t, err)
				return path, func() {}
			},
			wantErr: false,
		},
		{
			name: "explicit path not found",
			setup: func(t *testing.T) (string, func()) {
				return "/nonexistent/config.yaml", func() {}
			},
			wantErr: true,
		},
		{
			name: "current directory has config",
			setup: func(t *testing.T) (string, func()) {
				dir := t.TempDir()
				path := filepath.Join(dir, ConfigFileName)
				err := os.WriteFile(path, []byte("version: 1"), 0644)
				require.NoError(t, err)

				oldWd, _ := os.Getwd()
				err = os.Chdir(dir)
				require.NoError(t, err)

				return "", func() { os.Chdir(oldWd) }
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explicit, cleanup := tt.setup(t)
			defer cleanup()

			path, err := Find(explicit)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if explicit != "" {
					assert.Equal(t, explicit, path)
				} else {
					assert.NotEmpty(t, path)
				}
			}
		})
	}
}

func TestFind_GlobalConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0755))
	require.NoError(t, os.WriteFile(global, []byte("version: 1"), 0644))

	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(oldWd)

	path, err := Find("")
	require.NoError(t, err)
	assert.Equal(t, global, path)
}

func TestLoadOrDefault(t *testing.T) {
	// Change to a directory without config
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	oldWd, _ := os.Getwd()
	err := os.Chdir(dir)
	require.NoError(t, err)
	defer os.Chdir(oldWd)

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, DefaultMaster, cfg.Master)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Master = "udp:0.0.0.0:14550"
	cfg.Stats.Window = 1500 * time.Millisecond
	cfg.View.ShowStatus = false

	out, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "window: 1.5s")

	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, out, 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
