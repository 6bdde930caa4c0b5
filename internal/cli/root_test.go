package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/mavinspect/internal/errors"
)

// isolate runs the test from an empty directory with an empty home, so no
// config file is found.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unknown command error",
			err:  stderrors.New(`unknown command "foo" for "mavinspect"`),
			want: true,
		},
		{
			name: "unknown flag error",
			err:  stderrors.New(`unknown flag: --foo`),
			want: true,
		},
		{
			name: "other error",
			err:  stderrors.New("connection failed"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "standard cobra format",
			err:  stderrors.New(`unknown command "foo" for "mavinspect"`),
			want: "foo",
		},
		{
			name: "command with hyphen",
			err:  stderrors.New(`unknown command "list-params" for "mavinspect"`),
			want: "list-params",
		},
		{
			name: "no quotes returns empty",
			err:  stderrors.New("unknown command foo"),
			want: "",
		},
		{
			name: "single quote returns empty",
			err:  stderrors.New(`unknown command "foo`),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	pf := cmd.PersistentFlags()

	tests := []struct {
		name string
		def  string
	}{
		{"config", ""},
		{"master", "tcp:127.0.0.1:5760"},
		{"debug", "false"},
		{"details", "false"},
		{"log-file", ""},
		{"metrics-addr", ""},
		{"handshake-timeout", "30s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := pf.Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}

	for key, name := range flagKeys {
		assert.NotNil(t, pf.Lookup(name), "config key %s has a flag", key)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"version", "config", "completion"})
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	isolate(t)

	_, err := execute(t, "inspect-everything")
	require.Error(t, err)
	assert.True(t, isUnknownCommandError(err))
	assert.Equal(t, "inspect-everything", extractUnknownCommand(err))
}

func TestRootCmd_InvalidMaster(t *testing.T) {
	isolate(t)

	_, err := execute(t, "--master", "serial:/dev/ttyACM0")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestRootCmd_UnreachableMaster(t *testing.T) {
	isolate(t)

	// Nothing listens on the discard port.
	_, err := execute(t, "--master", "tcp:127.0.0.1:9", "--handshake-timeout", "200ms")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBus) || errors.IsCode(err, errors.ErrHandshake))
}

func TestConfigCmd_Defaults(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: defaults")
	assert.Contains(t, out, "tcp:127.0.0.1:5760")
	assert.Contains(t, out, "handshake_timeout: 30s")
	assert.Contains(t, out, "status_log_size: 100")
}

func TestConfigCmd_FlagsOverride(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "--master", "udp:0.0.0.0:14550", "--handshake-timeout", "5s", "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "udp:0.0.0.0:14550")
	assert.Contains(t, out, "handshake_timeout: 5s")
	assert.Contains(t, out, "details: true")
}

func TestConfigCmd_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "inspect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("master: tcp:10.0.0.1:5760\nstats:\n  window: 4s\n"), 0644))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+path)
	assert.Contains(t, out, "tcp:10.0.0.1:5760")
	assert.Contains(t, out, "window: 4s")

	// A flag set on the command line beats the file.
	out, err = execute(t, "config", "--config", path, "--master", "udpin:0.0.0.0:14551")
	require.NoError(t, err)
	assert.Contains(t, out, "udpin:0.0.0.0:14551")
	assert.NotContains(t, out, "tcp:10.0.0.1:5760")
}

func TestConfigCmd_LocalFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mavinspect.yaml"), []byte("details: true\n"), 0644))

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, ".mavinspect.yaml")
	assert.Contains(t, out, "details: true")
}

func TestConfigCmd_Env(t *testing.T) {
	isolate(t)
	t.Setenv("MAVINSPECT_VIEW_SHOW_STATUS", "false")

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "show_status: false")
}

func TestConfigCmd_MissingFile(t *testing.T) {
	isolate(t)

	_, err := execute(t, "config", "--config", "/nonexistent/mavinspect.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
