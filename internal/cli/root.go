package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/mavinspect/internal/config"
	"github.com/rileyhilliard/mavinspect/internal/errors"
)

// flagKeys maps config keys to the root flags that override them.
var flagKeys = map[string]string{
	"master":            "master",
	"debug":             "debug",
	"details":           "details",
	"log_file":          "log-file",
	"metrics_addr":      "metrics-addr",
	"handshake_timeout": "handshake-timeout",
}

// rootCmd is the command Execute runs.
var rootCmd = newRootCmd()

// newRootCmd builds the full command tree.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mavinspect",
		Short: "Live tree view of MAVLink telemetry",
		Long: `mavinspect connects to a telemetry endpoint, waits for the first heartbeat,
then shows every system and component it hears as a navigable tree with the
latest value of each message, arrival rates, parameters and status text.

Connection targets:
  tcp:host:port     connect to a bridge over TCP
  udp:host:port     listen for datagrams
  udpin:host:port   same as udp

Examples:
  mavinspect
  mavinspect --master udp:0.0.0.0:14550
  mavinspect --details --log-file ~/mavinspect.log`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInspect,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./.mavinspect.yaml, then ~/.config/mavinspect/config.yaml)")
	pf.String("master", config.DefaultMaster, "connection target (tcp:host:port, udp:host:port, udpin:host:port)")
	pf.Bool("debug", false, "enable debug logging")
	pf.Bool("details", false, "store each message as a formatted multi-line dump")
	pf.String("log-file", "", "write logs here while the UI is running")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this host:port")
	pf.Duration("handshake-timeout", 30*time.Second, "how long to wait for the first heartbeat")

	cmd.AddCommand(newVersionCmd(), newConfigCmd(), newCompletionCmd(cmd))
	return cmd
}

// loadConfig resolves the config for cmd: defaults, then the config file,
// then MAVINSPECT_* environment variables, then flags set on the command
// line. It returns the file path used, or "" when none was found.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	v := config.NewViper()
	for key, name := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot bind flag --"+name, "")
		}
	}

	explicit, _ := cmd.Flags().GetString("config")
	path, err := config.Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadWith(v, path)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if code, ok := errors.GetExitCode(err); ok {
		os.Exit(code)
	}
	if isUnknownCommandError(err) {
		msg := err.Error()
		if name := extractUnknownCommand(err); name != "" {
			msg = fmt.Sprintf("Unknown command %q", name)
		}
		err = errors.New(errors.ErrConfig, msg,
			"Run 'mavinspect --help' to see available commands and flags.")
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted name out of cobra's
// `unknown command "foo" for "mavinspect"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
