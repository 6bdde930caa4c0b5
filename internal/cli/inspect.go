package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/mavinspect/internal/config"
	"github.com/rileyhilliard/mavinspect/internal/errors"
	"github.com/rileyhilliard/mavinspect/internal/logger"
	"github.com/rileyhilliard/mavinspect/internal/monitor"
	"github.com/rileyhilliard/mavinspect/internal/ui"
)

// runInspect is the root command: connect, then hand the terminal to the
// inspector until the user quits or a signal arrives.
func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	console := logger.New(logger.Options{Output: cmd.ErrOrStderr(), Debug: cfg.Debug, Color: true})
	defer func() { _ = console.Sync() }()
	log := logger.NewSwitch(console)
	logger.SetDefault(log)
	if path != "" {
		log.Debug("config: %s", path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := StartSession(ctx, cfg, SessionOptions{Logger: log, Progress: startupProgress(cmd)})
	if err != nil {
		return err
	}

	fileLog, closeLog, err := openLogFile(cfg)
	if err != nil {
		_ = sess.Stop()
		return err
	}
	defer closeLog()

	var uiErr error
	if err := warmup(ctx, cfg.View.Warmup); err == nil {
		log.Set(fileLog)
		uiErr = runUI(ctx, sess, cfg)
		log.Set(console)
	}

	if err := sess.Stop(); err != nil {
		log.Warn("shutdown: %v", err)
	}
	if err := sess.Err(); err != nil {
		log.Warn("telemetry link lost: %v", err)
	}
	return uiErr
}

// startupProgress shows startup steps on stderr when it is a terminal.
func startupProgress(cmd *cobra.Command) Progress {
	f, ok := cmd.ErrOrStderr().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return ui.NewPhases(f)
}

// openLogFile returns the logger used while the UI owns the terminal. With
// no log file configured, output is discarded.
func openLogFile(cfg *config.Config) (logger.Logger, func(), error) {
	if cfg.LogFile == "" {
		return logger.Noop(), func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file "+cfg.LogFile,
			"Check the directory exists and is writable, or drop --log-file")
	}
	l := logger.New(logger.Options{Output: f, Debug: cfg.Debug, JSON: true})
	return l, func() {
		_ = l.Sync()
		_ = f.Close()
	}, nil
}

// warmup waits d before the UI starts so the first frame has data in it.
func warmup(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runUI runs the inspector in the alternate screen until the user quits or
// ctx is cancelled. bubbletea restores the terminal on every exit path.
func runUI(ctx context.Context, src monitor.Source, cfg *config.Config) error {
	model := monitor.NewModel(src, monitor.Options{
		Interval:   cfg.View.ProjectionInterval,
		ShowStatus: cfg.View.ShowStatus,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Terminal UI failed",
			"Run mavinspect from an interactive terminal")
	}
	return nil
}
