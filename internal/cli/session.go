package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rileyhilliard/mavinspect/internal/bus"
	"github.com/rileyhilliard/mavinspect/internal/config"
	"github.com/rileyhilliard/mavinspect/internal/engine"
	"github.com/rileyhilliard/mavinspect/internal/errors"
	"github.com/rileyhilliard/mavinspect/internal/ingest"
	"github.com/rileyhilliard/mavinspect/internal/logger"
	"github.com/rileyhilliard/mavinspect/internal/stats"
	"github.com/rileyhilliard/mavinspect/internal/store"
)

// metricsShutdown bounds how long Stop waits for in-flight scrapes.
const metricsShutdown = time.Second

// Dialer opens a bus for a connection target.
type Dialer func(ctx context.Context, target string) (bus.Bus, error)

// Progress reports startup steps. ui.Phases implements it.
type Progress interface {
	Start(name string)
	Done(name string, err error)
}

type noProgress struct{}

func (noProgress) Start(string)       {}
func (noProgress) Done(string, error) {}

// SessionOptions configures StartSession.
type SessionOptions struct {
	// Dial opens the bus. Nil uses bus.Dial.
	Dial Dialer
	// Logger receives background output. Nil uses logger.Default.
	Logger logger.Logger
	// Registry collects ingest metrics. Nil uses a fresh registry.
	Registry *prometheus.Registry
	// Progress is told about each startup step. Nil reports nothing.
	Progress Progress
}

// Session is one live connection: the bus, the store it feeds and the
// background tasks that keep the store current.
type Session struct {
	store    *store.Store
	ingestor *ingest.Ingestor
	engine   *engine.Engine
	log      logger.Logger

	metrics   *http.Server
	metricsLn net.Listener

	stopOnce sync.Once
	stopErr  error
}

// StartSession connects to cfg.Master, waits for the first heartbeat and
// starts ingestion and frequency sweeping. The heartbeat itself is stored
// so the first projection already shows its sender.
func StartSession(ctx context.Context, cfg *config.Config, opts SessionOptions) (*Session, error) {
	if opts.Dial == nil {
		opts.Dial = bus.Dial
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Progress == nil {
		opts.Progress = noProgress{}
	}
	log := opts.Logger
	progress := opts.Progress

	connecting := "Connecting to " + cfg.Master
	progress.Start(connecting)
	b, err := opts.Dial(ctx, cfg.Master)
	progress.Done(connecting, err)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrBus,
			"Cannot open connection "+cfg.Master,
			"Check the address and that the telemetry source is running")
	}

	log.Debug("waiting for heartbeat on %s", cfg.Master)
	const waiting = "Waiting for heartbeat"
	progress.Start(waiting)
	hb, err := bus.WaitHeartbeat(ctx, b, cfg.HandshakeTimeout)
	progress.Done(waiting, err)
	if err != nil {
		_ = b.Close()
		return nil, errors.WrapWithCode(err, errors.ErrHandshake,
			"No telemetry from "+cfg.Master,
			"Check the link or raise --handshake-timeout")
	}
	log.Debug("heartbeat from system %d component %d", hb.SystemID, hb.ComponentID)

	st := store.New(store.Options{
		StatusLogSize: cfg.View.StatusLogSize,
		Window:        cfg.Stats.Window,
	})
	ing := ingest.New(b, st, ingest.Options{
		PollTimeout: cfg.Ingest.PollTimeout,
		Verbose:     cfg.Details,
		Logger:      logger.WithPrefix(log, "[ingest]"),
		Metrics:     ingest.NewMetrics(opts.Registry),
	})
	ing.Handle(hb)

	sweeper := stats.NewSweeper(st, nil, cfg.Stats.SweepInterval)
	sweeper.SetLogger(logger.WithPrefix(log, "[stats]"))

	s := &Session{
		store:    st,
		ingestor: ing,
		engine: engine.New(b, engine.Options{Grace: cfg.ShutdownGrace, Logger: log}).
			Add("ingest", ing).
			Add("sweep", sweeper),
		log: log,
	}

	if cfg.MetricsAddr != "" {
		if err := s.serveMetrics(cfg.MetricsAddr, opts.Registry); err != nil {
			_ = b.Close()
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot serve metrics on "+cfg.MetricsAddr,
				"Pick a free host:port for --metrics-addr")
		}
		log.Info("metrics on http://%s/metrics", s.MetricsAddr())
	}

	s.engine.Start(ctx)
	return s, nil
}

// Snapshot implements monitor.Source.
func (s *Session) Snapshot(now time.Time) *store.Snapshot {
	return s.store.Snapshot(now)
}

// Store returns the session's store.
func (s *Session) Store() *store.Store { return s.store }

// Err returns the error that ended ingestion, if the connection was lost.
func (s *Session) Err() error { return s.ingestor.Err() }

// Done is closed once every background task has returned.
func (s *Session) Done() <-chan struct{} { return s.engine.Done() }

// MetricsAddr returns the address the metrics server listens on, or "".
func (s *Session) MetricsAddr() string {
	if s.metricsLn == nil {
		return ""
	}
	return s.metricsLn.Addr().String()
}

// Stop shuts down the metrics server and the engine. Later calls return
// the first call's result.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() { s.stopErr = s.stop() })
	return s.stopErr
}

func (s *Session) stop() error {
	var errs []error
	if s.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdown)
		defer cancel()
		if err := s.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}
	if err := s.engine.Stop(); err != nil {
		errs = append(errs, err)
	}
	return stderrors.Join(errs...)
}

func (s *Session) serveMetrics(addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.metricsLn = ln

	go func() {
		if err := s.metrics.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server: %v", err)
		}
	}()
	return nil
}
