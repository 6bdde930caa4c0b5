// Package engine owns the background work of an inspection session: the
// ingest loop and the frequency sweeper.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/mavinspect/internal/bus"
	"github.com/rileyhilliard/mavinspect/internal/logger"
)

// DefaultShutdownGrace bounds how long Stop waits for background tasks.
const DefaultShutdownGrace = 2 * time.Second

// ErrShutdownTimeout is returned by Stop when tasks outlive the grace period.
var ErrShutdownTimeout = errors.New("background tasks did not stop in time")

// Task is a cancellable background loop.
type Task interface {
	Run(ctx context.Context) error
}

// Options configures an Engine.
type Options struct {
	// Grace bounds Stop. Zero uses DefaultShutdownGrace.
	Grace  time.Duration
	Logger logger.Logger
}

// Engine runs tasks against a bus and shuts them down in a bounded,
// idempotent way.
type Engine struct {
	bus   bus.Bus
	tasks map[string]Task
	names []string
	grace time.Duration
	log   logger.Logger

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
	runErr    error

	stopOnce sync.Once
	stopErr  error
}

// New creates an engine. Tasks are started in the order they are added.
func New(b bus.Bus, opts Options) *Engine {
	if opts.Grace <= 0 {
		opts.Grace = DefaultShutdownGrace
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	return &Engine{
		bus:   b,
		tasks: make(map[string]Task),
		grace: opts.Grace,
		log:   opts.Logger,
		done:  make(chan struct{}),
	}
}

// Add registers a named task. It must be called before Start.
func (e *Engine) Add(name string, t Task) *Engine {
	if _, ok := e.tasks[name]; !ok {
		e.names = append(e.names, name)
	}
	e.tasks[name] = t
	return e
}

// Start launches every task. Calls after the first are ignored.
func (e *Engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		ctx, e.cancel = context.WithCancel(ctx)
		group, gctx := errgroup.WithContext(ctx)
		for _, name := range e.names {
			name, task := name, e.tasks[name]
			group.Go(func() error {
				e.log.Debug("[engine] starting %s", name)
				if err := task.Run(gctx); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				e.log.Debug("[engine] %s finished", name)
				return nil
			})
		}
		go func() {
			e.runErr = group.Wait()
			close(e.done)
		}()
	})
}

// Done is closed once every task has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Stop cancels the tasks, waits up to the grace period for them to return,
// then closes the bus. Every call returns the result of the first.
func (e *Engine) Stop() error {
	e.stopOnce.Do(func() {
		e.stopErr = e.stop()
	})
	return e.stopErr
}

func (e *Engine) stop() error {
	var errs []error

	started := false
	e.startOnce.Do(func() {
		// Never started: mark started so a later Start is a no-op.
		close(e.done)
	})
	if e.cancel != nil {
		started = true
		e.cancel()
	}

	if started {
		timer := time.NewTimer(e.grace)
		defer timer.Stop()
		select {
		case <-e.done:
			if e.runErr != nil {
				errs = append(errs, e.runErr)
			}
		case <-timer.C:
			e.log.Warn("[engine] tasks still running after %s", e.grace)
			errs = append(errs, ErrShutdownTimeout)
		}
	}

	if err := e.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing bus: %w", err))
	}
	e.log.Debug("[engine] stopped")
	return errors.Join(errs...)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context) error

// Run implements Task.
func (f TaskFunc) Run(ctx context.Context) error {
	return f(ctx)
}
