package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/transport"
)

var ErrAlreadyStarted = errors.New("application already started")

// Application manages the lifecycle of servers and close functions.
// Construction order is wiring order; close functions run in reverse
// registration order during shutdown.
type Application struct {
	ctx             context.Context
	cancel          context.CancelFunc
	shutdownTimeout time.Duration
	signals         []os.Signal
	servers         []transport.Server
	closeFuncs      []CloseFunc
	started         bool
}

// CloseFunc is a named shutdown step with its own timeout.
type CloseFunc struct {
	Name    string
	Fn      func(context.Context) error
	Timeout time.Duration
}

type Option func(*Application)

// WithShutdownTimeout sets the server shutdown timeout.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.shutdownTimeout = timeout
		}
	}
}

// WithServer adds a server to the application.
func WithServer(server transport.Server) Option {
	return func(app *Application) {
		if server != nil {
			app.servers = append(app.servers, server)
		}
	}
}

// WithClose adds a close function executed during shutdown.
func WithClose(name string, fn func(context.Context) error, timeout time.Duration) Option {
	return func(app *Application) {
		if fn == nil {
			log.Warn().Str("name", name).Msg("nil close function ignored")
			return
		}

		if timeout == 0 {
			timeout = app.shutdownTimeout
		}

		app.closeFuncs = append(app.closeFuncs, CloseFunc{
			Name:    name,
			Fn:      fn,
			Timeout: timeout,
		})
	}
}

// New creates an application with the given options.
func New(options ...Option) *Application {
	app := &Application{
		shutdownTimeout: 30 * time.Second,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT},
	}

	app.ctx, app.cancel = context.WithCancel(context.Background())

	for _, opt := range options {
		opt(app)
	}

	return app
}

// Start runs all servers and blocks until a shutdown signal arrives or a
// server fails. Close functions run after the servers have stopped.
func (app *Application) Start() error {
	if app.started {
		return ErrAlreadyStarted
	}
	app.started = true

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, app.signals...)
	defer signal.Stop(sigCh)

	eg, egCtx := errgroup.WithContext(app.ctx)

	for _, server := range app.servers {
		eg.Go(func() error {
			if err := server.Run(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})

		eg.Go(func() error {
			<-egCtx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	eg.Go(func() error {
		select {
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
			app.cancel()
			return nil
		case <-egCtx.Done():
			if egCtx.Err() == context.Canceled {
				return nil
			}
			return egCtx.Err()
		}
	})

	err := eg.Wait()
	if err != nil && err != context.Canceled {
		app.runCloseTasks()
		return err
	}

	app.runCloseTasks()
	return nil
}

// Stop gracefully stops the application.
func (app *Application) Stop() {
	app.cancel()
}

// runCloseTasks executes close functions in reverse registration order, so
// dependents close before their dependencies.
func (app *Application) runCloseTasks() {
	for i := len(app.closeFuncs) - 1; i >= 0; i-- {
		cf := app.closeFuncs[i]

		ctx, cancel := context.WithTimeout(context.Background(), cf.Timeout)
		if err := cf.Fn(ctx); err != nil {
			log.Error().Err(err).Str("name", cf.Name).Msg("close function failed")
		}
		cancel()
	}
}
