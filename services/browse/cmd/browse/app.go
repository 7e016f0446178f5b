package main

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/anime-browser/internal/platform/analytics"
	"github.com/example/anime-browser/internal/platform/config"
	"github.com/example/anime-browser/internal/platform/grpcserver"
	"github.com/example/anime-browser/internal/platform/httpserver"
	"github.com/example/anime-browser/internal/platform/logging"
	"github.com/example/anime-browser/internal/platform/run"
	"github.com/example/anime-browser/services/browse/internal/domain"
	"github.com/example/anime-browser/services/browse/internal/handlers"
	"github.com/example/anime-browser/services/browse/internal/viewstate"
)

var errDraining = errors.New("draining")

// bootstrap builds the process logger even when config is invalid so the
// config error itself goes through zap. The logger is nil only when it
// could not be built.
func bootstrap() (config.AppConfig, *zap.Logger, error) {
	cfg, cfgErr := config.Load()
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, cfgErr
}

// catalog is what the repository offers both the handlers and Home.
type catalog interface {
	handlers.Catalog
	viewstate.HomeSource
}

type appOptions struct {
	ServiceName string
	Addr        string
	Catalog     catalog
	Events      *analytics.Publisher
	Home        viewstate.HomeOptions
	Season      func() (domain.Season, int)
	GRPC        *grpcserver.Server
	NATS        *nats.Conn
}

type app struct {
	log      *zap.Logger
	http     *httpserver.Server
	grpc     *grpcserver.Server
	home     *viewstate.Home
	nc       *nats.Conn
	draining atomic.Bool
}

func newApp(log *zap.Logger, opts appOptions) *app {
	a := &app{log: log, grpc: opts.GRPC, nc: opts.NATS}
	homeOpts := opts.Home
	homeOpts.OnSuccess = func(st viewstate.HomeState) {
		var featured int
		if st.Featured != nil {
			featured = st.Featured.ID
		}
		opts.Events.HomeLoaded(featured, len(st.Trending), len(st.Seasonal))
	}
	a.home = viewstate.NewHome(opts.Catalog, homeOpts)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: a.ready, Logger: log})
	handlers.Mount(r, handlers.Deps{
		Catalog: opts.Catalog,
		Home:    a.home,
		Events:  opts.Events,
		Season:  opts.Season,
	})
	a.http = httpserver.New(httpserver.Options{Addr: opts.Addr, ServiceName: opts.ServiceName, Logger: log, Router: r})
	// Closing Home ends every open /v1/home/events stream so Shutdown can
	// finish instead of waiting on them.
	a.http.HTTP.RegisterOnShutdown(a.home.Close)
	return a
}

func (a *app) ready() error {
	if a.draining.Load() {
		return errDraining
	}
	return nil
}

// serve runs the HTTP server on ln and the gRPC server when configured.
// It returns once both have stopped or one of them fails.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.http.Serve(ln) })
	if a.grpc != nil {
		g.Go(func() error { return a.grpc.Serve(gctx) })
		a.grpc.SetServing(true)
	}
	return g.Wait()
}

// shutdown reports not ready first, then stops HTTP under a single
// ShutdownTimeout and drains NATS.
func (a *app) shutdown(runner *run.Runner) error {
	a.draining.Store(true)
	if a.grpc != nil {
		a.grpc.SetServing(false)
	}
	err := runner.Graceful(a.http.Shutdown)
	if a.nc != nil {
		if derr := a.nc.Drain(); derr != nil {
			a.log.Warn("nats drain", zap.Error(derr))
			err = errors.Join(err, derr)
		}
	}
	return err
}
