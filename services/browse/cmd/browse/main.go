package main

import (
	"context"
	"net"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/anime-browser/internal/platform/analytics"
	"github.com/example/anime-browser/internal/platform/grpcserver"
	"github.com/example/anime-browser/internal/platform/natsconn"
	"github.com/example/anime-browser/internal/platform/run"
	"github.com/example/anime-browser/services/browse/internal/anilist"
	browsecfg "github.com/example/anime-browser/services/browse/internal/config"
	"github.com/example/anime-browser/services/browse/internal/repository"
	"github.com/example/anime-browser/services/browse/internal/viewstate"
)

func main() {
	cfg, log, err := bootstrap()
	if log == nil {
		panic(err)
	}
	if err != nil {
		log.Error("invalid config", zap.Error(err))
		_ = log.Sync()
		run.Exit(1)
	}

	bcfg := browsecfg.Load()
	client := anilist.New(bcfg.AniListURL, bcfg.Client(), anilist.WithLogger(log.Named("anilist")))
	repo := repository.New(client)
	events, nc := initAnalytics(log, cfg.ServiceName)

	var grpcSrv *grpcserver.Server
	if cfg.GRPC.Addr != "" {
		grpcSrv, err = grpcserver.New(cfg.GRPC.Addr, cfg.ServiceName, log)
		if err != nil {
			log.Error("grpc listen", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
	}

	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		log.Error("http listen", zap.Error(err))
		_ = log.Sync()
		run.Exit(1)
	}

	a := newApp(log, appOptions{
		ServiceName: cfg.ServiceName,
		Addr:        cfg.HTTP.Addr,
		Catalog:     repo,
		Events:      events,
		Home: viewstate.HomeOptions{
			Log:    log.Named("home"),
			Idle:   bcfg.IdleTimeout,
			Season: bcfg.SeasonFunc(nil),
		},
		Season: bcfg.SeasonFunc(nil),
		GRPC:   grpcSrv,
		NATS:   nc,
	})

	log.Info("browse starting",
		zap.String("anilist_url", bcfg.AniListURL),
		zap.Duration("idle_timeout", bcfg.IdleTimeout),
		zap.Bool("analytics", nc != nil),
		zap.Bool("grpc", grpcSrv != nil))

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		return a.serve(ctx, ln)
	})
	if err := a.shutdown(runner); err != nil && code == 0 {
		code = 1
	}

	log.Info("exit", zap.Int("code", code))
	_ = log.Sync()
	run.Exit(code)
}

// initAnalytics connects to NATS when NATS_URL is set. Without it events
// are dropped by a no-op publisher.
func initAnalytics(log *zap.Logger, name string) (*analytics.Publisher, *nats.Conn) {
	if !natsconn.Enabled() {
		return analytics.New(nil, log), nil
	}
	nc, err := natsconn.Connect(natsconn.Options{Name: name, Logger: log})
	if err != nil {
		log.Error("nats connect, analytics disabled", zap.Error(err))
		return analytics.New(nil, log), nil
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Error("jetstream, analytics disabled", zap.Error(err))
		nc.Close()
		return analytics.New(nil, log), nil
	}
	return analytics.New(js, log.Named("analytics")), nc
}
