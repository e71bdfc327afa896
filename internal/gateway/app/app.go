package app

import (
	"context"
	"fmt"
	"log"

	engine "snippetlens/internal/analysis"
	analysiscache "snippetlens/internal/cache/analysis"
	"snippetlens/internal/gateway/config"
	"snippetlens/internal/gateway/handler"
	"snippetlens/internal/gateway/handler/rpc"
	"snippetlens/internal/gateway/server"
	analysissvc "snippetlens/internal/gateway/service/analysis"
)

type App struct {
	server  *server.Server
	stores  *gatewayStores
	release func()
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Dependencies
	stores, err := initStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	primary, release, err := initBackend(ctx, cfg)
	if err != nil {
		stores.close()
		return nil, err
	}
	analysisSvc := analysissvc.New(analysissvc.Options{
		Primary:    primary,
		Cache:      analysiscache.New[engine.Result](cfg.Cache.Size, cfg.Cache.TTL.Std()),
		History:    stores.history,
		Reports:    stores.reports,
		MinLatency: cfg.MinLatency.Std(),
		Logger:     log.Default(),
	})

	// Routing & Server
	mux := server.NewMux(
		handler.NewAnalysisHandler(analysisSvc),
		rpc.NewAnalyzerHandler(analysisSvc),
		rpc.NewAnalyzeWSHandler(analysisSvc),
	)
	log.Printf("env=%s backend=%s", cfg.Env, analysisSvc.BackendName())

	return &App{
		server:  server.New(cfg.Port, mux),
		stores:  stores,
		release: release,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.release()
	a.stores.close()
	return err
}
