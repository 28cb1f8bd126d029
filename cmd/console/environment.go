package main

import (
	"context"
	"errors"
	"os"

	"spawn-admin/internal/seo_urls"
	"spawn-admin/internal/seo_urls/services"
	"spawn-admin/pkg/app"
	"spawn-admin/pkg/config"
	"spawn-admin/pkg/controllers"

	_ "spawn-admin/internal/system"
)

// Environment opens the SEO URL service for one command
type Environment interface {
	Open(ctx context.Context) (service *services.Service, cfg config.SeoURLConfig, closeFn func(), err error)
}

// ErrNoDatabase is returned when MongoDB is unreachable. Console commands
// never fall back to the in-memory store, their changes would be lost.
var ErrNoDatabase = errors.New("MongoDB is not reachable, check MONGODB_URI")

type appEnvironment struct {
	initialize func(ctx context.Context) (*app.AppContext, error)
}

func newAppEnvironment() Environment {
	return appEnvironment{
		initialize: func(ctx context.Context) (*app.AppContext, error) {
			// stdout carries the command output
			return app.InitializeApp(ctx, "spawn-console", app.Options{LogOutput: os.Stderr})
		},
	}
}

func (e appEnvironment) Open(ctx context.Context) (*services.Service, config.SeoURLConfig, func(), error) {
	appCtx, err := e.initialize(ctx)
	if err != nil {
		return nil, config.SeoURLConfig{}, nil, err
	}
	if appCtx.MongoDB == nil {
		_ = appCtx.Shutdown(context.Background())
		return nil, config.SeoURLConfig{}, nil, ErrNoDatabase
	}

	cfg := config.GetSeoURLConfig()
	cfg.RefreshSchedule = ""

	m, err := seo_urls.New(appCtx.MongoDB, appCtx.Redis, controllers.Default, cfg)
	if err != nil {
		_ = appCtx.Shutdown(context.Background())
		return nil, cfg, nil, err
	}

	return m.Service(), cfg, func() {
		_ = appCtx.Shutdown(context.Background())
	}, nil
}
