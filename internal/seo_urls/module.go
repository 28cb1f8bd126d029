package seo_urls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/internal/seo_urls/routes"
	"spawn-admin/internal/seo_urls/services"
	"spawn-admin/pkg/config"
	"spawn-admin/pkg/database"
	"spawn-admin/pkg/module"
	"spawn-admin/pkg/status"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// Module owns the SEO URL registry: storage, reconciliation and admin routes
type Module struct {
	*module.BaseModule
	service   *services.Service
	routes    *routes.Module
	config    config.SeoURLConfig
	scheduler *services.RefreshScheduler
}

// New creates the SEO URL module. Without MongoDB the registry is kept in
// memory; without Redis refresh runs are serialized per process.
func New(mongodb *database.MongoDB, redis *database.Redis, registry services.ControllerRegistry, cfg config.SeoURLConfig) (*Module, error) {
	var store services.Store
	if mongodb != nil {
		store = services.NewRepository(mongodb.Database)
	} else {
		slog.Warn("MongoDB unavailable, SEO URLs are kept in memory")
		store = services.NewMemoryStore()
	}

	var locker services.Locker
	if redis != nil {
		locker = services.NewRedisLocker(redis)
	} else {
		locker = services.NewLocalLocker()
	}

	service := services.NewService(store, registry, locker, cfg.LockTTL)

	m := &Module{
		BaseModule: module.NewBaseModule(models.ModuleName, mongodb, redis),
		service:    service,
		routes:     routes.NewModule(service),
		config:     cfg,
	}

	if cfg.RefreshSchedule != "" {
		scheduler, err := services.NewRefreshScheduler(service.Refresher(), cfg.RefreshSchedule, cfg.RefreshTimeout)
		if err != nil {
			return nil, err
		}
		m.scheduler = scheduler
	}

	return m, nil
}

// Service returns the SEO URL service for use by other modules
func (m *Module) Service() *services.Service {
	return m.service
}

// Initialize runs the add-only startup refresh when enabled. It never
// removes mappings; stale cleanup is an explicit operator action.
func (m *Module) Initialize(ctx context.Context) error {
	if !m.config.RefreshOnStartup {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.RefreshTimeout)
	defer cancel()

	result, err := m.service.Refresh(ctx, false)
	if err != nil {
		if errors.Is(err, services.ErrLocked) {
			slog.InfoContext(ctx, "Skipping startup SEO URL refresh, another instance is refreshing")
			return nil
		}
		return fmt.Errorf("startup SEO URL refresh failed: %w", err)
	}
	if result.HasErrors() {
		slog.WarnContext(ctx, "Startup SEO URL refresh finished with errors", "errors", len(result.Errors))
	}
	return nil
}

// CheckStatus implements status.Checker
func (m *Module) CheckStatus(ctx context.Context) status.ModuleStatus {
	s := m.service.GetStatus(ctx)
	return status.ModuleStatus{
		Module:  s.Module,
		Status:  status.ParseStatus(s.Status),
		Message: s.Message,
	}
}

// Routes implements module.Module
func (m *Module) Routes(r chi.Router) {
	m.RegisterHealthRoute(r)
}

// RegisterUnifiedRoutes implements module.Module
func (m *Module) RegisterUnifiedRoutes(api huma.API) {
	m.routes.RegisterUnifiedRoutes(api)
}

// StartBackgroundTasks runs the scheduled refresh until the module is stopped
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	if m.scheduler == nil {
		return
	}

	m.scheduler.Start()
	m.WaitForStop(ctx)
	m.scheduler.Stop()
}

var (
	_ module.Module  = (*Module)(nil)
	_ status.Checker = (*Module)(nil)
)
