package services

import (
	"context"
	"fmt"
	"time"

	"spawn-admin/internal/seo_urls/dto"
	"spawn-admin/internal/seo_urls/models"
)

// Pinger checks a backing connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service bundles the SEO URL manager and the reconciler
type Service struct {
	manager    *Manager
	reconciler *Reconciler
	refresher  Refresher
	store      Store
}

// NewService creates a new SEO URL service. Refresh runs are serialized with locker.
func NewService(store Store, registry ControllerRegistry, locker Locker, lockTTL time.Duration) *Service {
	manager := NewManager(store)
	reconciler := NewReconciler(manager, NewIntrospector(registry))

	if locker == nil {
		locker = NewLocalLocker()
	}

	return &Service{
		manager:    manager,
		reconciler: reconciler,
		refresher:  NewLockedReconciler(reconciler, locker, lockTTL),
		store:      store,
	}
}

// Manager returns the SEO URL manager
func (s *Service) Manager() *Manager {
	return s.manager
}

// Reconciler returns the unlocked reconciler
func (s *Service) Reconciler() *Reconciler {
	return s.reconciler
}

// Refresher returns the lock-holding reconciler
func (s *Service) Refresher() Refresher {
	return s.refresher
}

// Refresh reconciles SEO URLs while holding the refresh lock
func (s *Service) Refresh(ctx context.Context, removeStale bool) (*ReconcileResult, error) {
	return s.refresher.Reconcile(ctx, removeStale)
}

// Plan computes the refresh diff without writing
func (s *Service) Plan(ctx context.Context, removeStale bool) (*Plan, error) {
	return s.reconciler.Plan(ctx, removeStale)
}

// GetStatus returns the module health status
func (s *Service) GetStatus(ctx context.Context) *dto.StatusResponse {
	status := &dto.StatusResponse{Module: models.ModuleName, Status: "healthy"}

	if pinger, ok := s.store.(Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			status.Status = "unhealthy"
			status.Message = fmt.Sprintf("Database connection failed: %v", err)
			return status
		}
	}

	count, err := s.manager.CountMappings(ctx, false)
	if err != nil {
		status.Status = "unhealthy"
		status.Message = fmt.Sprintf("Cannot access seo_urls collection: %v", err)
		return status
	}

	if _, inMemory := s.store.(*MemoryStore); inMemory {
		status.Status = "degraded"
		status.Message = fmt.Sprintf("Managing %d SEO URLs in memory (not persisted)", count)
		return status
	}

	status.Message = fmt.Sprintf("Managing %d SEO URLs", count)
	return status
}
