package services

import (
	"context"
	"errors"
	"sync"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/pkg/controllers"
	"spawn-admin/pkg/criteria"
)

var errStoreDown = errors.New("store down")

// failingStore fails writes for selected keys and IDs
type failingStore struct {
	*MemoryStore

	mu           sync.Mutex
	failUpserts  map[models.ActionKey]bool
	failDeletes  map[string]bool
	failSearches bool
	failCounts   bool
	upserts      int
	deletes      int
	onUpsert     func()
}

func newFailingStore() *failingStore {
	return &failingStore{
		MemoryStore: NewMemoryStore(),
		failUpserts: make(map[models.ActionKey]bool),
		failDeletes: make(map[string]bool),
	}
}

func (s *failingStore) Search(ctx context.Context, c *criteria.Criteria) ([]models.SeoUrl, error) {
	if s.failSearches {
		return nil, errStoreDown
	}
	return s.MemoryStore.Search(ctx, c)
}

func (s *failingStore) Count(ctx context.Context, filter criteria.Filter) (int64, error) {
	if s.failCounts {
		return 0, errStoreDown
	}
	return s.MemoryStore.Count(ctx, filter)
}

func (s *failingStore) Upsert(ctx context.Context, seoUrl *models.SeoUrl) error {
	s.mu.Lock()
	s.upserts++
	fail := s.failUpserts[seoUrl.Key()]
	hook := s.onUpsert
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	if fail {
		return errStoreDown
	}
	return s.MemoryStore.Upsert(ctx, seoUrl)
}

func (s *failingStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	s.deletes++
	fail := s.failDeletes[id]
	s.mu.Unlock()

	if fail {
		return errStoreDown
	}
	return s.MemoryStore.DeleteByID(ctx, id)
}

func action(name, route string) controllers.Method {
	return controllers.Method{Name: name, Public: true, Route: route}
}

func newTestRegistry(descriptors ...controllers.Descriptor) *controllers.Registry {
	registry := controllers.NewRegistry()
	for _, d := range descriptors {
		registry.MustRegister(d)
	}
	return registry
}

func backendController(id string, methods ...controllers.Method) controllers.Descriptor {
	return controllers.Descriptor{
		ID:      id,
		Tags:    []controllers.Tag{controllers.TagBackendController},
		Methods: controllers.StaticMethods(methods...),
	}
}

func brokenController(id string, err error) controllers.Descriptor {
	return controllers.Descriptor{
		ID:      id,
		Tags:    []controllers.Tag{controllers.TagBaseController},
		Methods: func() ([]controllers.Method, error) { return nil, err },
	}
}

func seed(store Store, seoUrls ...*models.SeoUrl) {
	for _, seoUrl := range seoUrls {
		if err := store.Upsert(context.Background(), seoUrl); err != nil {
			panic(err)
		}
	}
}

func newTestReconciler(store Store, registry ControllerRegistry) *Reconciler {
	return NewReconciler(NewManager(store), NewIntrospector(registry))
}

// stubRegistry serves descriptors without the checks of controllers.Registry
type stubRegistry map[string]controllers.Descriptor

func (s stubRegistry) ListHandlers(tags ...controllers.Tag) map[string]controllers.Descriptor {
	out := make(map[string]controllers.Descriptor, len(s))
	for id, d := range s {
		if len(tags) == 0 || d.HasAnyTag(tags...) {
			out[id] = d
		}
	}
	return out
}
