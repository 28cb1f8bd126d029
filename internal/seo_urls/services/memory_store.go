package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/pkg/criteria"
)

// MemoryStore keeps SEO URLs in process memory. The module falls back to it
// when MongoDB is not reachable so the admin API keeps working (without
// persistence).
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*models.SeoUrl
	order   []string
	now     func() time.Time
	last    time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*models.SeoUrl),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Search implements Store
func (m *MemoryStore) Search(ctx context.Context, c *criteria.Criteria) ([]models.SeoUrl, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	matched := make([]*models.SeoUrl, 0, len(m.order))
	for _, id := range m.order {
		entry := m.entries[id]
		if c.Matches(entry.Fields()) {
			matched = append(matched, entry.Clone())
		}
	}
	m.mu.RUnlock()

	if c != nil && len(c.Sorts) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return c.Less(matched[i].Fields(), matched[j].Fields())
		})
	}

	start, end := c.Window(len(matched))
	result := make([]models.SeoUrl, 0, end-start)
	for _, entry := range matched[start:end] {
		result = append(result, *entry)
	}
	return result, nil
}

// Count implements Store
func (m *MemoryStore) Count(ctx context.Context, filter criteria.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c := criteria.New(filter)
	if err := c.Validate(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, entry := range m.entries {
		if c.Matches(entry.Fields()) {
			count++
		}
	}
	return count, nil
}

// Upsert implements Store
func (m *MemoryStore) Upsert(ctx context.Context, seoUrl *models.SeoUrl) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.After(m.last) {
		// keep created_at strictly increasing so it reflects insertion order
		now = m.last.Add(time.Nanosecond)
	}
	m.last = now
	if seoUrl.IsNew() {
		seoUrl.ID = models.NewID()
		seoUrl.CreatedAt = now
	}
	if seoUrl.CreatedAt.IsZero() {
		seoUrl.CreatedAt = now
	}
	seoUrl.UpdatedAt = now
	if seoUrl.Parameters == nil {
		seoUrl.Parameters = []string{}
	}

	if _, exists := m.entries[seoUrl.ID]; !exists {
		m.order = append(m.order, seoUrl.ID)
	}
	m.entries[seoUrl.ID] = seoUrl.Clone()
	return nil
}

// DeleteByID implements Store
func (m *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[id]; !exists {
		return fmt.Errorf("seo url %s not found", id)
	}
	delete(m.entries, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored SEO URLs
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
