package services

import (
	"context"
	"log/slog"
	"math"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/pkg/criteria"

	"github.com/go-playground/validator/v10"
)

// Manager gives the admin layer access to individual SEO URLs
type Manager struct {
	store    Store
	validate *validator.Validate
}

// NewManager creates a new SEO URL manager
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Store returns the underlying store
func (m *Manager) Store() Store {
	return m.store
}

func lockedFilter(excludeLocked bool) criteria.Filter {
	if excludeLocked {
		return criteria.Equals(models.FieldLocked, false)
	}
	return nil
}

// ListMappings returns SEO URLs in insertion order. limit <= 0 returns everything after offset.
func (m *Manager) ListMappings(ctx context.Context, excludeLocked bool, limit, offset int) ([]models.SeoUrl, error) {
	c := criteria.New(lockedFilter(excludeLocked)).
		SortBy(models.FieldCreatedAt, false).
		SortBy(models.FieldID, false).
		Page(int64(limit), int64(offset))

	seoUrls, err := m.store.Search(ctx, c)
	if err != nil {
		return nil, storageErr("search", "", err)
	}
	return seoUrls, nil
}

// CountMappings counts SEO URLs honoring the same locked filter as ListMappings
func (m *Manager) CountMappings(ctx context.Context, excludeLocked bool) (int64, error) {
	count, err := m.store.Count(ctx, lockedFilter(excludeLocked))
	if err != nil {
		return 0, storageErr("count", "", err)
	}
	return count, nil
}

// FindByHandlerAction returns the SEO URL of a controller action, or nil if none is stored
func (m *Manager) FindByHandlerAction(ctx context.Context, controller, action string) (*models.SeoUrl, error) {
	key := models.ActionKey{Controller: controller, Action: action}
	c := criteria.New(criteria.And(
		criteria.Equals(models.FieldController, controller),
		criteria.Equals(models.FieldAction, action),
	)).SortBy(models.FieldCreatedAt, false).SortBy(models.FieldID, false)

	seoUrls, err := m.store.Search(ctx, c)
	if err != nil {
		return nil, storageErr("search", key.String(), err)
	}
	if len(seoUrls) == 0 {
		return nil, nil
	}
	if len(seoUrls) > 1 {
		slog.WarnContext(ctx, "Multiple SEO URLs stored for one controller action",
			"controller", controller,
			"action", action,
			"count", len(seoUrls))
	}
	return &seoUrls[0], nil
}

// Upsert inserts the SEO URL if it has no ID yet, otherwise updates it
func (m *Manager) Upsert(ctx context.Context, seoUrl *models.SeoUrl) error {
	id := seoUrl.ID
	if id == "" {
		id = seoUrl.Key().String()
	}
	return storageErr("upsert", id, m.store.Upsert(ctx, seoUrl))
}

// Delete removes a stored SEO URL by ID
func (m *Manager) Delete(ctx context.Context, id string) error {
	return storageErr("delete", id, m.store.DeleteByID(ctx, id))
}

// Save updates path and active flag of the stored SEO URL for a controller
// action, or creates an unlocked one when none exists
func (m *Manager) Save(ctx context.Context, path, controller, action string, active bool) (*models.SeoUrl, error) {
	seoUrl, err := m.FindByHandlerAction(ctx, controller, action)
	if err != nil {
		return nil, err
	}

	if seoUrl != nil {
		seoUrl.Path = path
		seoUrl.Active = active
	} else {
		seoUrl = models.NewSeoUrl(path, controller, action, nil, false, active)
	}

	if err := m.Upsert(ctx, seoUrl); err != nil {
		return nil, err
	}
	return seoUrl, nil
}

// Submission is the admin edit form
type Submission struct {
	Path   string `json:"c_url" validate:"required"`
	Active *bool  `json:"active" validate:"required"`
}

// ValidateSubmission returns a ValidationError naming every missing field
func (m *Manager) ValidateSubmission(sub Submission) error {
	err := m.validate.Struct(sub)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.StructField() {
		case "Path":
			fields = append(fields, "c_url")
		case "Active":
			fields = append(fields, "active")
		default:
			fields = append(fields, fe.Field())
		}
	}
	return &ValidationError{Fields: fields}
}

// SaveSubmission validates an admin submission and saves it. Nothing is
// written when validation fails.
func (m *Manager) SaveSubmission(ctx context.Context, controller, action string, sub Submission) (*models.SeoUrl, error) {
	if err := m.ValidateSubmission(sub); err != nil {
		return nil, err
	}
	return m.Save(ctx, sub.Path, controller, action, *sub.Active)
}

// ListPage returns one overview page and its table info. page starts at 1.
func (m *Manager) ListPage(ctx context.Context, showLocked bool, page, perPage int) ([]models.SeoUrl, models.TableInfo, error) {
	if perPage <= 0 {
		perPage = models.DefaultEntriesPerPage
	}
	if perPage > models.MaxEntriesPerPage {
		perPage = models.MaxEntriesPerPage
	}
	if page < 1 {
		page = 1
	}

	excludeLocked := !showLocked
	info := models.TableInfo{
		Page:           page,
		EntriesPerPage: perPage,
		ShowLocked:     showLocked,
	}

	total, err := m.CountMappings(ctx, excludeLocked)
	if err != nil {
		return nil, info, err
	}
	info.Total = total
	info.AvailablePages = int(math.Ceil(float64(total) / float64(perPage)))

	seoUrls, err := m.ListMappings(ctx, excludeLocked, perPage, (page-1)*perPage)
	if err != nil {
		return nil, info, err
	}
	return seoUrls, info, nil
}
