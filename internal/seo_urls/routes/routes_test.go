package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"spawn-admin/internal/seo_urls/dto"
	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/internal/seo_urls/services"
	"spawn-admin/pkg/controllers"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingLocker struct{}

func (blockingLocker) Acquire(context.Context, string, time.Duration) (func(context.Context), error) {
	return nil, services.ErrLocked
}

func setup(t *testing.T, locker services.Locker) (humatest.TestAPI, *services.MemoryStore) {
	t.Helper()

	registry := controllers.NewRegistry()
	registry.MustRegister(controllers.Descriptor{
		ID:   "backend.seo",
		Tags: []controllers.Tag{controllers.TagBackendController},
		Methods: controllers.StaticMethods(
			controllers.Method{Name: "overviewAction", Public: true, Route: "/backend/seo", Locked: true},
			controllers.Method{Name: "editAction", Public: true, Route: "/backend/seo/edit"},
		),
	})

	store := services.NewMemoryStore()
	service := services.NewService(store, registry, locker, time.Minute)

	_, api := humatest.New(t)
	NewModule(service).RegisterUnifiedRoutes(api)
	return api, store
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestRefreshAndList(t *testing.T) {
	api, store := setup(t, nil)

	resp := api.Post("/admin/seo-urls/refresh", map[string]any{"remove_stale": false})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	refresh := decode[dto.RefreshSeoUrlsResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, refresh.Added)
	assert.Nil(t, refresh.Removed)
	assert.Equal(t, 2, store.Len())

	resp = api.Get("/admin/seo-urls")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	page := decode[dto.SeoUrlsResponse](t, resp.Body.Bytes())
	require.Len(t, page.SeoUrls, 1)
	assert.Equal(t, "editAction", page.SeoUrls[0].Action)
	assert.Equal(t, int64(1), page.TableInfo.Total)

	resp = api.Get("/admin/seo-urls?show_locked=true&num=1&page=2")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	page = decode[dto.SeoUrlsResponse](t, resp.Body.Bytes())
	require.Len(t, page.SeoUrls, 1)
	assert.Equal(t, 2, page.TableInfo.AvailablePages)
	assert.True(t, page.TableInfo.ShowLocked)
}

func TestRefreshWithoutBodyIsAddOnly(t *testing.T) {
	api, store := setup(t, nil)
	seed := models.NewSeoUrl("/old", "gone.ctrl", "oldAction", nil, false, true)
	require.NoError(t, store.Upsert(context.Background(), seed))

	resp := api.Post("/admin/seo-urls/refresh")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 3, store.Len())
}

func TestRefreshRemoveStaleAndDryRun(t *testing.T) {
	api, store := setup(t, nil)
	seed := models.NewSeoUrl("/old", "gone.ctrl", "oldAction", nil, false, true)
	require.NoError(t, store.Upsert(context.Background(), seed))

	resp := api.Post("/admin/seo-urls/refresh", map[string]any{"remove_stale": true, "dry_run": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	plan := decode[dto.RefreshSeoUrlsResponse](t, resp.Body.Bytes())
	assert.True(t, plan.DryRun)
	assert.Equal(t, 2, plan.Added)
	require.NotNil(t, plan.Removed)
	assert.Equal(t, 1, *plan.Removed)
	assert.Equal(t, 1, store.Len())

	resp = api.Post("/admin/seo-urls/refresh", map[string]any{"remove_stale": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decode[dto.RefreshSeoUrlsResponse](t, resp.Body.Bytes())
	require.NotNil(t, result.Removed)
	assert.Equal(t, 1, *result.Removed)
	assert.Equal(t, 2, store.Len())
}

func TestRefreshConflictWhenLocked(t *testing.T) {
	api, _ := setup(t, blockingLocker{})

	resp := api.Post("/admin/seo-urls/refresh", map[string]any{"remove_stale": true})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestGetAndSaveSeoUrl(t *testing.T) {
	api, _ := setup(t, nil)

	resp := api.Get("/admin/seo-urls/backend.seo/editAction")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Post("/admin/seo-urls/backend.seo/editAction", map[string]any{"c_url": "/custom", "active": false})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	saved := decode[dto.SaveSeoUrlResponse](t, resp.Body.Bytes())
	assert.True(t, saved.Success)
	require.NotNil(t, saved.SeoUrl)
	assert.Equal(t, "/custom", saved.SeoUrl.Path)
	assert.False(t, saved.SeoUrl.Active)

	resp = api.Get("/admin/seo-urls/backend.seo/editAction")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	found := decode[models.SeoUrl](t, resp.Body.Bytes())
	assert.Equal(t, saved.SeoUrl.ID, found.ID)
	assert.Equal(t, "/custom", found.Path)
}

func TestSaveReportsMissingFields(t *testing.T) {
	api, store := setup(t, nil)

	resp := api.Post("/admin/seo-urls/backend.seo/editAction", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	saved := decode[dto.SaveSeoUrlResponse](t, resp.Body.Bytes())
	assert.False(t, saved.Success)
	assert.Equal(t, []string{"c_url", "active"}, saved.ErrorFields)
	assert.Nil(t, saved.SeoUrl)
	assert.Equal(t, 0, store.Len())
}

func TestStatus(t *testing.T) {
	api, _ := setup(t, nil)

	resp := api.Get("/seo-urls/status")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	status := decode[dto.StatusResponse](t, resp.Body.Bytes())
	assert.Equal(t, models.ModuleName, status.Module)
	assert.Equal(t, "degraded", status.Status)
}
