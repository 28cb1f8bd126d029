package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spawn-admin/internal/seo_urls"
	"spawn-admin/pkg/config"
	"spawn-admin/pkg/controllers"
	"spawn-admin/pkg/module"
	"spawn-admin/pkg/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter(t *testing.T) {
	t.Setenv("API_PREFIX", "/api")

	mod, err := seo_urls.New(nil, nil, controllers.Default, config.SeoURLConfig{})
	require.NoError(t, err)
	r := newRouter([]module.Module{mod}, status.NewAggregator(time.Second, mod))

	cases := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/modules/seo_urls/health", http.StatusOK},
		{http.MethodGet, "/api/seo-urls/status", http.StatusOK},
		{http.MethodGet, "/api/admin/seo-urls", http.StatusOK},
		{http.MethodGet, "/api/openapi.json", http.StatusOK},
		{http.MethodGet, "/api/status", http.StatusOK},
		{http.MethodGet, "/api/admin/seo-urls/unknown.ctrl/missingAction", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}
