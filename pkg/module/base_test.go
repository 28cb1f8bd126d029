package module

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseModuleStopIsIdempotent(t *testing.T) {
	base := NewBaseModule("seo_urls", nil, nil)
	assert.Equal(t, "seo_urls", base.Name())
	assert.Nil(t, base.MongoDB())
	assert.Nil(t, base.Redis())

	done := make(chan struct{})
	go func() {
		base.WaitForStop(context.Background())
		close(done)
	}()

	base.Stop()
	base.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForStop did not return after Stop")
	}
}

func TestBaseModuleWaitForStopHonorsContext(t *testing.T) {
	base := NewBaseModule("seo_urls", nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	base.WaitForStop(ctx)
}

func TestBaseModuleHealthRoute(t *testing.T) {
	r := chi.NewRouter()
	NewBaseModule("seo_urls", nil, nil).RegisterHealthRoute(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/seo_urls/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "seo_urls", body["module"])
}
