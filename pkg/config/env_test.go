package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("SPAWN_TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, GetDurationEnv("SPAWN_TEST_DURATION", time.Minute))

	t.Setenv("SPAWN_TEST_DURATION", "not-a-duration")
	assert.Equal(t, time.Minute, GetDurationEnv("SPAWN_TEST_DURATION", time.Minute))

	t.Setenv("SPAWN_TEST_DURATION", "-5s")
	assert.Equal(t, time.Minute, GetDurationEnv("SPAWN_TEST_DURATION", time.Minute))
}

func TestGetAPIPrefix(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", ""},
		{"/", ""},
		{"api", "/api"},
		{"/api/", "/api"},
		{" /v1 ", "/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("API_PREFIX", tt.value)
			assert.Equal(t, tt.want, GetAPIPrefix())
		})
	}
}

func TestGetSeoURLConfigDefaults(t *testing.T) {
	t.Setenv("SEO_URL_REFRESH_ON_STARTUP", "")
	t.Setenv("SEO_URL_REFRESH_SCHEDULE", "")
	t.Setenv("SEO_URL_REFRESH_TIMEOUT", "")
	t.Setenv("SEO_URL_LOCK_TTL", "")

	cfg := GetSeoURLConfig()
	assert.True(t, cfg.RefreshOnStartup)
	assert.Empty(t, cfg.RefreshSchedule)
	assert.Equal(t, DefaultRefreshTimeout, cfg.RefreshTimeout)
	assert.Equal(t, DefaultLockTTL, cfg.LockTTL)
}
