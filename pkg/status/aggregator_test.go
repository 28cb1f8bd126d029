package status

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedChecker struct {
	name    string
	status  Status
	message string
	delay   time.Duration
	panics  bool
}

func (c fixedChecker) Name() string { return c.name }

func (c fixedChecker) CheckStatus(ctx context.Context) ModuleStatus {
	if c.panics {
		panic("boom")
	}
	time.Sleep(c.delay)
	return ModuleStatus{Module: c.name, Status: c.status, Message: c.message}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusHealthy, ParseStatus("healthy"))
	assert.Equal(t, StatusDegraded, ParseStatus("degraded"))
	assert.Equal(t, StatusUnhealthy, ParseStatus("unhealthy"))
	assert.Equal(t, StatusUnhealthy, ParseStatus("whatever"))
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		overall  Status
		alerts   int
	}{
		{"no modules", nil, StatusUnhealthy, 0},
		{"all healthy", []Checker{fixedChecker{name: "a", status: StatusHealthy}, fixedChecker{name: "b", status: StatusHealthy}}, StatusHealthy, 0},
		{"one degraded", []Checker{fixedChecker{name: "a", status: StatusHealthy}, fixedChecker{name: "b", status: StatusDegraded, message: "in memory"}}, StatusDegraded, 1},
		{"one unhealthy", []Checker{fixedChecker{name: "a", status: StatusDegraded}, fixedChecker{name: "b", status: StatusUnhealthy}}, StatusUnhealthy, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(time.Second, tt.checkers...)
			status := agg.AggregateStatus(context.Background())

			assert.Equal(t, tt.overall, status.OverallStatus)
			assert.Len(t, status.Services, len(tt.checkers))
			assert.Len(t, status.Alerts, tt.alerts)
			assert.NotEmpty(t, status.SystemMetrics.MemoryUsage)
			assert.Same(t, status, agg.GetLastStatus())
		})
	}
}

func TestAggregateStatusTimeoutAndPanic(t *testing.T) {
	agg := NewAggregator(20*time.Millisecond,
		fixedChecker{name: "slow", status: StatusHealthy, delay: 200 * time.Millisecond},
		fixedChecker{name: "broken", panics: true},
	)

	status := agg.AggregateStatus(context.Background())
	require.Len(t, status.Services, 2)
	assert.Equal(t, StatusUnhealthy, status.Services["slow"].Status)
	assert.Contains(t, status.Services["slow"].Message, "deadline exceeded")
	assert.Equal(t, StatusUnhealthy, status.Services["broken"].Status)
	assert.Contains(t, status.Services["broken"].Message, "panicked")
	assert.NotEmpty(t, status.Services["broken"].ResponseTime)
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "42s", formatUptime(42*time.Second))
	assert.Equal(t, "3m 5s", formatUptime(3*time.Minute+5*time.Second))
	assert.Equal(t, "2h 30m", formatUptime(2*time.Hour+30*time.Minute))
}

func TestStatusRoute(t *testing.T) {
	_, api := humatest.New(t)
	NewAggregator(time.Second, fixedChecker{name: "seo_urls", status: StatusHealthy}).RegisterRoutes(api)

	resp := api.Get("/status")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"overall_status":"healthy"`)
}
