package status

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Checker is implemented by modules that report their own status
type Checker interface {
	Name() string
	CheckStatus(ctx context.Context) ModuleStatus
}

// Aggregator collects status information from all modules
type Aggregator struct {
	checkers        []Checker
	timeout         time.Duration
	systemStartTime time.Time
	mu              sync.RWMutex
	lastStatus      *BackendStatus
}

// NewAggregator creates a new status aggregator. Each check is bounded by timeout.
func NewAggregator(timeout time.Duration, checkers ...Checker) *Aggregator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Aggregator{
		checkers:        checkers,
		timeout:         timeout,
		systemStartTime: time.Now(),
	}
}

// AggregateStatus collects status from all modules and system metrics
func (a *Aggregator) AggregateStatus(ctx context.Context) *BackendStatus {
	status := &BackendStatus{
		Timestamp: time.Now(),
		Services:  make(map[string]ModuleStatus, len(a.checkers)),
		Alerts:    []string{},
	}

	var wg sync.WaitGroup
	results := make(chan ModuleStatus, len(a.checkers))

	for _, checker := range a.checkers {
		wg.Add(1)
		go func(checker Checker) {
			defer wg.Done()
			results <- a.check(ctx, checker)
		}(checker)
	}

	wg.Wait()
	close(results)

	healthy, degraded, unhealthy := 0, 0, 0
	for moduleStatus := range results {
		status.Services[moduleStatus.Module] = moduleStatus

		switch moduleStatus.Status {
		case StatusHealthy:
			healthy++
		case StatusDegraded:
			degraded++
			status.Alerts = append(status.Alerts, fmt.Sprintf("%s service is degraded: %s", moduleStatus.Module, moduleStatus.Message))
		default:
			unhealthy++
			status.Alerts = append(status.Alerts, fmt.Sprintf("%s service is unhealthy: %s", moduleStatus.Module, moduleStatus.Message))
		}
	}

	status.OverallStatus = overallStatus(healthy, degraded, unhealthy)
	status.SystemMetrics = a.systemMetrics()

	a.mu.Lock()
	a.lastStatus = status
	a.mu.Unlock()

	return status
}

// check runs one checker, turning a timeout or panic into an unhealthy status
func (a *Aggregator) check(ctx context.Context, checker Checker) ModuleStatus {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan ModuleStatus, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- ModuleStatus{
					Status:  StatusUnhealthy,
					Message: fmt.Sprintf("status check panicked: %v", r),
				}
			}
		}()
		done <- checker.CheckStatus(ctx)
	}()

	var result ModuleStatus
	select {
	case result = <-done:
	case <-ctx.Done():
		result = ModuleStatus{
			Status:  StatusUnhealthy,
			Message: fmt.Sprintf("failed to check status: %v", ctx.Err()),
		}
	}

	if result.Module == "" {
		result.Module = checker.Name()
	}
	result.ResponseTime = fmt.Sprintf("%.2fms", float64(time.Since(start).Nanoseconds())/1e6)
	result.LastChecked = time.Now()
	return result
}

// GetLastStatus returns the last aggregated status
func (a *Aggregator) GetLastStatus() *BackendStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastStatus
}

func overallStatus(healthy, degraded, unhealthy int) Status {
	switch {
	case healthy+degraded+unhealthy == 0:
		return StatusUnhealthy
	case unhealthy > 0:
		return StatusUnhealthy
	case degraded > 0:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

func (a *Aggregator) systemMetrics() SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(a.systemStartTime)
	return SystemMetrics{
		MemoryUsage:     humanize.IBytes(m.Alloc),
		Goroutines:      runtime.NumGoroutine(),
		UptimeSeconds:   int64(uptime.Seconds()),
		UptimeFormatted: formatUptime(uptime),
	}
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
