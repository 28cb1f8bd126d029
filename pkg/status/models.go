package status

import (
	"time"
)

// Status represents the health status of a module
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ParseStatus maps a module reported status string, unknown values are unhealthy
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusHealthy, StatusDegraded:
		return Status(s)
	default:
		return StatusUnhealthy
	}
}

// ModuleStatus represents the status of an individual module
type ModuleStatus struct {
	Module       string    `json:"module"`
	Status       Status    `json:"status"`
	Message      string    `json:"message,omitempty"`
	ResponseTime string    `json:"response_time,omitempty"`
	LastChecked  time.Time `json:"last_checked"`
}

// SystemMetrics represents process level metrics
type SystemMetrics struct {
	MemoryUsage     string `json:"memory_usage"`
	Goroutines      int    `json:"goroutines"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	UptimeFormatted string `json:"uptime_formatted"`
}

// BackendStatus represents the complete backend status
type BackendStatus struct {
	Timestamp     time.Time               `json:"timestamp"`
	OverallStatus Status                  `json:"overall_status"`
	Services      map[string]ModuleStatus `json:"services"`
	SystemMetrics SystemMetrics           `json:"system_metrics"`
	Alerts        []string                `json:"alerts"`
}
