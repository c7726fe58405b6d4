// Package health provides system health monitoring and status reporting.
package health

import (
	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/engine"
)

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// ChainHealth contains routing health for one chain's endpoint pool.
type ChainHealth struct {
	Chain            domain.Chain `json:"chain"`
	Status           SystemStatus `json:"status"`
	TotalEndpoints   int          `json:"total_endpoints"`
	HealthyEndpoints int          `json:"healthy_endpoints"`
}

// Report is the full system health report.
type Report struct {
	SystemStatus   SystemStatus                 `json:"system_status"`
	EmergencyStop  bool                         `json:"emergency_stop"`
	Maintenance    bool                         `json:"maintenance"`
	TradesInFlight int                          `json:"trades_in_flight"`
	Chains         map[domain.Chain]ChainHealth `json:"chains"`
	Engine         engine.StatsSnapshot         `json:"engine"`
}
