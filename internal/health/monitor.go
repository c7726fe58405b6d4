package health

import (
	"sync"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/engine"
	"github.com/vietddude/relay/internal/infra/rpc"
)

// EndpointStatusSource exposes the router's per-chain endpoint snapshot.
type EndpointStatusSource interface {
	Status() []rpc.ChainStatus
}

// EngineStatsSource exposes the decision engine's cumulative counters.
type EngineStatsSource interface {
	Stats() *engine.Stats
}

// Monitor aggregates health status from the RPC layer, the decision engine,
// and the global risk state.
type Monitor struct {
	endpoints EndpointStatusSource
	stats     EngineStatsSource
	risk      *engine.RiskState

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport *Report
}

// NewMonitor creates a health monitor.
func NewMonitor(endpoints EndpointStatusSource, stats EngineStatsSource, risk *engine.RiskState) *Monitor {
	return &Monitor{endpoints: endpoints, stats: stats, risk: risk}
}

// Check builds the current health report. Results are cached briefly so a
// scraping dashboard cannot hammer the underlying snapshots.
func (m *Monitor) Check() *Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastReport != nil && time.Since(m.lastCheck) < 5*time.Second {
		return m.lastReport
	}

	report := &Report{
		SystemStatus:   StatusHealthy,
		EmergencyStop:  m.risk.EmergencyStopped(),
		Maintenance:    m.risk.InMaintenance(),
		TradesInFlight: m.risk.InFlight(),
		Chains:         make(map[domain.Chain]ChainHealth),
		Engine:         m.stats.Stats().Snapshot(),
	}

	// Worst chain wins: a chain with zero live endpoints is critical, a
	// partially degraded pool marks the system degraded.
	for _, st := range m.endpoints.Status() {
		chain := ChainHealth{
			Chain:            st.Chain,
			Status:           StatusHealthy,
			TotalEndpoints:   st.Total,
			HealthyEndpoints: st.Healthy,
		}
		switch {
		case st.Healthy == 0:
			chain.Status = StatusCritical
			report.SystemStatus = StatusCritical
		case st.Healthy < st.Total:
			chain.Status = StatusDegraded
			if report.SystemStatus == StatusHealthy {
				report.SystemStatus = StatusDegraded
			}
		}
		report.Chains[st.Chain] = chain
	}

	if report.EmergencyStop || report.Maintenance {
		if report.SystemStatus == StatusHealthy {
			report.SystemStatus = StatusDegraded
		}
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
