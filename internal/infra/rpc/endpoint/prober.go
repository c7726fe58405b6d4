package endpoint

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/metrics"
)

const (
	// DefaultProbeInterval is how often each chain's endpoints are probed.
	DefaultProbeInterval = 30 * time.Second

	// FailureThreshold is the consecutive-error count that marks an endpoint
	// unhealthy and records it as failed.
	FailureThreshold = 3

	probeTimeout = 10 * time.Second
)

// Prober performs periodic liveness probes against every endpoint in the pool.
// Probe failures never propagate to callers; they only mutate health state.
type Prober struct {
	pool      *Pool
	interval  time.Duration
	threshold int
	log       *slog.Logger

	mu        sync.Mutex
	lastProbe map[domain.Chain]time.Time
}

// NewProber creates a prober over the pool. interval <= 0 uses the default.
func NewProber(pool *Pool, interval time.Duration, log *slog.Logger) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Prober{
		pool:      pool,
		interval:  interval,
		threshold: FailureThreshold,
		log:       log,
		lastProbe: make(map[domain.Chain]time.Time),
	}
}

// Run probes all chains on the configured interval until ctx is canceled.
// One initial pass runs immediately so routing starts with fresh state.
func (p *Prober) Run(ctx context.Context) {
	p.probeAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probeAll(ctx)
		}
	}
}

func (p *Prober) probeAll(ctx context.Context) {
	for _, chain := range p.pool.Chains() {
		p.ProbeChain(ctx, chain)
	}
}

// ProbeChain probes every endpoint of one chain. Manual invocations are
// throttled: if the chain was probed less than half the interval ago the call
// is a no-op.
func (p *Prober) ProbeChain(ctx context.Context, chain domain.Chain) {
	p.mu.Lock()
	if time.Since(p.lastProbe[chain]) < p.interval/2 {
		p.mu.Unlock()
		return
	}
	p.lastProbe[chain] = time.Now()
	p.mu.Unlock()

	for _, ep := range p.pool.ForChain(chain) {
		p.probeOne(ctx, ep)
	}

	metrics.EndpointsHealthy.WithLabelValues(string(chain)).Set(float64(p.pool.HealthyCount(chain)))
}

func (p *Prober) probeOne(ctx context.Context, ep *Endpoint) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := ep.Probe(probeCtx); err != nil {
		count := ep.RecordFailure()
		if count >= p.threshold {
			ep.MarkUnhealthy()
			p.log.Warn("endpoint marked unhealthy",
				"chain", ep.Chain(), "endpoint", ep.Name(), "consecutive_errors", count)
		} else {
			p.log.Debug("endpoint probe failed",
				"chain", ep.Chain(), "endpoint", ep.Name(), "error", err)
		}
		return
	}

	ep.ResetErrors()
}
