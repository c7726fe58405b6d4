// Package routing handles endpoint selection, failover, and retry logic.
//
// This package contains:
//   - Router: health- and budget-aware endpoint selection with a circuit breaker
//   - Executor: bounded retries with error classification and backoff
package routing

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/infra/rpc/endpoint"
	"github.com/vietddude/relay/internal/infra/rpc/ratelimit"
	"github.com/vietddude/relay/internal/metrics"
)

// ErrNoHealthyEndpoint means every endpoint of a chain is down or over budget.
var ErrNoHealthyEndpoint = errors.New("no healthy endpoint")

// Router selects the best live endpoint for a chain per request.
type Router struct {
	pool    *endpoint.Pool
	limiter *ratelimit.Limiter
	log     *slog.Logger
}

// NewRouter creates a router over the pool and limiter.
func NewRouter(pool *endpoint.Pool, limiter *ratelimit.Limiter, log *slog.Logger) *Router {
	return &Router{pool: pool, limiter: limiter, log: log}
}

// Select returns the preferred live endpoint for a chain.
//
// Survivors of the health/failed/budget filter are ordered by priority
// ascending, then cumulative request count ascending. When nothing survives
// and every endpoint of the chain is flagged failed, the failed set is cleared
// once and selection retried; a provider-wide blip should not lock the chain
// out permanently, even if that means briefly trusting endpoints that may
// still be bad.
func (r *Router) Select(chain domain.Chain) (*endpoint.Endpoint, error) {
	eps := r.pool.ForChain(chain)
	if len(eps) == 0 {
		return nil, fmt.Errorf("%w: chain %s has no endpoints", ErrNoHealthyEndpoint, chain)
	}

	chosen := r.pick(eps)
	if chosen == nil && r.pool.FailedCount(chain) >= len(eps) {
		r.log.Warn("all endpoints failed, resetting circuit breaker", "chain", chain)
		metrics.CircuitBreakerResets.WithLabelValues(string(chain)).Inc()
		r.pool.ClearFailed(chain)
		chosen = r.pick(eps)
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: chain %s", ErrNoHealthyEndpoint, chain)
	}

	chosen.MarkUsed()
	r.limiter.Consume(chosen.Key())
	return chosen, nil
}

func (r *Router) pick(eps []*endpoint.Endpoint) *endpoint.Endpoint {
	var survivors []*endpoint.Endpoint
	for _, ep := range eps {
		if !ep.Healthy() || ep.Failed() {
			continue
		}
		if !r.limiter.Allow(ep.Key(), ep.MaxPerSecond()) {
			continue
		}
		survivors = append(survivors, ep)
	}
	if len(survivors) == 0 {
		return nil
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].Priority() != survivors[j].Priority() {
			return survivors[i].Priority() < survivors[j].Priority()
		}
		return survivors[i].Requests() < survivors[j].Requests()
	})
	return survivors[0]
}
