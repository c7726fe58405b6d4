package endpoint

import (
	"fmt"
	"sync"

	"github.com/vietddude/relay/internal/core/domain"
)

// Pool holds the ordered endpoint sets per chain. Membership is mutable
// through administrative Add/Remove; construction requires at least one
// endpoint per configured chain so no pool is empty-by-construction.
type Pool struct {
	mu        sync.RWMutex
	endpoints map[domain.Chain][]*Endpoint
}

// NewPool builds a pool from per-chain endpoint configs.
func NewPool(chains map[domain.Chain][]Config) (*Pool, error) {
	p := &Pool{endpoints: make(map[domain.Chain][]*Endpoint)}

	for chain, configs := range chains {
		if !chain.Valid() {
			return nil, fmt.Errorf("unsupported chain %q", chain)
		}
		if len(configs) == 0 {
			return nil, fmt.Errorf("chain %s: at least one endpoint required", chain)
		}
		for _, cfg := range configs {
			ep, err := New(chain, cfg)
			if err != nil {
				return nil, fmt.Errorf("chain %s: %w", chain, err)
			}
			p.endpoints[chain] = append(p.endpoints[chain], ep)
		}
	}

	return p, nil
}

// Add registers a new endpoint for a chain.
func (p *Pool) Add(chain domain.Chain, cfg Config) error {
	if !chain.Valid() {
		return fmt.Errorf("unsupported chain %q", chain)
	}

	ep, err := New(chain, cfg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.endpoints[chain] {
		if existing.Name() == cfg.Name {
			_ = ep.Close()
			return fmt.Errorf("chain %s: endpoint %q already exists", chain, cfg.Name)
		}
	}
	p.endpoints[chain] = append(p.endpoints[chain], ep)
	return nil
}

// Remove drops an endpoint by name. The last endpoint of a chain cannot be
// removed.
func (p *Pool) Remove(chain domain.Chain, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	eps := p.endpoints[chain]
	for i, ep := range eps {
		if ep.Name() == name {
			if len(eps) == 1 {
				return fmt.Errorf("chain %s: cannot remove last endpoint", chain)
			}
			_ = ep.Close()
			p.endpoints[chain] = append(eps[:i:i], eps[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("chain %s: endpoint %q not found", chain, name)
}

// ForChain returns the endpoints of a chain. The returned slice is a copy;
// endpoint state itself is shared.
func (p *Pool) ForChain(chain domain.Chain) []*Endpoint {
	p.mu.RLock()
	defer p.mu.RUnlock()

	eps := p.endpoints[chain]
	out := make([]*Endpoint, len(eps))
	copy(out, eps)
	return out
}

// Chains returns every chain with at least one endpoint.
func (p *Pool) Chains() []domain.Chain {
	p.mu.RLock()
	defer p.mu.RUnlock()

	chains := make([]domain.Chain, 0, len(p.endpoints))
	for chain := range p.endpoints {
		chains = append(chains, chain)
	}
	return chains
}

// FailedCount returns how many endpoints of a chain are flagged failed.
func (p *Pool) FailedCount(chain domain.Chain) int {
	count := 0
	for _, ep := range p.ForChain(chain) {
		if ep.Failed() {
			count++
		}
	}
	return count
}

// HealthyCount returns how many endpoints of a chain are currently healthy.
func (p *Pool) HealthyCount(chain domain.Chain) int {
	count := 0
	for _, ep := range p.ForChain(chain) {
		if ep.Healthy() {
			count++
		}
	}
	return count
}

// ClearFailed re-admits every failed endpoint of a chain. Used by the router's
// circuit breaker on a provider-wide outage.
func (p *Pool) ClearFailed(chain domain.Chain) {
	for _, ep := range p.ForChain(chain) {
		if ep.Failed() {
			ep.ClearFailed()
		}
	}
}

// Close releases all endpoint transports.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, eps := range p.endpoints {
		for _, ep := range eps {
			_ = ep.Close()
		}
	}
}
