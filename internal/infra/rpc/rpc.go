// Package rpc provides a resilient multi-chain RPC client.
//
// This package offers robust RPC connectivity with:
//   - Redundant endpoints per chain with priority ordering
//   - Health-aware routing with circuit-breaking failover
//   - Per-endpoint rate budgets with a conservative safety margin
//   - Bounded retries distinguishing retryable from fatal failures
//
// # Quick Start
//
//	client, err := rpc.NewClient(map[domain.Chain][]endpoint.Config{
//	    domain.ChainEthereum: {
//	        {Name: "alchemy", URL: alchemyURL, Priority: 1, MaxPerSecond: 25},
//	        {Name: "infura", URL: infuraURL, Priority: 2, MaxPerSecond: 10},
//	    },
//	}, logger)
//
//	result, err := client.Call(ctx, domain.ChainEthereum, "eth_blockNumber", nil)
//
// # Package Structure
//
//   - endpoint/  - Endpoint, Pool, and the liveness Prober
//   - ratelimit/ - per-endpoint request budget windows
//   - routing/   - selection, circuit breaker, retry executor
package rpc

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/infra/rpc/endpoint"
	"github.com/vietddude/relay/internal/infra/rpc/ratelimit"
	"github.com/vietddude/relay/internal/infra/rpc/routing"
)

// Re-exported sentinels so callers don't need the routing subpackage.
var (
	ErrNoHealthyEndpoint = routing.ErrNoHealthyEndpoint
	ErrRPCExhausted      = routing.ErrRPCExhausted
)

// Operation is re-exported for callers building custom chain operations.
type Operation = routing.Operation

// Client is the high-level interface for making chain calls. Construction
// order inside the client is pool, limiter, router, prober, executor; the
// application builds exactly one Client and injects it where needed.
type Client struct {
	pool     *endpoint.Pool
	limiter  *ratelimit.Limiter
	router   *routing.Router
	prober   *endpoint.Prober
	executor *routing.Executor
	log      *slog.Logger
}

// Options tune client construction. Zero values use defaults.
type Options struct {
	ProbeInterval time.Duration
	MaxAttempts   int
}

// NewClient builds the full RPC stack from per-chain endpoint configs.
func NewClient(chains map[domain.Chain][]endpoint.Config, log *slog.Logger, opts Options) (*Client, error) {
	pool, err := endpoint.NewPool(chains)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewLimiter()
	router := routing.NewRouter(pool, limiter, log)

	return &Client{
		pool:     pool,
		limiter:  limiter,
		router:   router,
		prober:   endpoint.NewProber(pool, opts.ProbeInterval, log),
		executor: routing.NewExecutor(router, opts.MaxAttempts, log),
		log:      log,
	}, nil
}

// Run starts the background health prober until ctx is canceled.
func (c *Client) Run(ctx context.Context) {
	c.prober.Run(ctx)
}

// Call makes one JSON-RPC call with routing and retry.
func (c *Client) Call(ctx context.Context, chain domain.Chain, method string, params []any) (any, error) {
	return c.executor.Do(ctx, chain, routing.Operation{Name: method, Params: params})
}

// Do runs an arbitrary operation with routing and retry.
func (c *Client) Do(ctx context.Context, chain domain.Chain, op Operation) (any, error) {
	return c.executor.Do(ctx, chain, op)
}

// AddEndpoint registers a new endpoint on the live pool.
func (c *Client) AddEndpoint(chain domain.Chain, cfg endpoint.Config) error {
	return c.pool.Add(chain, cfg)
}

// RemoveEndpoint drops an endpoint from the live pool.
func (c *Client) RemoveEndpoint(chain domain.Chain, name string) error {
	return c.pool.Remove(chain, name)
}

// ProbeChain triggers a manual probe cycle for one chain. Subject to the
// prober's minimum re-probe spacing.
func (c *Client) ProbeChain(ctx context.Context, chain domain.Chain) {
	c.prober.ProbeChain(ctx, chain)
}

// ChainStatus is the read-only routing snapshot for one chain.
type ChainStatus struct {
	Chain     domain.Chain      `json:"chain"`
	Total     int               `json:"total"`
	Healthy   int               `json:"healthy"`
	Endpoints []endpoint.Status `json:"endpoints"`
}

// Status reports per-chain endpoint counts and per-endpoint state, sorted by
// chain for stable output.
func (c *Client) Status() []ChainStatus {
	chains := c.pool.Chains()
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })

	out := make([]ChainStatus, 0, len(chains))
	for _, chain := range chains {
		eps := c.pool.ForChain(chain)
		st := ChainStatus{Chain: chain, Total: len(eps)}
		for _, ep := range eps {
			s := ep.Status()
			if s.Healthy {
				st.Healthy++
			}
			st.Endpoints = append(st.Endpoints, s)
		}
		out = append(out, st)
	}
	return out
}

// Close releases all endpoint transports.
func (c *Client) Close() {
	c.pool.Close()
}
