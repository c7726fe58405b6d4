// Package endpoint models one node connection per chain and the pool of them.
//
// This package contains:
//   - Endpoint: a single RPC node with mutable health state
//   - Pool: the per-chain ordered endpoint sets
//   - Prober: periodic liveness probing that feeds health state
package endpoint

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
)

// Transport selects the wire protocol an endpoint speaks.
type Transport string

const (
	TransportHTTP Transport = "http"
	TransportGRPC Transport = "grpc"
)

// Config describes one endpoint as supplied at startup or by an admin call.
type Config struct {
	Name         string
	URL          string
	Priority     int // lower = preferred
	MaxPerSecond int
	Transport    Transport
}

// transport is the wire-level client behind an Endpoint.
type transport interface {
	Call(ctx context.Context, method string, params []any) (any, error)
	Probe(ctx context.Context, method string) error
	Close() error
}

// Endpoint is one node connection for one chain. Identity fields are fixed at
// construction; health fields are mutated by the Prober and the Router under
// the endpoint's own lock.
type Endpoint struct {
	name         string
	url          string
	chain        domain.Chain
	priority     int
	maxPerSecond int
	kind         Transport
	client       transport

	mu                sync.Mutex
	healthy           bool
	failed            bool
	consecutiveErrors int
	lastUsed          time.Time
	requests          uint64
}

// Status is a read-only snapshot of an endpoint for the status surface.
type Status struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Priority int    `json:"priority"`
	Healthy  bool   `json:"healthy"`
	Failed   bool   `json:"failed"`
	Requests uint64 `json:"requests"`
}

// New creates an endpoint with its transport client. Endpoints start healthy;
// the first probe cycle corrects that if the node is down.
func New(chain domain.Chain, cfg Config) (*Endpoint, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("endpoint %q: url required", cfg.Name)
	}
	if cfg.MaxPerSecond <= 0 {
		return nil, fmt.Errorf("endpoint %q: max_per_second must be positive", cfg.Name)
	}

	kind := cfg.Transport
	if kind == "" {
		kind = TransportHTTP
	}

	var client transport
	var err error
	switch kind {
	case TransportHTTP:
		client = newHTTPTransport(cfg.URL, 30*time.Second)
	case TransportGRPC:
		client, err = newGRPCTransport(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", cfg.Name, err)
		}
	default:
		return nil, fmt.Errorf("endpoint %q: unknown transport %q", cfg.Name, kind)
	}

	return &Endpoint{
		name:         cfg.Name,
		url:          cfg.URL,
		chain:        chain,
		priority:     cfg.Priority,
		maxPerSecond: cfg.MaxPerSecond,
		kind:         kind,
		client:       client,
		healthy:      true,
	}, nil
}

func (e *Endpoint) Name() string         { return e.name }
func (e *Endpoint) URL() string          { return e.url }
func (e *Endpoint) Chain() domain.Chain  { return e.chain }
func (e *Endpoint) Priority() int        { return e.priority }
func (e *Endpoint) MaxPerSecond() int    { return e.maxPerSecond }
func (e *Endpoint) Transport() Transport { return e.kind }

// Key uniquely identifies the endpoint across chains, used by the rate limiter.
func (e *Endpoint) Key() string {
	return string(e.chain) + ":" + e.name
}

// Healthy reports whether the endpoint passed its last probe or call.
func (e *Endpoint) Healthy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.healthy
}

// Failed reports whether the endpoint tripped the consecutive-error threshold.
func (e *Endpoint) Failed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failed
}

// Requests returns the cumulative request count.
func (e *Endpoint) Requests() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requests
}

// MarkUsed stamps the last-used time and bumps the request counter. Called by
// the router on every successful selection.
func (e *Endpoint) MarkUsed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = time.Now()
	e.requests++
}

// RecordFailure increments the consecutive-error count and returns it.
func (e *Endpoint) RecordFailure() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.consecutiveErrors++
	return e.consecutiveErrors
}

// MarkUnhealthy flags the endpoint as down and records it as failed, removing
// it from routing until a probe succeeds or the circuit breaker resets it.
func (e *Endpoint) MarkUnhealthy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.healthy = false
	e.failed = true
}

// ResetErrors clears error state and marks the endpoint healthy again.
func (e *Endpoint) ResetErrors() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.consecutiveErrors = 0
	e.healthy = true
	e.failed = false
}

// ClearFailed drops only the failed flag. The circuit breaker uses this to
// re-admit endpoints without claiming they are known-healthy.
func (e *Endpoint) ClearFailed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed = false
	e.healthy = true
}

// Call executes one RPC method against this endpoint.
func (e *Endpoint) Call(ctx context.Context, method string, params []any) (any, error) {
	return e.client.Call(ctx, method, params)
}

// Probe performs the chain's lightweight liveness call.
func (e *Endpoint) Probe(ctx context.Context) error {
	return e.client.Probe(ctx, e.chain.HeadProbeMethod())
}

// Close releases the transport resources.
func (e *Endpoint) Close() error {
	return e.client.Close()
}

// Status returns a snapshot for health reporting.
func (e *Endpoint) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Name:     e.name,
		URL:      e.url,
		Priority: e.priority,
		Healthy:  e.healthy,
		Failed:   e.failed,
		Requests: e.requests,
	}
}
