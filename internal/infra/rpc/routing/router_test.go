package routing

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/infra/rpc/endpoint"
	"github.com/vietddude/relay/internal/infra/rpc/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testPool(t *testing.T, chain domain.Chain, configs ...endpoint.Config) *endpoint.Pool {
	t.Helper()
	pool, err := endpoint.NewPool(map[domain.Chain][]endpoint.Config{chain: configs})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	return pool
}

func TestRouter_PrefersLowerPriority(t *testing.T) {
	pool := testPool(t, domain.ChainEthereum,
		endpoint.Config{Name: "backup", URL: "http://backup", Priority: 2, MaxPerSecond: 100},
		endpoint.Config{Name: "primary", URL: "http://primary", Priority: 1, MaxPerSecond: 100},
	)
	router := NewRouter(pool, ratelimit.NewLimiter(), discardLogger())

	ep, err := router.Select(domain.ChainEthereum)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if ep.Name() != "primary" {
		t.Errorf("selected %s, want primary", ep.Name())
	}
}

func TestRouter_BreaksTiesByRequestCount(t *testing.T) {
	pool := testPool(t, domain.ChainEthereum,
		endpoint.Config{Name: "a", URL: "http://a", Priority: 1, MaxPerSecond: 100},
		endpoint.Config{Name: "b", URL: "http://b", Priority: 1, MaxPerSecond: 100},
	)
	router := NewRouter(pool, ratelimit.NewLimiter(), discardLogger())

	// Selection bumps the winner's request count, so equal-priority endpoints
	// should alternate.
	seen := map[string]int{}
	for i := 0; i < 4; i++ {
		ep, err := router.Select(domain.ChainEthereum)
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		seen[ep.Name()]++
	}
	if seen["a"] != 2 || seen["b"] != 2 {
		t.Errorf("selections = %v, want 2 each", seen)
	}
}

func TestRouter_SkipsUnhealthyEndpoints(t *testing.T) {
	pool := testPool(t, domain.ChainEthereum,
		endpoint.Config{Name: "primary", URL: "http://primary", Priority: 1, MaxPerSecond: 100},
		endpoint.Config{Name: "backup", URL: "http://backup", Priority: 2, MaxPerSecond: 100},
	)
	router := NewRouter(pool, ratelimit.NewLimiter(), discardLogger())

	pool.ForChain(domain.ChainEthereum)[0].MarkUnhealthy()

	ep, err := router.Select(domain.ChainEthereum)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if ep.Name() != "backup" {
		t.Errorf("selected %s, want backup", ep.Name())
	}
}

func TestRouter_CircuitBreakerResetsOnce(t *testing.T) {
	pool := testPool(t, domain.ChainEthereum,
		endpoint.Config{Name: "a", URL: "http://a", Priority: 1, MaxPerSecond: 100},
		endpoint.Config{Name: "b", URL: "http://b", Priority: 2, MaxPerSecond: 100},
	)
	router := NewRouter(pool, ratelimit.NewLimiter(), discardLogger())

	for _, ep := range pool.ForChain(domain.ChainEthereum) {
		ep.MarkUnhealthy()
	}

	// All endpoints failed: the breaker clears the failed set and selection
	// succeeds on the second pass within the same call.
	ep, err := router.Select(domain.ChainEthereum)
	if err != nil {
		t.Fatalf("Select after total failure: %v", err)
	}
	if ep.Name() != "a" {
		t.Errorf("selected %s, want a", ep.Name())
	}
	if pool.FailedCount(domain.ChainEthereum) != 0 {
		t.Error("failed set should be cleared")
	}
}

func TestRouter_RateLimitedPoolFails(t *testing.T) {
	pool := testPool(t, domain.ChainEthereum,
		endpoint.Config{Name: "a", URL: "http://a", Priority: 1, MaxPerSecond: 10},
	)
	router := NewRouter(pool, ratelimit.NewLimiter(), discardLogger())

	// Ceiling is 8 of 10; the endpoint stays healthy so the breaker must not
	// fire and selection fails with NoHealthyEndpoint.
	for i := 0; i < 8; i++ {
		if _, err := router.Select(domain.ChainEthereum); err != nil {
			t.Fatalf("Select %d: %v", i, err)
		}
	}

	_, err := router.Select(domain.ChainEthereum)
	if !errors.Is(err, ErrNoHealthyEndpoint) {
		t.Errorf("err = %v, want ErrNoHealthyEndpoint", err)
	}
}

func TestRouter_UnknownChainFails(t *testing.T) {
	pool := testPool(t, domain.ChainEthereum,
		endpoint.Config{Name: "a", URL: "http://a", Priority: 1, MaxPerSecond: 10},
	)
	router := NewRouter(pool, ratelimit.NewLimiter(), discardLogger())

	_, err := router.Select(domain.ChainSolana)
	if !errors.Is(err, ErrNoHealthyEndpoint) {
		t.Errorf("err = %v, want ErrNoHealthyEndpoint", err)
	}
}
