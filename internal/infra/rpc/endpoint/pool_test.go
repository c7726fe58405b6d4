package endpoint

import (
	"testing"

	"github.com/vietddude/relay/internal/core/domain"
)

func TestNewPool_RequiresEndpoints(t *testing.T) {
	_, err := NewPool(map[domain.Chain][]Config{
		domain.ChainEthereum: {},
	})
	if err == nil {
		t.Error("expected error for chain with no endpoints")
	}

	_, err = NewPool(map[domain.Chain][]Config{
		"dogechain": {{Name: "a", URL: "http://a", MaxPerSecond: 10}},
	})
	if err == nil {
		t.Error("expected error for unsupported chain")
	}
}

func TestPool_AddRejectsDuplicateName(t *testing.T) {
	pool, err := NewPool(map[domain.Chain][]Config{
		domain.ChainEthereum: {{Name: "alchemy", URL: "http://a", MaxPerSecond: 10}},
	})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	err = pool.Add(domain.ChainEthereum, Config{Name: "alchemy", URL: "http://b", MaxPerSecond: 10})
	if err == nil {
		t.Error("expected duplicate endpoint name to be rejected")
	}
	if got := len(pool.ForChain(domain.ChainEthereum)); got != 1 {
		t.Errorf("endpoint count = %d, want 1", got)
	}
}

func TestPool_RemoveKeepsLastEndpoint(t *testing.T) {
	pool, err := NewPool(map[domain.Chain][]Config{
		domain.ChainBSC: {
			{Name: "a", URL: "http://a", MaxPerSecond: 10},
			{Name: "b", URL: "http://b", MaxPerSecond: 10},
		},
	})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	if err := pool.Remove(domain.ChainBSC, "a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := pool.Remove(domain.ChainBSC, "b"); err == nil {
		t.Error("removing the last endpoint should fail")
	}
	if err := pool.Remove(domain.ChainBSC, "missing"); err == nil {
		t.Error("removing an unknown endpoint should fail")
	}
}

func TestPool_FailedCountsAndClear(t *testing.T) {
	a := newTestEndpoint(domain.ChainEthereum, "a", 1, 10, &fakeTransport{})
	b := newTestEndpoint(domain.ChainEthereum, "b", 2, 10, &fakeTransport{})
	pool := newTestPool(a, b)

	a.MarkUnhealthy()
	b.MarkUnhealthy()

	if got := pool.FailedCount(domain.ChainEthereum); got != 2 {
		t.Errorf("FailedCount = %d, want 2", got)
	}
	if got := pool.HealthyCount(domain.ChainEthereum); got != 0 {
		t.Errorf("HealthyCount = %d, want 0", got)
	}

	pool.ClearFailed(domain.ChainEthereum)

	if got := pool.FailedCount(domain.ChainEthereum); got != 0 {
		t.Errorf("FailedCount after clear = %d, want 0", got)
	}
	if got := pool.HealthyCount(domain.ChainEthereum); got != 2 {
		t.Errorf("HealthyCount after clear = %d, want 2", got)
	}
}
