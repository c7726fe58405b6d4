package rpc

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/infra/rpc/endpoint"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(map[domain.Chain][]endpoint.Config{
		domain.ChainEthereum: {
			{Name: "primary", URL: "http://primary", Priority: 1, MaxPerSecond: 100},
			{Name: "backup", URL: "http://backup", Priority: 2, MaxPerSecond: 100},
		},
	}, slog.New(slog.DiscardHandler), Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestClient_DoRoutesToPreferredEndpoint(t *testing.T) {
	client := testClient(t)

	var used string
	result, err := client.Do(context.Background(), domain.ChainEthereum, Operation{
		Name: "eth_blockNumber",
		Invoke: func(ctx context.Context, ep *endpoint.Endpoint) (any, error) {
			used = ep.Name()
			return "0x10", nil
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result != "0x10" {
		t.Errorf("result = %v", result)
	}
	if used != "primary" {
		t.Errorf("used %s, want primary", used)
	}
}

func TestClient_FailoverAcrossAttempts(t *testing.T) {
	client := testClient(t)

	var used []string
	_, err := client.Do(context.Background(), domain.ChainEthereum, Operation{
		Invoke: func(ctx context.Context, ep *endpoint.Endpoint) (any, error) {
			used = append(used, ep.Name())
			if ep.Name() == "primary" {
				// Trip the primary so the router moves on.
				ep.RecordFailure()
				ep.MarkUnhealthy()
				return nil, errors.New("http 503: unavailable")
			}
			return "ok", nil
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(used) != 2 || used[0] != "primary" || used[1] != "backup" {
		t.Errorf("used = %v, want [primary backup]", used)
	}
}

func TestClient_StatusCountsEndpoints(t *testing.T) {
	client := testClient(t)

	status := client.Status()
	if len(status) != 1 {
		t.Fatalf("status chains = %d, want 1", len(status))
	}
	st := status[0]
	if st.Chain != domain.ChainEthereum || st.Total != 2 || st.Healthy != 2 {
		t.Errorf("status = %+v", st)
	}

	if err := client.AddEndpoint(domain.ChainEthereum, endpoint.Config{
		Name: "tertiary", URL: "http://tertiary", Priority: 3, MaxPerSecond: 10,
	}); err != nil {
		t.Fatalf("AddEndpoint: %v", err)
	}
	if got := client.Status()[0].Total; got != 3 {
		t.Errorf("Total after add = %d, want 3", got)
	}

	if err := client.RemoveEndpoint(domain.ChainEthereum, "tertiary"); err != nil {
		t.Fatalf("RemoveEndpoint: %v", err)
	}
	if got := client.Status()[0].Total; got != 2 {
		t.Errorf("Total after remove = %d, want 2", got)
	}
}
