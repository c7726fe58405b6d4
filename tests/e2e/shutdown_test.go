package e2e

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/vietddude/relay/internal/control"
	"github.com/vietddude/relay/internal/core/config"
	"github.com/vietddude/relay/internal/core/domain"
)

func TestGracefulShutdown(t *testing.T) {
	// Memory storage, stub endpoints: enough to start every component
	// without external services.
	cfg := &config.AppConfig{
		Server: config.ServerConfig{Port: 0},
		Engine: config.EngineConfig{
			MaxConcurrentTrades: 5,
			RPCMaxAttempts:      3,
			ProbeInterval:       time.Hour,
		},
		Chains: []config.ChainConfig{
			{
				Chain: domain.ChainEthereum,
				Endpoints: []config.EndpointConfig{
					{Name: "stub", URL: "http://localhost:8545", Priority: 1, MaxPerSecond: 100, Transport: "http"},
				},
			},
		},
	}

	relay, err := control.NewRelay(cfg, control.Collaborators{}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Failed to create relay: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := relay.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Let the background components spin up.
	time.Sleep(500 * time.Millisecond)

	// Trades can still be processed while running.
	if err := relay.FollowWallet(ctx, 1, "0xwallet", ""); err != nil {
		t.Fatalf("FollowWallet: %v", err)
	}
	outcome := relay.Process(ctx, domain.TradeEvent{
		Wallet: "0xwallet",
		Token:  "0xtok",
		Chain:  domain.ChainEthereum,
		Side:   domain.SideBuy,
		Amount: 1,
		TxHash: "0xevt",
	})
	if outcome == nil {
		t.Fatal("Process returned nil outcome")
	}

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := relay.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
