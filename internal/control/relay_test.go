package control

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/relay/internal/core/config"
	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/engine"
	"github.com/vietddude/relay/internal/infra/storage/memory"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
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
					{Name: "primary", URL: "http://primary", Priority: 1, MaxPerSecond: 100, Transport: "http"},
				},
			},
		},
	}
}

func newTestRelay(t *testing.T) *Relay {
	t.Helper()
	relay, err := NewRelay(testConfig(), Collaborators{}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewRelay: %v", err)
	}
	return relay
}

func TestRelay_FollowAndProcess(t *testing.T) {
	relay := newTestRelay(t)
	ctx := context.Background()

	if err := relay.FollowWallet(ctx, 1, "0xWhale", "whale"); err != nil {
		t.Fatalf("FollowWallet: %v", err)
	}
	if err := relay.FollowWallet(ctx, 2, "0xWHALE", "dup"); err == nil {
		t.Error("re-following the same address should fail")
	}

	// Without a market-data collaborator only blind follow can execute.
	blind := true
	if n, _ := relay.UpdateSettings(1, domain.SettingsPatch{BlindFollow: &blind}); n != 1 {
		t.Fatalf("UpdateSettings touched %d wallets, want 1", n)
	}

	outcome := relay.Process(ctx, domain.TradeEvent{
		Wallet: "0xwhale",
		Token:  "0xtok",
		Chain:  domain.ChainEthereum,
		Side:   domain.SideBuy,
		Amount: 1,
		TxHash: "0xsrc1",
	})
	if outcome.Status != engine.StatusExecuted {
		t.Fatalf("outcome = %+v, want executed via paper executor", outcome)
	}
	if !strings.HasPrefix(outcome.TxHash, "paper-") {
		t.Errorf("tx hash = %q, want paper executor hash", outcome.TxHash)
	}

	// The outcome is persisted for the status surface.
	records, err := relay.Trades().GetByUser(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(records) != 1 || records[0].Status != string(engine.StatusExecuted) {
		t.Errorf("records = %+v", records)
	}
}

func TestRecordSinkPersistsTrades(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTradeRepo(memory.NewMemoryStorage())
	var sink engine.RecordSink = recordSink{repo: repo}

	err := sink.SaveTrade(ctx, domain.TradeRecord{
		UserID:       7,
		SourceWallet: "0xwhale",
		SourceTxHash: "0xsrc",
		Token:        "0xtok",
		Chain:        domain.ChainEthereum,
		Side:         domain.SideBuy,
		Amount:       0.5,
		Status:       string(engine.StatusExecuted),
	})
	if err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}

	records, err := repo.GetByUser(ctx, 7, 10)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ID == 0 {
		t.Error("record ID was not assigned")
	}
	if records[0].Status != string(engine.StatusExecuted) {
		t.Errorf("status = %q", records[0].Status)
	}
}

func TestRelay_UnfollowStopsMirroring(t *testing.T) {
	relay := newTestRelay(t)
	ctx := context.Background()

	if err := relay.FollowWallet(ctx, 1, "0xabc", ""); err != nil {
		t.Fatalf("FollowWallet: %v", err)
	}
	if err := relay.UnfollowWallet(ctx, "0xABC"); err != nil {
		t.Fatalf("UnfollowWallet: %v", err)
	}

	outcome := relay.Process(ctx, domain.TradeEvent{
		Wallet: "0xabc",
		Token:  "0xtok",
		Chain:  domain.ChainEthereum,
		Side:   domain.SideBuy,
		Amount: 1,
	})
	if outcome.Status != engine.StatusRejected || outcome.Reason != engine.ReasonNotMonitored {
		t.Errorf("outcome = %+v, want NotMonitored", outcome)
	}
}

func TestRelay_StartStop(t *testing.T) {
	relay := newTestRelay(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := relay.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := relay.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
