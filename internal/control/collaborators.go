package control

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/engine"
	"github.com/vietddude/relay/internal/infra/storage"
)

var _ engine.RecordSink = recordSink{}

// recordSink adapts the trade record repository to the engine's sink port.
type recordSink struct {
	repo storage.TradeRecordRepository
}

func (s recordSink) SaveTrade(ctx context.Context, record domain.TradeRecord) error {
	return s.repo.Save(ctx, &record)
}

// PaperExecutor implements engine.TradeExecutor without touching any chain:
// orders are logged and filled with synthetic results. Used when no real
// execution collaborator is wired in.
type PaperExecutor struct {
	log *slog.Logger
}

// NewPaperExecutor creates a paper trading executor.
func NewPaperExecutor(log *slog.Logger) *PaperExecutor {
	return &PaperExecutor{log: log.With("component", "paper-executor")}
}

func (p *PaperExecutor) ExecuteBuy(_ context.Context, userID int64, order engine.BuyOrder) (*engine.BuyResult, error) {
	txHash := "paper-" + uuid.NewString()
	p.log.Info("Paper buy",
		"user", userID, "token", order.Token, "chain", order.Chain,
		"amount", order.Amount, "slippage", order.Slippage, "wallet", order.TargetWallet)
	return &engine.BuyResult{
		TxHash:         txHash,
		ExecutedPrice:  1,
		TokensReceived: order.Amount,
	}, nil
}

func (p *PaperExecutor) ExecuteSell(_ context.Context, userID int64, order engine.SellOrder) (*engine.SellResult, error) {
	txHash := "paper-" + uuid.NewString()
	p.log.Info("Paper sell",
		"user", userID, "token", order.Token, "chain", order.Chain,
		"percentage", order.Percentage)
	return &engine.SellResult{
		TxHash: txHash,
	}, nil
}

// noTokenData is the market-data stand-in when no provider is configured. It
// reports every token as unknown, so only blind-follow and track-only flows
// can proceed.
type noTokenData struct{}

func (noTokenData) TokenInfo(context.Context, string, domain.Chain) (*domain.TokenInfo, error) {
	return nil, nil
}
