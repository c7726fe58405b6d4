package engine

import (
	"context"

	"github.com/vietddude/relay/internal/core/domain"
)

// BuyOrder is one mirrored buy to submit through the execution collaborator.
type BuyOrder struct {
	ClientOrderID string
	Token         string
	Chain         domain.Chain
	Amount        float64 // native-currency amount to spend
	Slippage      float64 // percent
	GasPrice      float64 // gwei, 0 lets the executor pick
	Frontrun      bool
	TargetWallet  string // "" = the user's primary wallet
}

// BuyResult is the execution collaborator's report for a submitted buy.
type BuyResult struct {
	TxHash         string
	ExecutedPrice  float64
	TokensReceived float64
}

// SellOrder is one mirrored sell to submit through the execution collaborator.
type SellOrder struct {
	ClientOrderID string
	Token         string
	Chain         domain.Chain
	Percentage    float64 // percent of the held position to sell
	Slippage      float64
}

// SellResult is the execution collaborator's report for a submitted sell.
type SellResult struct {
	TxHash         string
	ExecutedPrice  float64
	NativeReceived float64
	PnL            float64
	PnLPercent     float64
}

// TradeExecutor is the chain-specific execution collaborator. The engine
// submits exactly one call per logical order; it never retries executions.
type TradeExecutor interface {
	ExecuteBuy(ctx context.Context, userID int64, order BuyOrder) (*BuyResult, error)
	ExecuteSell(ctx context.Context, userID int64, order SellOrder) (*SellResult, error)
}

// TokenInfoProvider is the market-data collaborator. A nil result with a nil
// error means the provider has no data for the token.
type TokenInfoProvider interface {
	TokenInfo(ctx context.Context, token string, chain domain.Chain) (*domain.TokenInfo, error)
}

// Notifier delivers the per-trade outcome to the user. Delivery is
// best-effort: implementations log failures and never return them here.
type Notifier interface {
	TradeOutcome(ctx context.Context, userID int64, event domain.TradeEvent, outcome *Outcome)
}

// Deduper answers whether a (wallet, tx-hash) pair is being seen for the
// first time, so re-delivered monitor events are not mirrored twice.
type Deduper interface {
	FirstSeen(ctx context.Context, wallet, txHash string) (bool, error)
}

// RecordSink persists terminal trade outcomes for later inspection.
type RecordSink interface {
	SaveTrade(ctx context.Context, record domain.TradeRecord) error
}
