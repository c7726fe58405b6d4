// Package engine decides, per detected trade on a monitored wallet, whether
// and how to mirror it: gate checks, eligibility, sizing, slippage, gas, and
// multi-wallet fan-out. Execution itself is delegated to the chain-specific
// collaborator behind the TradeExecutor port.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/metrics"
	"github.com/vietddude/relay/internal/wallets"
)

// Status is the terminal state of one processed trade event.
type Status string

const (
	StatusExecuted Status = "executed"
	StatusTracked  Status = "tracked"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Rejection reasons for the gate and dispatch stages. Eligibility rejections
// carry case-specific text instead.
const (
	ReasonServiceUnavailable = "service unavailable"
	ReasonAtCapacity         = "too many trades in flight"
	ReasonNotMonitored       = "wallet not monitored"
	ReasonDisabled           = "copy trading disabled"
	ReasonDuplicate          = "duplicate trade event"
	ReasonInvalidAmount      = "buy amount must be positive"
	ReasonNoPosition         = "no open position to sell"
)

// Outcome is the structured result of processing one trade event. Rejections
// are ordinary outcomes, not errors.
type Outcome struct {
	Status Status      `json:"status"`
	Reason string      `json:"reason,omitempty"`
	TxHash string      `json:"tx_hash,omitempty"`
	Volume float64     `json:"volume,omitempty"`
	PnL    float64     `json:"pnl,omitempty"`
	Legs   []LegResult `json:"legs,omitempty"`
}

func rejected(reason string) *Outcome { return &Outcome{Status: StatusRejected, Reason: reason} }
func failed(reason string) *Outcome   { return &Outcome{Status: StatusFailed, Reason: reason} }

// Config wires the engine's collaborators. Registry, Risk, Executor, Tokens,
// and Notifier are required; Deduper and Records are optional.
type Config struct {
	Registry *wallets.Registry
	Risk     *RiskState
	Executor TradeExecutor
	Tokens   TokenInfoProvider
	Notifier Notifier
	Deduper  Deduper
	Records  RecordSink
	Log      *slog.Logger
}

// Engine is the copy-trade decision engine. One instance serves the whole
// process; Process is safe for concurrent use.
type Engine struct {
	registry  *wallets.Registry
	risk      *RiskState
	executor  TradeExecutor
	tokens    TokenInfoProvider
	notifier  Notifier
	deduper   Deduper
	records   RecordSink
	positions *PositionBook
	stats     *Stats
	log       *slog.Logger
}

// New constructs the engine. The position book and stats are owned by the
// engine; callers read them through Positions and Stats.
func New(cfg Config) (*Engine, error) {
	switch {
	case cfg.Registry == nil:
		return nil, fmt.Errorf("engine: registry is required")
	case cfg.Risk == nil:
		return nil, fmt.Errorf("engine: risk state is required")
	case cfg.Executor == nil:
		return nil, fmt.Errorf("engine: executor is required")
	case cfg.Tokens == nil:
		return nil, fmt.Errorf("engine: token info provider is required")
	case cfg.Notifier == nil:
		return nil, fmt.Errorf("engine: notifier is required")
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		registry:  cfg.Registry,
		risk:      cfg.Risk,
		executor:  cfg.Executor,
		tokens:    cfg.Tokens,
		notifier:  cfg.Notifier,
		deduper:   cfg.Deduper,
		records:   cfg.Records,
		positions: NewPositionBook(),
		stats:     NewStats(),
		log:       log.With("component", "engine"),
	}, nil
}

// Positions exposes the open-position book.
func (e *Engine) Positions() *PositionBook { return e.positions }

// Stats exposes the cumulative counters.
func (e *Engine) Stats() *Stats { return e.stats }

// Process runs the decision state machine for one detected trade event and
// returns the terminal outcome. It never panics out and never returns an
// error: faults are converted into a failed outcome, rejections into a
// rejected one. Every outcome settles stats and emits exactly one
// notification to the wallet's owner.
func (e *Engine) Process(ctx context.Context, event domain.TradeEvent) (outcome *Outcome) {
	e.stats.attempts.Add(1)

	var userID int64
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("panic while processing trade",
				"wallet", event.Wallet, "tx", event.TxHash, "panic", r)
			outcome = failed(fmt.Sprintf("internal error: %v", r))
		}
		e.settle(ctx, userID, event, outcome)
	}()

	if e.risk.EmergencyStopped() || e.risk.InMaintenance() {
		return rejected(ReasonServiceUnavailable)
	}

	entry, ok := e.registry.Lookup(event.Wallet)
	if !ok {
		return rejected(ReasonNotMonitored)
	}
	userID = entry.UserID
	entry.RecordActivity()

	if e.deduper != nil {
		first, err := e.deduper.FirstSeen(ctx, entry.Address, event.TxHash)
		if err != nil {
			// Dedupe is an optimization; a broken backend must not stop trades.
			e.log.Warn("dedupe check failed", "tx", event.TxHash, "error", err)
		} else if !first {
			return rejected(ReasonDuplicate)
		}
	}

	settings := entry.Settings()
	if !settings.Enabled {
		return rejected(ReasonDisabled)
	}

	if settings.TrackOnly {
		return &Outcome{Status: StatusTracked}
	}

	if !e.risk.TryAcquire() {
		return rejected(ReasonAtCapacity)
	}
	defer e.risk.Release()

	switch event.Side {
	case domain.SideSell:
		return e.processSell(ctx, userID, settings, event)
	default:
		return e.processBuy(ctx, userID, settings, event)
	}
}

func (e *Engine) processBuy(ctx context.Context, userID int64, settings *domain.CopySettings, event domain.TradeEvent) *Outcome {
	if e.risk.IsBlacklisted(event.Chain, event.Token) {
		return rejected("token is blacklisted")
	}

	info, err := e.tokens.TokenInfo(ctx, event.Token, event.Chain)
	if err != nil {
		if !settings.BlindFollow {
			return failed(fmt.Sprintf("market data unavailable: %v", err))
		}
		// Blind follow mirrors regardless; smart slippage just loses its
		// inputs.
		e.log.Warn("token info fetch failed, blind-following anyway",
			"token", event.Token, "chain", event.Chain, "error", err)
		info = nil
	}

	if !settings.BlindFollow {
		if reason, ok := checkEligibility(settings, info); !ok {
			return rejected(reason)
		}
	}

	amount := buyAmount(settings, event.Amount)
	if amount <= 0 {
		return rejected(ReasonInvalidAmount)
	}

	order := BuyOrder{
		Token:    event.Token,
		Chain:    event.Chain,
		Amount:   amount,
		Slippage: slippageFor(settings, info),
		GasPrice: frontrunGas(settings, event.Chain, event.GasPrice),
		Frontrun: settings.Frontrun && event.Chain.SupportsGasPriority(),
	}

	if len(settings.MultiBuyWallets) > 0 {
		legs, successes, volume, tokens := e.fanOutBuy(ctx, userID, order, settings.MultiBuyWallets)
		if successes == 0 {
			return &Outcome{Status: StatusFailed, Reason: "all buy legs failed", Legs: legs}
		}
		e.positions.RecordBuy(userID, event.Chain, event.Token, tokens, volume, 0)
		return &Outcome{Status: StatusExecuted, Volume: volume, Legs: legs}
	}

	order.ClientOrderID = uuid.NewString()
	result, err := e.executor.ExecuteBuy(ctx, userID, order)
	if err != nil {
		return failed(fmt.Sprintf("execution failed: %v", err))
	}

	e.positions.RecordBuy(userID, event.Chain, event.Token, result.TokensReceived, amount, result.ExecutedPrice)
	return &Outcome{Status: StatusExecuted, TxHash: result.TxHash, Volume: amount}
}

func (e *Engine) processSell(ctx context.Context, userID int64, settings *domain.CopySettings, event domain.TradeEvent) *Outcome {
	if _, ok := e.positions.Get(userID, event.Chain, event.Token); !ok {
		return rejected(ReasonNoPosition)
	}

	percentage := event.Percentage
	if percentage <= 0 || percentage > 100 {
		percentage = 100
	}

	result, err := e.executor.ExecuteSell(ctx, userID, SellOrder{
		ClientOrderID: uuid.NewString(),
		Token:         event.Token,
		Chain:         event.Chain,
		Percentage:    percentage,
		Slippage:      settings.Slippage,
	})
	if err != nil {
		return failed(fmt.Sprintf("execution failed: %v", err))
	}

	e.positions.RecordSell(userID, event.Chain, event.Token, percentage)
	return &Outcome{
		Status: StatusExecuted,
		TxHash: result.TxHash,
		Volume: result.NativeReceived,
		PnL:    result.PnL,
	}
}

// settle updates counters and metrics, persists the record, and notifies the
// user. Notification and persistence are best-effort.
func (e *Engine) settle(ctx context.Context, userID int64, event domain.TradeEvent, outcome *Outcome) {
	switch outcome.Status {
	case StatusExecuted:
		e.stats.executed.Add(1)
		e.stats.addVolume(outcome.Volume)
		e.stats.addPnL(outcome.PnL)
		metrics.TradeVolume.WithLabelValues(string(event.Chain)).Add(outcome.Volume)
	case StatusFailed:
		e.stats.failed.Add(1)
	case StatusRejected:
		e.stats.rejected.Add(1)
	case StatusTracked:
		e.stats.trackOnly.Add(1)
	}
	metrics.TradesTotal.WithLabelValues(string(event.Chain), string(event.Side), string(outcome.Status)).Inc()

	if e.records != nil && userID != 0 {
		record := domain.TradeRecord{
			UserID:       userID,
			SourceWallet: domain.NormalizeAddress(event.Wallet),
			SourceTxHash: event.TxHash,
			Token:        event.Token,
			Chain:        event.Chain,
			Side:         event.Side,
			Amount:       outcome.Volume,
			Status:       string(outcome.Status),
			Reason:       outcome.Reason,
			TxHash:       outcome.TxHash,
			PnL:          outcome.PnL,
			CreatedAt:    time.Now(),
		}
		if err := e.records.SaveTrade(ctx, record); err != nil {
			e.log.Warn("failed to persist trade record", "tx", event.TxHash, "error", err)
		}
	}

	if userID != 0 {
		e.notifier.TradeOutcome(ctx, userID, event, outcome)
	}
}
