// Package notify formats trade outcomes and delivers them through the
// chat-bot collaborator. Delivery is best-effort: a failed send is logged and
// dropped, never surfaced back into trade processing.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/engine"
	"github.com/vietddude/relay/internal/metrics"
)

// Messenger is the chat-bot collaborator's send surface.
type Messenger interface {
	SendMessage(ctx context.Context, userID int64, text string) error
}

const sendTimeout = 5 * time.Second

// Notifier implements engine.Notifier over a Messenger.
type Notifier struct {
	messenger Messenger
	log       *slog.Logger
}

// New creates a notifier. A nil messenger yields a log-only notifier.
func New(messenger Messenger, log *slog.Logger) *Notifier {
	return &Notifier{messenger: messenger, log: log.With("component", "notify")}
}

// TradeOutcome formats and sends the outcome of one processed trade event.
func (n *Notifier) TradeOutcome(ctx context.Context, userID int64, event domain.TradeEvent, outcome *engine.Outcome) {
	text := formatOutcome(event, outcome)
	if n.messenger == nil {
		n.log.Info("trade outcome", "user", userID, "status", outcome.Status, "text", text)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := n.messenger.SendMessage(sendCtx, userID, text); err != nil {
		metrics.NotificationFailures.Inc()
		n.log.Warn("notification delivery failed",
			"user", userID, "status", outcome.Status, "error", err)
	}
}

func formatOutcome(event domain.TradeEvent, outcome *engine.Outcome) string {
	var b strings.Builder

	switch outcome.Status {
	case engine.StatusTracked:
		fmt.Fprintf(&b, "👀 %s %s of %s on %s by %s",
			strings.ToUpper(string(event.Side)), amountText(event),
			shortAddr(event.Token), event.Chain.DisplayName(), shortAddr(event.Wallet))
	case engine.StatusExecuted:
		fmt.Fprintf(&b, "✅ Copied %s of %s on %s",
			strings.ToUpper(string(event.Side)), shortAddr(event.Token), event.Chain.DisplayName())
		if outcome.TxHash != "" {
			fmt.Fprintf(&b, "\nTx: %s", outcome.TxHash)
		}
		if outcome.Volume > 0 {
			fmt.Fprintf(&b, "\nAmount: %.6f", outcome.Volume)
		}
		if event.Side == domain.SideSell {
			fmt.Fprintf(&b, "\nPnL: %+.6f", outcome.PnL)
		}
		if len(outcome.Legs) > 0 {
			fmt.Fprintf(&b, "\nWallets: %s", legSummary(outcome.Legs))
		}
	case engine.StatusRejected:
		fmt.Fprintf(&b, "⏭ Skipped %s of %s: %s",
			strings.ToUpper(string(event.Side)), shortAddr(event.Token), outcome.Reason)
	case engine.StatusFailed:
		fmt.Fprintf(&b, "❌ Failed to copy %s of %s: %s",
			strings.ToUpper(string(event.Side)), shortAddr(event.Token), outcome.Reason)
	}

	return b.String()
}

func legSummary(legs []engine.LegResult) string {
	parts := make([]string, 0, len(legs))
	for _, leg := range legs {
		if leg.OK {
			parts = append(parts, leg.Wallet+" ✓")
		} else {
			parts = append(parts, leg.Wallet+" ✗")
		}
	}
	return strings.Join(parts, ", ")
}

func amountText(event domain.TradeEvent) string {
	if event.Side == domain.SideSell && event.Percentage > 0 {
		return fmt.Sprintf("%.0f%%", event.Percentage)
	}
	if event.Amount > 0 {
		return fmt.Sprintf("%.6f", event.Amount)
	}
	return "unknown size"
}

func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
