package domain

// Side is the direction of a detected trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradeEvent is one detected trade on a monitored wallet, as delivered by the
// wallet-monitor collaborator. Events are ephemeral: each is consumed exactly
// once by the decision engine and never persisted as-is.
type TradeEvent struct {
	Wallet     string
	Token      string
	Chain      Chain
	Side       Side
	Amount     float64 // native-currency amount the source spent or received
	Percentage float64 // for sells: fraction of the source position, 0 = unknown
	GasPrice   float64 // source gas price in gwei, 0 on chains without it
	TxHash     string
}
