package domain

import "time"

// TradeRecord is the persisted outcome of one processed trade event.
type TradeRecord struct {
	ID           int64
	UserID       int64
	SourceWallet string
	SourceTxHash string
	Token        string
	Chain        Chain
	Side         Side
	Amount       float64
	Status       string
	Reason       string
	TxHash       string
	PnL          float64
	CreatedAt    time.Time
}
