package domain

// TokenInfo is the market-data collaborator's view of a token. Optional fields
// are pointers; nil means the provider could not determine the value and the
// corresponding eligibility check is skipped.
type TokenInfo struct {
	Address    string
	Chain      Chain
	MarketCap  *float64
	Liquidity  *float64
	BuyTax     *float64
	SellTax    *float64
	Price      *float64
	IsHoneypot bool
}
