package domain

// GasMode selects how a frontrun gas price is derived from the source trade.
type GasMode string

const (
	GasAuto  GasMode = "auto"  // source gas price + fixed bump
	GasDelta GasMode = "delta" // source gas price + configured delta
	GasFixed GasMode = "fixed" // configured absolute gas price
)

// BuyAmountMode selects how the mirrored buy amount is computed.
type BuyAmountMode string

const (
	BuyAmountFixed   BuyAmountMode = "fixed"   // constant native amount
	BuyAmountPercent BuyAmountMode = "percent" // percentage of the source amount
)

// CopySettings is one user's copy-trading configuration. A value is immutable
// once handed to the engine: updates build a new snapshot via Apply and swap
// it in atomically, so in-flight decisions observe either the old or the new
// snapshot but never a torn mix of fields.
type CopySettings struct {
	Version int

	Enabled     bool
	BlindFollow bool
	Frontrun    bool
	TrackOnly   bool

	Slippage      float64
	SmartSlippage bool

	MultiBuyWallets []string

	GasMode  GasMode
	GasDelta float64
	GasFixed float64

	MinMarketCap  float64
	MaxMarketCap  float64
	MinLiquidity  float64
	MaxBuyTax     float64
	MaxSellTax    float64
	CheckHoneypot bool

	BuyAmountMode BuyAmountMode
	BuyAmount     float64
	MaxBuyAmount  float64

	StopLossPercent   float64
	TakeProfitPercent float64
}

// DefaultSettings returns the baseline configuration new users start from.
func DefaultSettings() CopySettings {
	return CopySettings{
		Version:       1,
		Enabled:       true,
		Slippage:      10,
		GasMode:       GasAuto,
		MinMarketCap:  10_000,
		MaxMarketCap:  100_000_000,
		MinLiquidity:  5_000,
		MaxBuyTax:     10,
		MaxSellTax:    10,
		CheckHoneypot: true,
		BuyAmountMode: BuyAmountFixed,
		BuyAmount:     0.1,
		MaxBuyAmount:  1,
	}
}

// SettingsPatch is a partial update. Nil fields keep the current value, so a
// patch behaves like a shallow merge over the existing snapshot.
type SettingsPatch struct {
	Enabled     *bool
	BlindFollow *bool
	Frontrun    *bool
	TrackOnly   *bool

	Slippage      *float64
	SmartSlippage *bool

	MultiBuyWallets *[]string

	GasMode  *GasMode
	GasDelta *float64
	GasFixed *float64

	MinMarketCap  *float64
	MaxMarketCap  *float64
	MinLiquidity  *float64
	MaxBuyTax     *float64
	MaxSellTax    *float64
	CheckHoneypot *bool

	BuyAmountMode *BuyAmountMode
	BuyAmount     *float64
	MaxBuyAmount  *float64

	StopLossPercent   *float64
	TakeProfitPercent *float64
}

// Apply merges the patch over s and returns the next immutable snapshot with
// an incremented version. The receiver is not modified.
func (s CopySettings) Apply(p SettingsPatch) CopySettings {
	next := s
	next.Version = s.Version + 1

	if p.Enabled != nil {
		next.Enabled = *p.Enabled
	}
	if p.BlindFollow != nil {
		next.BlindFollow = *p.BlindFollow
	}
	if p.Frontrun != nil {
		next.Frontrun = *p.Frontrun
	}
	if p.TrackOnly != nil {
		next.TrackOnly = *p.TrackOnly
	}
	if p.Slippage != nil {
		next.Slippage = *p.Slippage
	}
	if p.SmartSlippage != nil {
		next.SmartSlippage = *p.SmartSlippage
	}
	if p.MultiBuyWallets != nil {
		wallets := make([]string, len(*p.MultiBuyWallets))
		copy(wallets, *p.MultiBuyWallets)
		next.MultiBuyWallets = wallets
	}
	if p.GasMode != nil {
		next.GasMode = *p.GasMode
	}
	if p.GasDelta != nil {
		next.GasDelta = *p.GasDelta
	}
	if p.GasFixed != nil {
		next.GasFixed = *p.GasFixed
	}
	if p.MinMarketCap != nil {
		next.MinMarketCap = *p.MinMarketCap
	}
	if p.MaxMarketCap != nil {
		next.MaxMarketCap = *p.MaxMarketCap
	}
	if p.MinLiquidity != nil {
		next.MinLiquidity = *p.MinLiquidity
	}
	if p.MaxBuyTax != nil {
		next.MaxBuyTax = *p.MaxBuyTax
	}
	if p.MaxSellTax != nil {
		next.MaxSellTax = *p.MaxSellTax
	}
	if p.CheckHoneypot != nil {
		next.CheckHoneypot = *p.CheckHoneypot
	}
	if p.BuyAmountMode != nil {
		next.BuyAmountMode = *p.BuyAmountMode
	}
	if p.BuyAmount != nil {
		next.BuyAmount = *p.BuyAmount
	}
	if p.MaxBuyAmount != nil {
		next.MaxBuyAmount = *p.MaxBuyAmount
	}
	if p.StopLossPercent != nil {
		next.StopLossPercent = *p.StopLossPercent
	}
	if p.TakeProfitPercent != nil {
		next.TakeProfitPercent = *p.TakeProfitPercent
	}

	return next
}
