package engine

import (
	"github.com/vietddude/relay/internal/core/domain"
)

const (
	// Smart slippage widens the base tolerance by the token's buy tax and a
	// flat bump for thin pools, capped so a pathological token can't push the
	// tolerance to "accept anything".
	smartSlippageCap      = 50.0
	lowLiquidityThreshold = 50_000.0
	lowLiquidityBump      = 5.0

	// Gas bump over the source trade when frontrunning in auto mode.
	defaultGasBump = 5.0
)

// buyAmount computes the native amount to spend mirroring a buy, per the
// user's sizing policy, capped at MaxBuyAmount. A non-positive result means
// the trade cannot be sized and must be rejected.
func buyAmount(s *domain.CopySettings, sourceAmount float64) float64 {
	var amount float64
	switch s.BuyAmountMode {
	case domain.BuyAmountPercent:
		amount = sourceAmount * s.BuyAmount / 100
	default:
		amount = s.BuyAmount
	}
	if s.MaxBuyAmount > 0 && amount > s.MaxBuyAmount {
		amount = s.MaxBuyAmount
	}
	return amount
}

// slippageFor returns the slippage tolerance for a buy. With smart slippage
// off this is the base value unmodified; with it on, the base is widened by
// the token's buy tax and by lowLiquidityBump when the pool is thin, capped
// at smartSlippageCap.
func slippageFor(s *domain.CopySettings, info *domain.TokenInfo) float64 {
	if !s.SmartSlippage {
		return s.Slippage
	}

	slippage := s.Slippage
	if info != nil {
		if info.BuyTax != nil {
			slippage += *info.BuyTax
		}
		if info.Liquidity != nil && *info.Liquidity < lowLiquidityThreshold {
			slippage += lowLiquidityBump
		}
	}
	if slippage > smartSlippageCap {
		slippage = smartSlippageCap
	}
	return slippage
}

// frontrunGas derives the gas price for a frontrun buy from the source
// trade's gas price and the user's gas policy. Returns 0 (executor default)
// when frontrunning is off or the chain has no gas-priority auction.
func frontrunGas(s *domain.CopySettings, chain domain.Chain, sourceGas float64) float64 {
	if !s.Frontrun || !chain.SupportsGasPriority() {
		return 0
	}

	switch s.GasMode {
	case domain.GasFixed:
		return s.GasFixed
	case domain.GasDelta:
		return sourceGas + s.GasDelta
	default:
		return sourceGas + defaultGasBump
	}
}
