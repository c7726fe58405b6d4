package engine

import (
	"fmt"

	"github.com/vietddude/relay/internal/core/domain"
)

// checkEligibility applies the user's safety thresholds to the token's market
// data. It returns ok=false with a human-readable reason on the first failed
// check. Fields the provider could not determine are skipped rather than
// treated as failures.
func checkEligibility(s *domain.CopySettings, info *domain.TokenInfo) (string, bool) {
	if info == nil {
		return "no market data available for token", false
	}

	if info.MarketCap != nil {
		mc := *info.MarketCap
		if s.MinMarketCap > 0 && mc < s.MinMarketCap {
			return fmt.Sprintf("market cap $%.0f below minimum $%.0f", mc, s.MinMarketCap), false
		}
		if s.MaxMarketCap > 0 && mc > s.MaxMarketCap {
			return fmt.Sprintf("market cap $%.0f above maximum $%.0f", mc, s.MaxMarketCap), false
		}
	}

	if info.Liquidity != nil && s.MinLiquidity > 0 && *info.Liquidity < s.MinLiquidity {
		return fmt.Sprintf("liquidity $%.0f below minimum $%.0f", *info.Liquidity, s.MinLiquidity), false
	}

	if info.BuyTax != nil && s.MaxBuyTax > 0 && *info.BuyTax > s.MaxBuyTax {
		return fmt.Sprintf("buy tax %.1f%% exceeds limit %.1f%%", *info.BuyTax, s.MaxBuyTax), false
	}
	if info.SellTax != nil && s.MaxSellTax > 0 && *info.SellTax > s.MaxSellTax {
		return fmt.Sprintf("sell tax %.1f%% exceeds limit %.1f%%", *info.SellTax, s.MaxSellTax), false
	}

	if s.CheckHoneypot && info.IsHoneypot {
		return "token flagged as honeypot", false
	}

	return "", true
}
