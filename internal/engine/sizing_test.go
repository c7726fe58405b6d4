package engine

import (
	"testing"

	"github.com/vietddude/relay/internal/core/domain"
)

func TestSlippageFor(t *testing.T) {
	tests := []struct {
		name string
		base float64
		on   bool
		info *domain.TokenInfo
		want float64
	}{
		{
			name: "smart off uses base unmodified",
			base: 5, on: false,
			info: &domain.TokenInfo{BuyTax: fptr(8), Liquidity: fptr(20_000)},
			want: 5,
		},
		{
			name: "tax plus thin pool bump",
			base: 5, on: true,
			info: &domain.TokenInfo{BuyTax: fptr(8), Liquidity: fptr(20_000)},
			want: 18,
		},
		{
			name: "deep pool skips the bump",
			base: 5, on: true,
			info: &domain.TokenInfo{BuyTax: fptr(8), Liquidity: fptr(80_000)},
			want: 13,
		},
		{
			name: "capped at 50",
			base: 40, on: true,
			info: &domain.TokenInfo{BuyTax: fptr(30), Liquidity: fptr(1_000)},
			want: 50,
		},
		{
			name: "no market data keeps base",
			base: 5, on: true,
			info: nil,
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			s.Slippage = tt.base
			s.SmartSlippage = tt.on
			if got := slippageFor(&s, tt.info); got != tt.want {
				t.Errorf("slippageFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuyAmount(t *testing.T) {
	tests := []struct {
		name   string
		mode   domain.BuyAmountMode
		amount float64
		max    float64
		source float64
		want   float64
	}{
		{"fixed under cap", domain.BuyAmountFixed, 0.3, 1, 10, 0.3},
		{"fixed capped", domain.BuyAmountFixed, 2, 1, 10, 1},
		{"percent of source", domain.BuyAmountPercent, 10, 5, 8, 0.8},
		{"percent capped", domain.BuyAmountPercent, 50, 1, 10, 1},
		{"zero fixed is invalid", domain.BuyAmountFixed, 0, 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			s.BuyAmountMode = tt.mode
			s.BuyAmount = tt.amount
			s.MaxBuyAmount = tt.max
			if got := buyAmount(&s, tt.source); got != tt.want {
				t.Errorf("buyAmount = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrontrunGas(t *testing.T) {
	tests := []struct {
		name      string
		frontrun  bool
		mode      domain.GasMode
		delta     float64
		fixed     float64
		chain     domain.Chain
		sourceGas float64
		want      float64
	}{
		{"off returns zero", false, domain.GasAuto, 0, 0, domain.ChainEthereum, 30, 0},
		{"auto bumps source", true, domain.GasAuto, 0, 0, domain.ChainEthereum, 30, 35},
		{"delta adds configured", true, domain.GasDelta, 12, 0, domain.ChainBSC, 30, 42},
		{"fixed ignores source", true, domain.GasFixed, 0, 99, domain.ChainEthereum, 30, 99},
		{"no gas auction chain", true, domain.GasAuto, 0, 0, domain.ChainSolana, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			s.Frontrun = tt.frontrun
			s.GasMode = tt.mode
			s.GasDelta = tt.delta
			s.GasFixed = tt.fixed
			if got := frontrunGas(&s, tt.chain, tt.sourceGas); got != tt.want {
				t.Errorf("frontrunGas = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckEligibility_SkipsUnknownFields(t *testing.T) {
	s := domain.DefaultSettings()
	s.CheckHoneypot = true

	// A provider that knows nothing beyond the address yields no grounds for
	// rejection.
	reason, ok := checkEligibility(&s, &domain.TokenInfo{Address: "0xabc"})
	if !ok {
		t.Errorf("rejected with %q, want eligible", reason)
	}

	if _, ok := checkEligibility(&s, nil); ok {
		t.Error("nil token info must reject")
	}
}
