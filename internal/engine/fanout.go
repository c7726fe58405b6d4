package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// LegResult is the settlement of one sub-wallet leg of a multi-buy.
type LegResult struct {
	Wallet string `json:"wallet"`
	Index  int    `json:"index"`
	OK     bool   `json:"ok"`
	TxHash string `json:"tx_hash,omitempty"`
	Error  string `json:"error,omitempty"`

	tokensReceived float64
}

// fanOutBuy submits one independent buy per sub-wallet concurrently and waits
// for every leg to settle before aggregating. A failed leg never cancels its
// siblings. Returns the per-leg results in wallet order, the success count,
// and the volume and tokens from successful legs only.
func (e *Engine) fanOutBuy(ctx context.Context, userID int64, base BuyOrder, subWallets []string) ([]LegResult, int, float64, float64) {
	legs := make([]LegResult, len(subWallets))

	var wg sync.WaitGroup
	for i, wallet := range subWallets {
		wg.Add(1)
		go func(i int, wallet string) {
			defer wg.Done()

			order := base
			order.ClientOrderID = uuid.NewString()
			order.TargetWallet = wallet

			legs[i] = LegResult{Wallet: wallet, Index: i}
			result, err := e.executor.ExecuteBuy(ctx, userID, order)
			if err != nil {
				legs[i].Error = err.Error()
				return
			}
			legs[i].OK = true
			legs[i].TxHash = result.TxHash
			legs[i].tokensReceived = result.TokensReceived
		}(i, wallet)
	}
	wg.Wait()

	var successes int
	var volume, tokens float64
	for _, leg := range legs {
		if leg.OK {
			successes++
			volume += base.Amount
			tokens += leg.tokensReceived
		}
	}
	e.stats.fanoutLegs.Add(int64(len(legs)))
	return legs, successes, volume, tokens
}
