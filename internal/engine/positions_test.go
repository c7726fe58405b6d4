package engine

import (
	"testing"

	"github.com/vietddude/relay/internal/core/domain"
)

func TestPositionBook_BuyAveragesEntry(t *testing.T) {
	book := NewPositionBook()

	book.RecordBuy(1, domain.ChainBase, "0xTok", 1000, 1, 0.001)
	book.RecordBuy(1, domain.ChainBase, "0xTOK", 1000, 3, 0.003)

	pos, ok := book.Get(1, domain.ChainBase, "0xtok")
	if !ok {
		t.Fatal("position missing")
	}
	if pos.Tokens != 2000 || pos.Invested != 4 {
		t.Errorf("pos = %+v", pos)
	}
	if pos.AvgPrice != 0.002 {
		t.Errorf("avg price = %v, want 0.002", pos.AvgPrice)
	}
}

func TestPositionBook_PartialThenFullSell(t *testing.T) {
	book := NewPositionBook()
	book.RecordBuy(1, domain.ChainBSC, "0xtok", 1000, 2, 0.002)

	if closed := book.RecordSell(1, domain.ChainBSC, "0xtok", 50); closed {
		t.Error("50% sell must not close the position")
	}
	pos, _ := book.Get(1, domain.ChainBSC, "0xtok")
	if pos.Tokens != 500 || pos.Invested != 1 {
		t.Errorf("pos after partial sell = %+v", pos)
	}

	if closed := book.RecordSell(1, domain.ChainBSC, "0xtok", 100); !closed {
		t.Error("100% sell must close the position")
	}
	if book.Count() != 0 {
		t.Errorf("count = %d, want 0", book.Count())
	}
}

func TestPositionBook_UsersAreIsolated(t *testing.T) {
	book := NewPositionBook()
	book.RecordBuy(1, domain.ChainEthereum, "0xtok", 100, 1, 0.01)
	book.RecordBuy(2, domain.ChainEthereum, "0xtok", 100, 1, 0.01)

	if _, ok := book.Get(3, domain.ChainEthereum, "0xtok"); ok {
		t.Error("user 3 should hold nothing")
	}
	if got := len(book.ForUser(1)); got != 1 {
		t.Errorf("ForUser(1) = %d, want 1", got)
	}
}

func TestRiskState_Slots(t *testing.T) {
	risk := NewRiskState(2)

	if !risk.TryAcquire() || !risk.TryAcquire() {
		t.Fatal("first two acquisitions should succeed")
	}
	if risk.TryAcquire() {
		t.Error("third acquisition should fail at the ceiling")
	}
	if risk.InFlight() != 2 {
		t.Errorf("in flight = %d, want 2", risk.InFlight())
	}

	risk.Release()
	if !risk.TryAcquire() {
		t.Error("release should free a slot")
	}
}

func TestRiskState_Blacklist(t *testing.T) {
	risk := NewRiskState(1)
	risk.BlacklistToken(domain.ChainEthereum, "0xBAD")

	if !risk.IsBlacklisted(domain.ChainEthereum, "0xbad") {
		t.Error("blacklist lookup should be case-insensitive")
	}
	if risk.IsBlacklisted(domain.ChainBSC, "0xbad") {
		t.Error("blacklist is per chain")
	}

	risk.UnblacklistToken(domain.ChainEthereum, "0xbad")
	if risk.IsBlacklisted(domain.ChainEthereum, "0xbad") {
		t.Error("token should be cleared")
	}
}
