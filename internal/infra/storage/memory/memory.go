// Package memory provides in-memory storage implementations, used when the
// relay runs without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/infra/storage"
)

type MemoryStorage struct {
	wallets map[string]*domain.MonitoredWallet
	trades  []*domain.TradeRecord
	nextID  int64
	mu      sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		wallets: make(map[string]*domain.MonitoredWallet),
		nextID:  1,
	}
}

// -----------------------------------------------------------------------------
// Wallet Repository
// -----------------------------------------------------------------------------

type WalletRepo struct {
	store *MemoryStorage
}

func NewWalletRepo(store *MemoryStorage) *WalletRepo {
	return &WalletRepo{store: store}
}

func (r *WalletRepo) Save(ctx context.Context, wallet *domain.MonitoredWallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.wallets[wallet.Address]; ok {
		return fmt.Errorf("%w: %s", storage.ErrWalletExists, wallet.Address)
	}
	copied := *wallet
	r.store.wallets[wallet.Address] = &copied
	return nil
}

func (r *WalletRepo) Delete(ctx context.Context, address string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.wallets[address]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrWalletNotFound, address)
	}
	delete(r.store.wallets, address)
	return nil
}

func (r *WalletRepo) GetByAddress(ctx context.Context, address string) (*domain.MonitoredWallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wallet, ok := r.store.wallets[address]
	if !ok {
		return nil, nil
	}
	copied := *wallet
	return &copied, nil
}

func (r *WalletRepo) GetAll(ctx context.Context) ([]*domain.MonitoredWallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.MonitoredWallet, 0, len(r.store.wallets))
	for _, wallet := range r.store.wallets {
		copied := *wallet
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

// -----------------------------------------------------------------------------
// Trade Record Repository
// -----------------------------------------------------------------------------

type TradeRepo struct {
	store *MemoryStorage
}

func NewTradeRepo(store *MemoryStorage) *TradeRepo {
	return &TradeRepo{store: store}
}

func (r *TradeRepo) Save(ctx context.Context, record *domain.TradeRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record.ID = r.store.nextID
	r.store.nextID++

	copied := *record
	r.store.trades = append(r.store.trades, &copied)
	return nil
}

func (r *TradeRepo) GetByUser(ctx context.Context, userID int64, limit int) ([]*domain.TradeRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.TradeRecord
	for i := len(r.store.trades) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.trades[i].UserID == userID {
			copied := *r.store.trades[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *TradeRepo) GetRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.TradeRecord
	for i := len(r.store.trades) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *r.store.trades[i]
		out = append(out, &copied)
	}
	return out, nil
}
