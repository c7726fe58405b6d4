// Package storage defines the persistence contracts for monitored wallets
// and trade records, with PostgreSQL and in-memory implementations in the
// subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/vietddude/relay/internal/core/domain"
)

var (
	// ErrWalletExists is returned when saving a wallet whose address is
	// already registered.
	ErrWalletExists = errors.New("wallet already exists")

	// ErrWalletNotFound is returned when a wallet address has no row.
	ErrWalletNotFound = errors.New("wallet not found")
)

// WalletRepository persists monitored wallets so the registry can be rebuilt
// on startup.
type WalletRepository interface {
	// Save stores a wallet; the address must be pre-normalized.
	Save(ctx context.Context, wallet *domain.MonitoredWallet) error

	// Delete removes a wallet by normalized address.
	Delete(ctx context.Context, address string) error

	// GetByAddress retrieves a wallet by normalized address.
	GetByAddress(ctx context.Context, address string) (*domain.MonitoredWallet, error)

	// GetAll retrieves every stored wallet.
	GetAll(ctx context.Context) ([]*domain.MonitoredWallet, error)
}

// TradeRecordRepository persists terminal trade outcomes.
type TradeRecordRepository interface {
	// Save stores one trade record and fills in its generated ID.
	Save(ctx context.Context, record *domain.TradeRecord) error

	// GetByUser retrieves a user's most recent records, newest first.
	GetByUser(ctx context.Context, userID int64, limit int) ([]*domain.TradeRecord, error)

	// GetRecent retrieves the most recent records across all users.
	GetRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error)
}
