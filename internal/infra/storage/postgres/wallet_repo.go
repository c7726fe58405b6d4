package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/infra/storage"
)

// WalletRepo implements storage.WalletRepository using PostgreSQL.
type WalletRepo struct {
	db *DB
}

// NewWalletRepo creates a new PostgreSQL wallet repository.
func NewWalletRepo(db *DB) *WalletRepo {
	return &WalletRepo{db: db}
}

type walletRow struct {
	UserID  int64     `db:"user_id"`
	Address string    `db:"address"`
	Label   string    `db:"label"`
	AddedAt time.Time `db:"added_at"`
}

// Save stores a monitored wallet; duplicates fail with ErrWalletExists.
func (r *WalletRepo) Save(ctx context.Context, wallet *domain.MonitoredWallet) error {
	query := `
		INSERT INTO monitored_wallets (user_id, address, label, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		wallet.UserID,
		wallet.Address,
		wallet.Label,
		wallet.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrWalletExists, wallet.Address)
	}
	return nil
}

// Delete removes a wallet by normalized address.
func (r *WalletRepo) Delete(ctx context.Context, address string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM monitored_wallets WHERE address = $1`, address)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrWalletNotFound, address)
	}
	return nil
}

// GetByAddress retrieves a wallet by normalized address.
func (r *WalletRepo) GetByAddress(ctx context.Context, address string) (*domain.MonitoredWallet, error) {
	var row walletRow
	err := r.db.GetContext(ctx, &row,
		`SELECT user_id, address, label, added_at FROM monitored_wallets WHERE address = $1`,
		address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return row.toDomain(), nil
}

// GetAll retrieves every stored wallet.
func (r *WalletRepo) GetAll(ctx context.Context) ([]*domain.MonitoredWallet, error) {
	var rows []walletRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT user_id, address, label, added_at FROM monitored_wallets ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	wallets := make([]*domain.MonitoredWallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, row.toDomain())
	}
	return wallets, nil
}

func (row walletRow) toDomain() *domain.MonitoredWallet {
	return &domain.MonitoredWallet{
		UserID:  row.UserID,
		Address: row.Address,
		Label:   row.Label,
		AddedAt: row.AddedAt,
	}
}
