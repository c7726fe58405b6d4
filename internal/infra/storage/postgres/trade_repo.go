package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
)

// TradeRepo implements storage.TradeRecordRepository using PostgreSQL.
type TradeRepo struct {
	db *DB
}

// NewTradeRepo creates a new PostgreSQL trade record repository.
func NewTradeRepo(db *DB) *TradeRepo {
	return &TradeRepo{db: db}
}

type tradeRow struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	SourceWallet string    `db:"source_wallet"`
	SourceTxHash string    `db:"source_tx_hash"`
	Token        string    `db:"token"`
	Chain        string    `db:"chain"`
	Side         string    `db:"side"`
	Amount       float64   `db:"amount"`
	Status       string    `db:"status"`
	Reason       string    `db:"reason"`
	TxHash       string    `db:"tx_hash"`
	PnL          float64   `db:"pnl"`
	CreatedAt    time.Time `db:"created_at"`
}

// Save stores one trade record and fills in its generated ID.
func (r *TradeRepo) Save(ctx context.Context, record *domain.TradeRecord) error {
	query := `
		INSERT INTO trade_records
			(user_id, source_wallet, source_tx_hash, token, chain, side,
			 amount, status, reason, tx_hash, pnl, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		record.UserID,
		record.SourceWallet,
		record.SourceTxHash,
		record.Token,
		string(record.Chain),
		string(record.Side),
		record.Amount,
		record.Status,
		record.Reason,
		record.TxHash,
		record.PnL,
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to save trade record: %w", err)
	}
	return nil
}

const tradeColumns = `id, user_id, source_wallet, source_tx_hash, token, chain, side,
	amount, status, reason, tx_hash, pnl, created_at`

// GetByUser retrieves a user's most recent records, newest first.
func (r *TradeRepo) GetByUser(ctx context.Context, userID int64, limit int) ([]*domain.TradeRecord, error) {
	var rows []tradeRow
	query := `SELECT ` + tradeColumns + `
		FROM trade_records WHERE user_id = $1 ORDER BY id DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list user trades: %w", err)
	}
	return toDomainTrades(rows), nil
}

// GetRecent retrieves the most recent records across all users.
func (r *TradeRepo) GetRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	var rows []tradeRow
	query := `SELECT ` + tradeColumns + `
		FROM trade_records ORDER BY id DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent trades: %w", err)
	}
	return toDomainTrades(rows), nil
}

func toDomainTrades(rows []tradeRow) []*domain.TradeRecord {
	out := make([]*domain.TradeRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.TradeRecord{
			ID:           row.ID,
			UserID:       row.UserID,
			SourceWallet: row.SourceWallet,
			SourceTxHash: row.SourceTxHash,
			Token:        row.Token,
			Chain:        domain.Chain(row.Chain),
			Side:         domain.Side(row.Side),
			Amount:       row.Amount,
			Status:       row.Status,
			Reason:       row.Reason,
			TxHash:       row.TxHash,
			PnL:          row.PnL,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out
}
