package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
)

// Position is one user's open holding in a token on a chain.
type Position struct {
	UserID   int64
	Token    string
	Chain    domain.Chain
	Tokens   float64 // tokens currently held
	Invested float64 // native currency spent acquiring the remainder
	AvgPrice float64
	OpenedAt time.Time
}

// PositionBook tracks open positions keyed by (user, chain, token).
type PositionBook struct {
	mu   sync.RWMutex
	open map[string]*Position
}

// NewPositionBook creates an empty book.
func NewPositionBook() *PositionBook {
	return &PositionBook{open: make(map[string]*Position)}
}

func positionKey(userID int64, chain domain.Chain, token string) string {
	return fmt.Sprintf("%d|%s|%s", userID, chain, domain.NormalizeAddress(token))
}

// Get returns a copy of the user's position in the token, if any.
func (b *PositionBook) Get(userID int64, chain domain.Chain, token string) (Position, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pos, ok := b.open[positionKey(userID, chain, token)]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// RecordBuy folds an executed buy into the position, averaging the entry
// price across fills.
func (b *PositionBook) RecordBuy(userID int64, chain domain.Chain, token string, tokens, spent, price float64) {
	if tokens <= 0 && spent <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := positionKey(userID, chain, token)
	pos, ok := b.open[key]
	if !ok {
		pos = &Position{
			UserID:   userID,
			Token:    domain.NormalizeAddress(token),
			Chain:    chain,
			OpenedAt: time.Now(),
		}
		b.open[key] = pos
	}

	pos.Tokens += tokens
	pos.Invested += spent
	if pos.Tokens > 0 {
		pos.AvgPrice = pos.Invested / pos.Tokens
	} else if price > 0 {
		pos.AvgPrice = price
	}
}

// RecordSell reduces the position by a percentage of the held amount and
// reports whether the position was fully closed. Selling an unknown position
// is a no-op.
func (b *PositionBook) RecordSell(userID int64, chain domain.Chain, token string, percentage float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := positionKey(userID, chain, token)
	pos, ok := b.open[key]
	if !ok {
		return false
	}

	if percentage >= 100 {
		delete(b.open, key)
		return true
	}
	frac := percentage / 100
	pos.Tokens -= pos.Tokens * frac
	pos.Invested -= pos.Invested * frac
	return false
}

// ForUser returns copies of all the user's open positions.
func (b *PositionBook) ForUser(userID int64) []Position {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Position
	for _, pos := range b.open {
		if pos.UserID == userID {
			out = append(out, *pos)
		}
	}
	return out
}

// Count returns the number of open positions across all users.
func (b *PositionBook) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.open)
}
