package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
)

const dedupeTTL = 24 * time.Hour

// Deduper marks (wallet, tx-hash) pairs as seen with a TTL, so re-delivered
// monitor events are mirrored at most once even across restarts.
type Deduper struct {
	rdb *Client
}

// NewDeduper creates a Redis-backed deduper.
func NewDeduper(client *Client) *Deduper {
	return &Deduper{rdb: client}
}

func dedupeKey(wallet, txHash string) string {
	return fmt.Sprintf("seen_trade:%s:%s", domain.NormalizeAddress(wallet), txHash)
}

// FirstSeen reports whether the pair is new. SETNX makes the check atomic:
// exactly one caller wins for a given pair inside the TTL.
func (d *Deduper) FirstSeen(ctx context.Context, wallet, txHash string) (bool, error) {
	ok, err := d.rdb.rdb.SetNX(ctx, dedupeKey(wallet, txHash), 1, dedupeTTL).Result()
	if err != nil {
		return false, fmt.Errorf("setnx failed: %w", err)
	}
	return ok, nil
}

// MemoryDeduper is the in-process fallback when Redis is not configured.
// Entries are never evicted; acceptable for single-node development runs.
type MemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryDeduper creates an empty in-process deduper.
func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{seen: make(map[string]struct{})}
}

// FirstSeen reports whether the pair is new.
func (d *MemoryDeduper) FirstSeen(_ context.Context, wallet, txHash string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := dedupeKey(wallet, txHash)
	if _, ok := d.seen[key]; ok {
		return false, nil
	}
	d.seen[key] = struct{}{}
	return true, nil
}
