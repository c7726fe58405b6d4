// Package wallets holds the in-memory registry of monitored wallets.
package wallets

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vietddude/relay/internal/core/domain"
)

var (
	// ErrAlreadyMonitored is returned when re-adding a wallet whose normalized
	// address is already registered. The existing entry is left untouched.
	ErrAlreadyMonitored = errors.New("wallet already monitored")

	// ErrNotMonitored is returned when the address has no registry entry.
	ErrNotMonitored = errors.New("wallet not monitored")
)

// Entry is one monitored wallet with its owner's settings snapshot. The
// snapshot pointer is swapped atomically on updates so concurrent readers see
// either the old or the new settings, never a mix.
type Entry struct {
	UserID  int64
	Address string // normalized
	Label   string
	AddedAt time.Time

	settings     atomic.Pointer[domain.CopySettings]
	lastActivity atomic.Int64 // unix nano
	trades       atomic.Int64
}

// Settings returns the current immutable settings snapshot.
func (e *Entry) Settings() *domain.CopySettings {
	return e.settings.Load()
}

// RecordActivity stamps the last-seen trade time and bumps the counter.
func (e *Entry) RecordActivity() {
	e.lastActivity.Store(time.Now().UnixNano())
	e.trades.Add(1)
}

// LastActivity returns the time of the last detected trade, zero if none.
func (e *Entry) LastActivity() time.Time {
	ns := e.lastActivity.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Trades returns how many trade events this wallet has produced.
func (e *Entry) Trades() int64 {
	return e.trades.Load()
}

// Registry indexes monitored wallets by normalized address and by owner.
type Registry struct {
	mu        sync.RWMutex
	byAddress map[string]*Entry
	byUser    map[int64][]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byAddress: make(map[string]*Entry),
		byUser:    make(map[int64][]*Entry),
	}
}

// Add registers a wallet for a user with an initial settings snapshot.
// Uniqueness is enforced on the normalized address: re-adding an existing
// address fails with ErrAlreadyMonitored and never merges or overwrites.
func (r *Registry) Add(userID int64, address, label string, settings domain.CopySettings) (*Entry, error) {
	key := domain.NormalizeAddress(address)
	if key == "" {
		return nil, fmt.Errorf("empty wallet address")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAddress[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyMonitored, key)
	}

	entry := &Entry{
		UserID:  userID,
		Address: key,
		Label:   label,
		AddedAt: time.Now(),
	}
	entry.settings.Store(&settings)

	r.byAddress[key] = entry
	r.byUser[userID] = append(r.byUser[userID], entry)
	return entry, nil
}

// Remove un-registers a wallet by address.
func (r *Registry) Remove(address string) error {
	key := domain.NormalizeAddress(address)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byAddress[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotMonitored, key)
	}
	delete(r.byAddress, key)

	owned := r.byUser[entry.UserID]
	for i, e := range owned {
		if e == entry {
			r.byUser[entry.UserID] = append(owned[:i:i], owned[i+1:]...)
			break
		}
	}
	if len(r.byUser[entry.UserID]) == 0 {
		delete(r.byUser, entry.UserID)
	}
	return nil
}

// Lookup resolves a wallet by address, case-insensitively.
func (r *Registry) Lookup(address string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.byAddress[domain.NormalizeAddress(address)]
	return entry, ok
}

// ForUser returns the user's monitored wallets.
func (r *Registry) ForUser(userID int64) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owned := r.byUser[userID]
	out := make([]*Entry, len(owned))
	copy(out, owned)
	return out
}

// Count returns the number of monitored wallets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byAddress)
}

// UpdateSettings applies a patch on top of the user's current settings and
// propagates the new snapshot to every wallet the user owns. The swap is
// atomic per entry; returns the number of entries updated and the resulting
// snapshot (zero value if the user owns nothing).
func (r *Registry) UpdateSettings(userID int64, patch domain.SettingsPatch) (int, domain.CopySettings) {
	r.mu.RLock()
	owned := make([]*Entry, len(r.byUser[userID]))
	copy(owned, r.byUser[userID])
	r.mu.RUnlock()

	if len(owned) == 0 {
		return 0, domain.CopySettings{}
	}

	next := owned[0].Settings().Apply(patch)
	for _, entry := range owned {
		snapshot := next
		entry.settings.Store(&snapshot)
	}
	return len(owned), next
}
