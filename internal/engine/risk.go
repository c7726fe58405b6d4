package engine

import (
	"sync"
	"sync/atomic"

	"github.com/vietddude/relay/internal/core/domain"
)

// RiskState is the process-wide safety switchboard: emergency stop,
// maintenance mode, token blacklist, trusted wallets, and the ceiling on
// concurrently executing trades. Mutated only administratively, read by every
// trade decision.
type RiskState struct {
	emergencyStop atomic.Bool
	maintenance   atomic.Bool

	mu        sync.RWMutex
	blacklist map[string]struct{}
	trusted   map[string]struct{}

	slots chan struct{}
}

// NewRiskState creates a risk state allowing up to maxConcurrent trades in
// flight. maxConcurrent <= 0 falls back to a sane default.
func NewRiskState(maxConcurrent int) *RiskState {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return &RiskState{
		blacklist: make(map[string]struct{}),
		trusted:   make(map[string]struct{}),
		slots:     make(chan struct{}, maxConcurrent),
	}
}

// SetEmergencyStop flips the kill switch. While set, every trade is rejected
// at the gate.
func (r *RiskState) SetEmergencyStop(on bool) { r.emergencyStop.Store(on) }

// EmergencyStopped reports whether the kill switch is set.
func (r *RiskState) EmergencyStopped() bool { return r.emergencyStop.Load() }

// SetMaintenance toggles maintenance mode, which rejects trades like the
// emergency stop but signals a planned pause rather than an incident.
func (r *RiskState) SetMaintenance(on bool) { r.maintenance.Store(on) }

// InMaintenance reports whether maintenance mode is active.
func (r *RiskState) InMaintenance() bool { return r.maintenance.Load() }

func blacklistKey(chain domain.Chain, token string) string {
	return string(chain) + ":" + domain.NormalizeAddress(token)
}

// BlacklistToken blocks a token on one chain from ever being bought.
func (r *RiskState) BlacklistToken(chain domain.Chain, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blacklist[blacklistKey(chain, token)] = struct{}{}
}

// UnblacklistToken removes a token from the blacklist.
func (r *RiskState) UnblacklistToken(chain domain.Chain, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blacklist, blacklistKey(chain, token))
}

// IsBlacklisted reports whether the token is blocked on the chain.
func (r *RiskState) IsBlacklisted(chain domain.Chain, token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.blacklist[blacklistKey(chain, token)]
	return ok
}

// TrustWallet marks a source wallet as trusted.
func (r *RiskState) TrustWallet(address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trusted[domain.NormalizeAddress(address)] = struct{}{}
}

// IsTrusted reports whether a source wallet is on the trusted list.
func (r *RiskState) IsTrusted(address string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.trusted[domain.NormalizeAddress(address)]
	return ok
}

// TryAcquire claims one execution slot without blocking. Callers must Release
// the slot when the trade settles.
func (r *RiskState) TryAcquire() bool {
	select {
	case r.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns a slot claimed by TryAcquire.
func (r *RiskState) Release() {
	select {
	case <-r.slots:
	default:
	}
}

// InFlight returns the number of currently held execution slots.
func (r *RiskState) InFlight() int { return len(r.slots) }
