package domain

import (
	"strings"
	"time"
)

// MonitoredWallet is one wallet a user follows. Address is stored in its
// normalized (lower-cased) form, which is also the registry lookup key.
type MonitoredWallet struct {
	UserID  int64
	Address string
	Label   string
	AddedAt time.Time
}

// NormalizeAddress canonicalizes a wallet address for use as a lookup key.
// All registry and persistence lookups go through this.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
