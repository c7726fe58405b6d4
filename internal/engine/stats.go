package engine

import (
	"sync"
	"sync/atomic"
)

// Stats accumulates decision-engine counters for the lifetime of the process.
// Counts are monotonic; volume and PnL are running sums.
type Stats struct {
	attempts   atomic.Int64
	executed   atomic.Int64
	failed     atomic.Int64
	rejected   atomic.Int64
	trackOnly  atomic.Int64
	fanoutLegs atomic.Int64

	mu     sync.Mutex
	volume float64
	pnl    float64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Attempts   int64   `json:"attempts"`
	Executed   int64   `json:"executed"`
	Failed     int64   `json:"failed"`
	Rejected   int64   `json:"rejected"`
	TrackOnly  int64   `json:"track_only"`
	FanoutLegs int64   `json:"fanout_legs"`
	Volume     float64 `json:"volume"`
	PnL        float64 `json:"pnl"`
}

// NewStats creates a zeroed counter set.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) addVolume(v float64) {
	s.mu.Lock()
	s.volume += v
	s.mu.Unlock()
}

func (s *Stats) addPnL(v float64) {
	s.mu.Lock()
	s.pnl += v
	s.mu.Unlock()
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	volume, pnl := s.volume, s.pnl
	s.mu.Unlock()

	return StatsSnapshot{
		Attempts:   s.attempts.Load(),
		Executed:   s.executed.Load(),
		Failed:     s.failed.Load(),
		Rejected:   s.rejected.Load(),
		TrackOnly:  s.trackOnly.Load(),
		FanoutLegs: s.fanoutLegs.Load(),
		Volume:     volume,
		PnL:        pnl,
	}
}
