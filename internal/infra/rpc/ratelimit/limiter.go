// Package ratelimit enforces per-endpoint request budgets.
//
// The limiter is an approximate token bucket with 1-second granularity and a
// conservative safety margin rather than smooth rate shaping; upstream
// providers' limits are themselves approximate, so this is good enough.
package ratelimit

import (
	"sync"
	"time"
)

// safetyMargin keeps admissions at 80% of an endpoint's advertised ceiling.
const safetyMargin = 0.8

// Window is the fixed budget interval.
const Window = time.Second

type window struct {
	count int
	start time.Time
}

// Limiter tracks one request budget window per endpoint key.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewLimiter creates an empty limiter.
func NewLimiter() *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// ceiling is floor(maxPerSecond * 0.8).
func ceiling(maxPerSecond int) int {
	return int(float64(maxPerSecond) * safetyMargin)
}

// Allow reports whether the endpoint has budget left in the current window
// without consuming a slot. An elapsed window is reset, and that reset always
// grants admission.
func (l *Limiter) Allow(key string, maxPerSecond int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		return true
	}
	if l.now().Sub(w.start) >= Window {
		w.start = l.now()
		w.count = 0
		return true
	}
	return w.count < ceiling(maxPerSecond)
}

// Consume records one admitted request against the endpoint's window.
func (l *Limiter) Consume(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		l.windows[key] = &window{count: 1, start: l.now()}
		return
	}
	if l.now().Sub(w.start) >= Window {
		w.start = l.now()
		w.count = 1
		return
	}
	w.count++
}

// Admit combines Allow and Consume: grants a slot when the endpoint is under
// budget and counts it.
func (l *Limiter) Admit(key string, maxPerSecond int) bool {
	if !l.Allow(key, maxPerSecond) {
		return false
	}
	l.Consume(key)
	return true
}
