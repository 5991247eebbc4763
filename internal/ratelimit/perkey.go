package ratelimit

import (
	"sync"
	"time"
)

// PerKeyConfig configures a PerKeyLimiter.
type PerKeyConfig struct {
	MaxTokens     float64       // Burst capacity per key
	RefillRate    float64       // Tokens refilled per second
	CleanupPeriod time.Duration // How often idle entries are dropped
}

// PerKeyLimiter tracks rate limits per key (the conversation sender id).
// Each key gets its own token bucket; buckets back at full capacity are
// dropped by a background cleanup loop.
type PerKeyLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	config   PerKeyConfig
	onDrop   func() // Optional callback when a request is dropped
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPerKeyLimiter creates a per-key rate limiter. Call Stop when done to
// release the cleanup goroutine.
func NewPerKeyLimiter(cfg PerKeyConfig) *PerKeyLimiter {
	pkl := &PerKeyLimiter{
		limiters: make(map[string]*Limiter),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}

	go pkl.cleanupLoop()

	return pkl
}

// OnDrop sets a callback invoked when a request is rejected.
func (pkl *PerKeyLimiter) OnDrop(fn func()) {
	pkl.onDrop = fn
}

// Allow reports whether a request for the given key is allowed, consuming a
// token when it is. An empty key is never limited.
func (pkl *PerKeyLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	pkl.mu.RLock()
	limiter, exists := pkl.limiters[key]
	pkl.mu.RUnlock()

	if !exists {
		pkl.mu.Lock()
		// Double-check after acquiring write lock
		limiter, exists = pkl.limiters[key]
		if !exists {
			limiter = New(pkl.config.MaxTokens, pkl.config.RefillRate)
			pkl.limiters[key] = limiter
		}
		pkl.mu.Unlock()
	}

	allowed := limiter.Allow()
	if !allowed && pkl.onDrop != nil {
		pkl.onDrop()
	}
	return allowed
}

// ActiveCount returns the number of tracked keys.
func (pkl *PerKeyLimiter) ActiveCount() int {
	pkl.mu.RLock()
	defer pkl.mu.RUnlock()
	return len(pkl.limiters)
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (pkl *PerKeyLimiter) Stop() {
	pkl.stopOnce.Do(func() {
		close(pkl.stopCh)
	})
}

func (pkl *PerKeyLimiter) cleanupLoop() {
	period := pkl.config.CleanupPeriod
	if period <= 0 {
		period = 5 * time.Minute
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pkl.cleanup()
		case <-pkl.stopCh:
			return
		}
	}
}

// cleanup drops entries whose buckets are back at full capacity; a sender
// that went quiet has the same limit as a new one.
func (pkl *PerKeyLimiter) cleanup() {
	pkl.mu.Lock()
	defer pkl.mu.Unlock()

	for key, limiter := range pkl.limiters {
		if limiter.full() {
			delete(pkl.limiters, key)
		}
	}
}
