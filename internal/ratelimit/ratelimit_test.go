package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()
	l := New(10, 5)
	if l.maxTokens != 10 {
		t.Errorf("maxTokens = %v, want 10", l.maxTokens)
	}
	if l.refillRate != 5 {
		t.Errorf("refillRate = %v, want 5", l.refillRate)
	}
	if l.tokens != 10 {
		t.Errorf("initial tokens = %v, want 10", l.tokens)
	}
}

func TestAllow(t *testing.T) {
	t.Parallel()

	t.Run("allows when tokens available", func(t *testing.T) {
		t.Parallel()
		l := New(5, 1)
		for i := 0; i < 5; i++ {
			if !l.Allow() {
				t.Errorf("Allow() = false on attempt %d, want true", i+1)
			}
		}
	})

	t.Run("denies when no tokens", func(t *testing.T) {
		t.Parallel()
		l := New(2, 0) // No refill
		l.Allow()
		l.Allow()
		if l.Allow() {
			t.Error("Allow() = true when no tokens, want false")
		}
	})

	t.Run("refills over time", func(t *testing.T) {
		t.Parallel()
		l := New(1, 100) // Fast refill for testing
		l.Allow()

		time.Sleep(20 * time.Millisecond)

		if !l.Allow() {
			t.Error("Allow() = false after refill time, want true")
		}
	})
}

func TestAvailable(t *testing.T) {
	t.Parallel()
	l := New(3, 0)
	l.Allow()

	if got := l.Available(); got != 2 {
		t.Errorf("Available() = %v, want 2", got)
	}
}

func TestAllowConcurrent(t *testing.T) {
	t.Parallel()
	l := New(50, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("allowed %d requests, want exactly 50", allowed)
	}
}
