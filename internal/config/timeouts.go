// Package config provides centralized timeout constants for the application.
//
// These values are tuned for the store REST backend and the dialogue
// manager's action-execution call:
//   - Rasa waits a bounded time for an action server response before giving
//     up on the turn, so action processing must stay well under that.
//   - The store backend is a small Express/Mongo API; healthy responses are
//     sub-second, and anything past a few seconds is effectively down.
package config

import "time"

// Action execution timeouts
const (
	// ActionProcessing is the timeout for executing a single action, covering
	// every backend fetch the handler performs plus aggregation.
	ActionProcessing = 10 * time.Second

	// ActionHTTPRead is the HTTP server read timeout for webhook requests.
	// The dialogue manager sends small JSON payloads.
	ActionHTTPRead = 10 * time.Second

	// ActionHTTPWrite is the HTTP server write timeout.
	// Should accommodate ActionProcessing + response serialization.
	ActionHTTPWrite = 15 * time.Second

	// ActionHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	ActionHTTPIdle = 120 * time.Second
)

// Backend timeouts
const (
	// BackendRequest is the timeout for a single HTTP request to the store
	// backend. There are no retries, so a hung call blocks the whole action:
	// keep this short enough that the failure reply still reaches the user.
	BackendRequest = 5 * time.Second
)
