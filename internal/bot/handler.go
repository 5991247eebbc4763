// Package bot provides the handler interface and registry for action modules.
// Each module (orders, customers, products, sales) implements the Handler
// interface to execute the actions the dialogue manager requests.
package bot

import (
	"context"
	"strings"
)

// Reply is a single text message sent back to the dialogue manager.
type Reply struct {
	Text string
}

// TextReply wraps a rendered message in a Reply slice, the common case for
// handlers that answer with exactly one message.
func TextReply(text string) []Reply {
	return []Reply{{Text: text}}
}

// Slots holds the slot values the dialogue manager extracted from user input.
// Values may be absent or empty; handlers must validate before use.
type Slots map[string]string

// Get returns the trimmed slot value, or "" when absent.
func (s Slots) Get(name string) string {
	return strings.TrimSpace(s[name])
}

// Has reports whether the slot is present with a non-empty value.
func (s Slots) Has(name string) bool {
	return s.Get(name) != ""
}

// Handler defines the interface that all action modules implement.
// This provides a consistent API for webhook routing and action execution.
type Handler interface {
	// Name returns the module name, used for logging and metrics.
	Name() string

	// Actions returns the action names this module executes.
	Actions() []string

	// DispatchAction executes a single action and returns the text replies
	// to send back to the dialogue manager. A missing required slot yields
	// the prompt reply without any backend call; backend failures yield the
	// failure reply. The error return is reserved for routing problems
	// (unknown action within the module).
	DispatchAction(ctx context.Context, action string, slots Slots) ([]Reply, error)
}
