// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	senderIDKey  contextKey = "ctxutil.senderID"
	actionKey    contextKey = "ctxutil.action"
	requestIDKey contextKey = "ctxutil.requestID"
)

// WithSenderID adds a sender ID to the context.
// Sender ID identifies the conversation in the dialogue manager and is
// carried through action handlers for logging.
func WithSenderID(ctx context.Context, senderID string) context.Context {
	return context.WithValue(ctx, senderIDKey, senderID)
}

// GetSenderID retrieves the sender ID from the context.
// Returns the sender ID if found, empty string otherwise.
func GetSenderID(ctx context.Context) string {
	if v := ctx.Value(senderIDKey); v != nil {
		if senderID, ok := v.(string); ok && senderID != "" {
			return senderID
		}
	}
	return ""
}

// WithAction adds the action name being executed to the context.
func WithAction(ctx context.Context, action string) context.Context {
	return context.WithValue(ctx, actionKey, action)
}

// GetAction retrieves the action name from the context.
// Returns the action name if found, empty string otherwise.
func GetAction(ctx context.Context) string {
	if v := ctx.Value(actionKey); v != nil {
		if action, ok := v.(string); ok && action != "" {
			return action
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context.
// Request IDs are generated per inbound HTTP request for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID if found, empty string otherwise.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if requestID, ok := v.(string); ok && requestID != "" {
			return requestID
		}
	}
	return ""
}
