package bot

import (
	"context"
	"fmt"

	domerrors "github.com/mercabot/mercabot-go/internal/errors"
)

// Registry routes action names to the module handlers that execute them.
type Registry struct {
	handlers []Handler
	byAction map[string]Handler
}

// NewRegistry builds a registry from the given handlers. Registration fails
// when two modules claim the same action name.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{
		handlers: handlers,
		byAction: make(map[string]Handler),
	}

	for _, h := range handlers {
		for _, action := range h.Actions() {
			if prev, ok := r.byAction[action]; ok {
				return nil, fmt.Errorf("action %q registered by both %s and %s", action, prev.Name(), h.Name())
			}
			r.byAction[action] = h
		}
	}

	return r, nil
}

// Handlers returns the registered module handlers.
func (r *Registry) Handlers() []Handler {
	return r.handlers
}

// Lookup returns the handler that executes the given action.
func (r *Registry) Lookup(action string) (Handler, bool) {
	h, ok := r.byAction[action]
	return h, ok
}

// Dispatch routes the action to its module and executes it.
func (r *Registry) Dispatch(ctx context.Context, action string, slots Slots) ([]Reply, error) {
	h, ok := r.byAction[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domerrors.ErrUnknownAction, action)
	}
	return h.DispatchAction(ctx, action, slots)
}
