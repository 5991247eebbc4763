package bot

import (
	"context"
	"errors"
	"testing"

	domerrors "github.com/mercabot/mercabot-go/internal/errors"
)

type stubHandler struct {
	name    string
	actions []string
	replies []Reply
	gotCtx  context.Context
	gotAct  string
	gotSlot Slots
}

func (s *stubHandler) Name() string      { return s.name }
func (s *stubHandler) Actions() []string { return s.actions }

func (s *stubHandler) DispatchAction(ctx context.Context, action string, slots Slots) ([]Reply, error) {
	s.gotCtx = ctx
	s.gotAct = action
	s.gotSlot = slots
	return s.replies, nil
}

func TestSlotsGet(t *testing.T) {
	tests := []struct {
		name  string
		slots Slots
		key   string
		want  string
	}{
		{"present", Slots{"order_id": "123"}, "order_id", "123"},
		{"trimmed", Slots{"order_id": "  123  "}, "order_id", "123"},
		{"absent", Slots{}, "order_id", ""},
		{"blank", Slots{"order_id": "   "}, "order_id", ""},
		{"nil map", nil, "order_id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.slots.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSlotsHas(t *testing.T) {
	s := Slots{"email": "ana@mail.com", "blank": "  "}

	if !s.Has("email") {
		t.Error("Has(email) = false, want true")
	}
	if s.Has("blank") {
		t.Error("Has(blank) = true, want false")
	}
	if s.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
}

func TestRegistryDispatch(t *testing.T) {
	orders := &stubHandler{name: "orders", actions: []string{"action_get_orders", "action_cancel_order"}, replies: TextReply("ok")}
	sales := &stubHandler{name: "sales", actions: []string{"action_get_total_sales"}, replies: TextReply("total")}

	r, err := NewRegistry(orders, sales)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	replies, err := r.Dispatch(context.Background(), "action_cancel_order", Slots{"order_id": "7"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(replies) != 1 || replies[0].Text != "ok" {
		t.Errorf("Dispatch() replies = %v, want [ok]", replies)
	}
	if orders.gotAct != "action_cancel_order" {
		t.Errorf("handler received action %q, want action_cancel_order", orders.gotAct)
	}
	if orders.gotSlot.Get("order_id") != "7" {
		t.Errorf("handler received slots %v, want order_id=7", orders.gotSlot)
	}
}

func TestRegistryDispatchUnknownAction(t *testing.T) {
	r, err := NewRegistry(&stubHandler{name: "orders", actions: []string{"action_get_orders"}})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	_, err = r.Dispatch(context.Background(), "action_fly_to_moon", nil)
	if !errors.Is(err, domerrors.ErrUnknownAction) {
		t.Errorf("Dispatch() error = %v, want ErrUnknownAction", err)
	}
}

func TestRegistryDuplicateAction(t *testing.T) {
	a := &stubHandler{name: "orders", actions: []string{"action_get_orders"}}
	b := &stubHandler{name: "sales", actions: []string{"action_get_orders"}}

	if _, err := NewRegistry(a, b); err == nil {
		t.Error("NewRegistry() with duplicate action = nil error, want error")
	}
}

func TestRegistryLookup(t *testing.T) {
	orders := &stubHandler{name: "orders", actions: []string{"action_get_orders"}}
	r, err := NewRegistry(orders)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	h, ok := r.Lookup("action_get_orders")
	if !ok || h.Name() != "orders" {
		t.Errorf("Lookup() = %v, %v, want orders handler", h, ok)
	}
	if _, ok := r.Lookup("nope"); ok {
		t.Error("Lookup(nope) = true, want false")
	}
}
