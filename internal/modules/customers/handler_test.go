package customers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mercabot/mercabot-go/internal/backend"
	"github.com/mercabot/mercabot-go/internal/bot"
	"github.com/mercabot/mercabot-go/internal/logger"
	"github.com/mercabot/mercabot-go/internal/metrics"
)

const customersJSON = `[
	{"_id": "c1", "name": "Ana Torres", "email": "ana@mail.com", "phone": "999111222"},
	{"_id": "c2", "name": "Luis Rojas", "email": "luis@mail.com"}
]`

func newTestHandler(t *testing.T, fn http.HandlerFunc) *Handler {
	t.Helper()

	srv := httptest.NewServer(fn)
	t.Cleanup(srv.Close)

	client := backend.NewClient(srv.URL, 2*time.Second)
	m := metrics.New(prometheus.NewRegistry())
	log := logger.NewWithWriter("error", io.Discard)
	return NewHandler(client, m, log)
}

func singleText(t *testing.T, replies []bot.Reply) string {
	t.Helper()
	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1: %v", len(replies), replies)
	}
	return replies[0].Text
}

func TestGetCustomerCount(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers" {
			t.Errorf("path = %s, want /customers", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(customersJSON))
	})

	replies, err := h.DispatchAction(context.Background(), ActionGetCustomerCount, bot.Slots{})
	if err != nil {
		t.Fatalf("DispatchAction() error = %v", err)
	}
	if got := singleText(t, replies); got != "👥 Hay 2 clientes registrados." {
		t.Errorf("reply = %q", got)
	}
}

func TestFindCustomer(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(customersJSON))
	})

	tests := []struct {
		name  string
		email string
		want  []string
	}{
		{"exact match", "ana@mail.com", []string{"Ana Torres", "ana@mail.com", "999111222"}},
		{"case insensitive", "ANA@MAIL.COM", []string{"Ana Torres"}},
		{"without phone", "luis@mail.com", []string{"Luis Rojas", "luis@mail.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replies, err := h.DispatchAction(context.Background(), ActionFindCustomer, bot.Slots{"customer_email": tt.email})
			if err != nil {
				t.Fatalf("DispatchAction() error = %v", err)
			}
			got := singleText(t, replies)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("reply %q missing %q", got, want)
				}
			}
		})
	}
}

func TestFindCustomerNoPhoneLine(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(customersJSON))
	})

	replies, err := h.DispatchAction(context.Background(), ActionFindCustomer, bot.Slots{"customer_email": "luis@mail.com"})
	if err != nil {
		t.Fatalf("DispatchAction() error = %v", err)
	}
	if got := singleText(t, replies); strings.Contains(got, "📱") {
		t.Errorf("reply %q shows a phone line for a customer without phone", got)
	}
}

func TestFindCustomerNotFound(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(customersJSON))
	})

	replies, err := h.DispatchAction(context.Background(), ActionFindCustomer, bot.Slots{"customer_email": "nadie@mail.com"})
	if err != nil {
		t.Fatalf("DispatchAction() error = %v", err)
	}
	if got := singleText(t, replies); got != "No encontré ningún cliente con el correo nadie@mail.com." {
		t.Errorf("reply = %q", got)
	}
}

func TestFindCustomerMissingEmailPrompts(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
	})

	replies, err := h.DispatchAction(context.Background(), ActionFindCustomer, bot.Slots{})
	if err != nil {
		t.Fatalf("DispatchAction() error = %v", err)
	}
	if got := singleText(t, replies); !strings.Contains(got, "correo") {
		t.Errorf("reply = %q, want email prompt", got)
	}
}

func TestFindCustomerBackendDown(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	replies, err := h.DispatchAction(context.Background(), ActionFindCustomer, bot.Slots{"customer_email": "ana@mail.com"})
	if err != nil {
		t.Fatalf("DispatchAction() error = %v", err)
	}
	if got := singleText(t, replies); !strings.Contains(got, "No pude obtener los datos de clientes") {
		t.Errorf("reply = %q, want fetch failure message", got)
	}
}

func TestGetCustomerOrders(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/customers":
			_, _ = w.Write([]byte(customersJSON))
		case "/orders/customer/c1":
			_, _ = w.Write([]byte(`[{"_id":"1","orderNumber":"ORD-001","totalAmount":80,"status":"paid"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	replies, err := h.DispatchAction(context.Background(), ActionGetCustomerOrders, bot.Slots{"customer_email": "ana@mail.com"})
	if err != nil {
		t.Fatalf("DispatchAction() error = %v", err)
	}

	got := singleText(t, replies)
	for _, want := range []string{"Ana Torres", "ORD-001", "S/ 80.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("reply %q missing %q", got, want)
		}
	}
}

func TestGetCustomerOrdersEmptyHistory(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/customers" {
			_, _ = w.Write([]byte(customersJSON))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	replies, err := h.DispatchAction(context.Background(), ActionGetCustomerOrders, bot.Slots{"customer_email": "luis@mail.com"})
	if err != nil {
		t.Fatalf("DispatchAction() error = %v", err)
	}
	if got := singleText(t, replies); got != "Luis Rojas no tiene órdenes registradas." {
		t.Errorf("reply = %q", got)
	}
}
