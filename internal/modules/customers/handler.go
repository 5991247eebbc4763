// Package customers implements the customer-directory module for the action
// server.
package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mercabot/mercabot-go/internal/backend"
	"github.com/mercabot/mercabot-go/internal/bot"
	domerrors "github.com/mercabot/mercabot-go/internal/errors"
	"github.com/mercabot/mercabot-go/internal/logger"
	"github.com/mercabot/mercabot-go/internal/metrics"
	"github.com/mercabot/mercabot-go/internal/reply"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "customers"

// Action names executed by this module.
const (
	ActionGetCustomerCount  = "action_get_customer_count"
	ActionFindCustomer      = "action_find_customer"
	ActionGetCustomerOrders = "action_get_customer_orders"
)

const slotCustomerEmail = "customer_email"

// Handler executes customer actions against the store backend.
type Handler struct {
	client  *backend.Client
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHandler creates the customers module handler.
func NewHandler(client *backend.Client, metrics *metrics.Metrics, logger *logger.Logger) *Handler {
	return &Handler{
		client:  client,
		metrics: metrics,
		logger:  logger,
	}
}

// Name returns the module name.
func (h *Handler) Name() string {
	return ModuleName
}

// Actions returns the action names this module executes.
func (h *Handler) Actions() []string {
	return []string{
		ActionGetCustomerCount,
		ActionFindCustomer,
		ActionGetCustomerOrders,
	}
}

// DispatchAction routes an action to its implementation and records the
// outcome.
func (h *Handler) DispatchAction(ctx context.Context, action string, slots bot.Slots) ([]bot.Reply, error) {
	start := time.Now()

	var (
		replies []bot.Reply
		status  string
	)

	switch action {
	case ActionGetCustomerCount:
		replies, status = h.getCustomerCount(ctx)
	case ActionFindCustomer:
		replies, status = h.findCustomer(ctx, slots)
	case ActionGetCustomerOrders:
		replies, status = h.getCustomerOrders(ctx, slots)
	default:
		h.metrics.RecordAction(action, metrics.StatusUnknown, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", domerrors.ErrUnknownAction, action)
	}

	h.metrics.RecordAction(action, status, time.Since(start).Seconds())
	return replies, nil
}

func (h *Handler) getCustomerCount(ctx context.Context) ([]bot.Reply, string) {
	customers, err := h.client.Customers(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch customers")
		return bot.TextReply(reply.FailCustomers), metrics.StatusError
	}

	return bot.TextReply(reply.CustomerCount(len(customers))), metrics.StatusSuccess
}

func (h *Handler) findCustomer(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	email := slots.Get(slotCustomerEmail)
	if email == "" {
		return bot.TextReply(reply.PromptCustomerEmail), metrics.StatusPrompt
	}

	customer, status := h.lookupByEmail(ctx, email)
	if customer == nil {
		if status == metrics.StatusError {
			return bot.TextReply(reply.FailCustomers), status
		}
		return bot.TextReply(reply.CustomerNotFound(email)), status
	}

	return bot.TextReply(reply.CustomerInfo(customer)), metrics.StatusSuccess
}

func (h *Handler) getCustomerOrders(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	email := slots.Get(slotCustomerEmail)
	if email == "" {
		return bot.TextReply(reply.PromptCustomerEmail), metrics.StatusPrompt
	}

	customer, status := h.lookupByEmail(ctx, email)
	if customer == nil {
		if status == metrics.StatusError {
			return bot.TextReply(reply.FailCustomers), status
		}
		return bot.TextReply(reply.CustomerNotFound(email)), status
	}

	orders, err := h.client.OrdersByCustomer(ctx, customer.ID)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders for customer %s", customer.ID)
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	return bot.TextReply(reply.CustomerOrders(customer.Name, orders)), metrics.StatusSuccess
}

// lookupByEmail resolves a customer by case-insensitive email match. The
// returned status is success when the lookup completed, error when the
// backend failed; a nil customer with success status means no match.
func (h *Handler) lookupByEmail(ctx context.Context, email string) (*backend.Customer, string) {
	customers, err := h.client.Customers(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch customers")
		return nil, metrics.StatusError
	}

	found, ok := lo.Find(customers, func(c backend.Customer) bool {
		return strings.EqualFold(c.Email, email)
	})
	if !ok {
		return nil, metrics.StatusSuccess
	}
	return &found, metrics.StatusSuccess
}
