// Package orders implements the order-management module for the action
// server. It answers order counts, status lookups, detail views, recency
// listings, and performs the two order mutations (cancel, status update).
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mercabot/mercabot-go/internal/backend"
	"github.com/mercabot/mercabot-go/internal/bot"
	domerrors "github.com/mercabot/mercabot-go/internal/errors"
	"github.com/mercabot/mercabot-go/internal/logger"
	"github.com/mercabot/mercabot-go/internal/metrics"
	"github.com/mercabot/mercabot-go/internal/reply"
	"github.com/mercabot/mercabot-go/internal/report"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "orders"

// Action names executed by this module.
const (
	ActionGetOrders         = "action_get_orders"
	ActionGetOrderStatus    = "action_get_order_status"
	ActionGetOrderDetail    = "action_get_order_detail"
	ActionGetRecentOrders   = "action_get_recent_orders"
	ActionGetOrdersByStatus = "action_get_orders_by_status"
	ActionCancelOrder       = "action_cancel_order"
	ActionUpdateOrderStatus = "action_update_order_status"
)

// Slot names this module reads.
const (
	slotPhone       = "phone"
	slotOrderID     = "order_id"
	slotOrderStatus = "order_status"
)

// Handler executes order actions against the store backend.
type Handler struct {
	client  *backend.Client
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHandler creates the orders module handler.
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
		ActionGetOrders,
		ActionGetOrderStatus,
		ActionGetOrderDetail,
		ActionGetRecentOrders,
		ActionGetOrdersByStatus,
		ActionCancelOrder,
		ActionUpdateOrderStatus,
	}
}

// DispatchAction routes an action to its implementation and records the
// outcome. Missing slots and backend failures become user-facing replies,
// never errors.
func (h *Handler) DispatchAction(ctx context.Context, action string, slots bot.Slots) ([]bot.Reply, error) {
	start := time.Now()

	var (
		replies []bot.Reply
		status  string
	)

	switch action {
	case ActionGetOrders:
		replies, status = h.getOrders(ctx, slots)
	case ActionGetOrderStatus:
		replies, status = h.getOrderStatus(ctx, slots)
	case ActionGetOrderDetail:
		replies, status = h.getOrderDetail(ctx, slots)
	case ActionGetRecentOrders:
		replies, status = h.getRecentOrders(ctx)
	case ActionGetOrdersByStatus:
		replies, status = h.getOrdersByStatus(ctx, slots)
	case ActionCancelOrder:
		replies, status = h.cancelOrder(ctx, slots)
	case ActionUpdateOrderStatus:
		replies, status = h.updateOrderStatus(ctx, slots)
	default:
		h.metrics.RecordAction(action, metrics.StatusUnknown, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", domerrors.ErrUnknownAction, action)
	}

	h.metrics.RecordAction(action, status, time.Since(start).Seconds())
	return replies, nil
}

func (h *Handler) getOrders(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	phone := slots.Get(slotPhone)
	if phone == "" {
		return bot.TextReply(reply.PromptPhone), metrics.StatusPrompt
	}

	orders, err := h.client.OrdersByCustomer(ctx, phone)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders for phone %s", phone)
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	return bot.TextReply(reply.OrderCount(len(orders))), metrics.StatusSuccess
}

func (h *Handler) getOrderStatus(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	orderID := slots.Get(slotOrderID)
	if orderID == "" {
		return bot.TextReply(reply.PromptOrderID), metrics.StatusPrompt
	}

	order, err := h.client.Order(ctx, orderID)
	if err != nil {
		if errors.Is(err, domerrors.ErrNotFound) {
			return bot.TextReply(reply.OrderNotFound()), metrics.StatusSuccess
		}
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch order %s", orderID)
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	return bot.TextReply(reply.OrderStatus(orderID, order.Status)), metrics.StatusSuccess
}

func (h *Handler) getOrderDetail(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	orderID := slots.Get(slotOrderID)
	if orderID == "" {
		return bot.TextReply(reply.PromptOrderID), metrics.StatusPrompt
	}

	order, err := h.client.Order(ctx, orderID)
	if err != nil {
		if errors.Is(err, domerrors.ErrNotFound) {
			return bot.TextReply(reply.OrderNotFound()), metrics.StatusSuccess
		}
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch order %s", orderID)
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	return bot.TextReply(reply.OrderDetail(order)), metrics.StatusSuccess
}

func (h *Handler) getRecentOrders(ctx context.Context) ([]bot.Reply, string) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	return bot.TextReply(reply.RecentOrders(report.RecentOrders(orders))), metrics.StatusSuccess
}

func (h *Handler) getOrdersByStatus(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	status := slots.Get(slotOrderStatus)
	if status == "" {
		return bot.TextReply(reply.PromptStatusFilter), metrics.StatusPrompt
	}

	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	matched := report.FilterByStatus(orders, status)
	return bot.TextReply(reply.OrdersByStatus(status, len(matched))), metrics.StatusSuccess
}

func (h *Handler) cancelOrder(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	orderID := slots.Get(slotOrderID)
	if orderID == "" {
		return bot.TextReply(reply.PromptCancelOrderID), metrics.StatusPrompt
	}

	if err := h.client.CancelOrder(ctx, orderID); err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to cancel order %s", orderID)
		return bot.TextReply(reply.FailCancel), metrics.StatusError
	}

	h.logger.WithModule(ModuleName).Infof("Order %s cancelled", orderID)
	return bot.TextReply(reply.OrderCancelled(orderID)), metrics.StatusSuccess
}

func (h *Handler) updateOrderStatus(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	orderID := slots.Get(slotOrderID)
	if orderID == "" {
		return bot.TextReply(reply.PromptOrderID), metrics.StatusPrompt
	}

	status := slots.Get(slotOrderStatus)
	if status == "" {
		return bot.TextReply(reply.PromptOrderStatus), metrics.StatusPrompt
	}

	if err := h.client.UpdateOrderStatus(ctx, orderID, status); err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to update order %s to %s", orderID, status)
		return bot.TextReply(reply.FailUpdate), metrics.StatusError
	}

	h.logger.WithModule(ModuleName).Infof("Order %s updated to %s", orderID, status)
	return bot.TextReply(reply.OrderStatusUpdated(orderID, status)), metrics.StatusSuccess
}
