// Package sales implements the sales-analytics module for the action server.
// Every action fetches whole collections and aggregates in memory; the store
// backend exposes no server-side reporting.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/mercabot/mercabot-go/internal/backend"
	"github.com/mercabot/mercabot-go/internal/bot"
	domerrors "github.com/mercabot/mercabot-go/internal/errors"
	"github.com/mercabot/mercabot-go/internal/logger"
	"github.com/mercabot/mercabot-go/internal/metrics"
	"github.com/mercabot/mercabot-go/internal/reply"
	"github.com/mercabot/mercabot-go/internal/report"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "sales"

// Action names executed by this module.
const (
	ActionGetTotalSales       = "action_get_total_sales"
	ActionGetConversionRate   = "action_get_conversion_rate"
	ActionGetAverageTicket    = "action_get_average_ticket"
	ActionGetPendingPayments  = "action_get_pending_payments"
	ActionGetTopCustomers     = "action_get_top_customers"
	ActionGetTopProducts      = "action_get_top_products"
	ActionGetMostSoldProduct  = "action_get_most_sold_product"
	ActionGetDashboardSummary = "action_get_dashboard_summary"
)

// Handler executes analytics actions against the store backend.
type Handler struct {
	client  *backend.Client
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHandler creates the sales module handler.
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
		ActionGetTotalSales,
		ActionGetConversionRate,
		ActionGetAverageTicket,
		ActionGetPendingPayments,
		ActionGetTopCustomers,
		ActionGetTopProducts,
		ActionGetMostSoldProduct,
		ActionGetDashboardSummary,
	}
}

// DispatchAction routes an action to its implementation and records the
// outcome.
func (h *Handler) DispatchAction(ctx context.Context, action string, _ bot.Slots) ([]bot.Reply, error) {
	start := time.Now()

	var (
		replies []bot.Reply
		status  string
	)

	switch action {
	case ActionGetTotalSales:
		replies, status = h.getTotalSales(ctx)
	case ActionGetConversionRate:
		replies, status = h.getConversionRate(ctx)
	case ActionGetAverageTicket:
		replies, status = h.getAverageTicket(ctx)
	case ActionGetPendingPayments:
		replies, status = h.getPendingPayments(ctx)
	case ActionGetTopCustomers:
		replies, status = h.getTopCustomers(ctx)
	case ActionGetTopProducts:
		replies, status = h.getTopProducts(ctx)
	case ActionGetMostSoldProduct:
		replies, status = h.getMostSoldProduct(ctx)
	case ActionGetDashboardSummary:
		replies, status = h.getDashboardSummary(ctx)
	default:
		h.metrics.RecordAction(action, metrics.StatusUnknown, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", domerrors.ErrUnknownAction, action)
	}

	h.metrics.RecordAction(action, status, time.Since(start).Seconds())
	return replies, nil
}

func (h *Handler) getTotalSales(ctx context.Context) ([]bot.Reply, string) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	total := report.TotalAmount(orders)
	paid := report.TotalAmount(report.FilterByPaymentStatus(orders, "paid"))
	return bot.TextReply(reply.TotalSales(total, paid)), metrics.StatusSuccess
}

func (h *Handler) getConversionRate(ctx context.Context) ([]bot.Reply, string) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	rate, ok := report.PaidRate(orders)
	paidCount := len(report.FilterByPaymentStatus(orders, "paid"))
	return bot.TextReply(reply.ConversionRate(rate, ok, paidCount, len(orders))), metrics.StatusSuccess
}

func (h *Handler) getAverageTicket(ctx context.Context) ([]bot.Reply, string) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	avg, ok := report.AverageTicket(orders)
	return bot.TextReply(reply.AverageTicket(avg, ok)), metrics.StatusSuccess
}

func (h *Handler) getPendingPayments(ctx context.Context) ([]bot.Reply, string) {
	payments, err := h.client.Payments(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch payments")
		return bot.TextReply(reply.FailPayments), metrics.StatusError
	}

	pending := lo.CountBy(payments, func(p backend.Payment) bool {
		return p.Status == "pending"
	})
	return bot.TextReply(reply.PendingPayments(pending)), metrics.StatusSuccess
}

func (h *Handler) getTopCustomers(ctx context.Context) ([]bot.Reply, string) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	customers, err := h.client.Customers(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch customers")
		return bot.TextReply(reply.FailCustomers), metrics.StatusError
	}

	stats := report.TopCustomers(orders, customers)
	return bot.TextReply(reply.TopCustomers(stats)), metrics.StatusSuccess
}

func (h *Handler) getTopProducts(ctx context.Context) ([]bot.Reply, string) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	products, err := h.client.Products(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch products")
		return bot.TextReply(reply.FailProducts), metrics.StatusError
	}

	stats := report.TopProducts(orders, products)
	return bot.TextReply(reply.TopProducts(stats)), metrics.StatusSuccess
}

func (h *Handler) getMostSoldProduct(ctx context.Context) ([]bot.Reply, string) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	stat, ok := report.MostSoldProduct(orders)
	return bot.TextReply(reply.MostSoldProduct(stat, ok)), metrics.StatusSuccess
}

func (h *Handler) getDashboardSummary(ctx context.Context) ([]bot.Reply, string) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch orders")
		return bot.TextReply(reply.FailOrders), metrics.StatusError
	}

	payments, err := h.client.Payments(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch payments")
		return bot.TextReply(reply.FailPayments), metrics.StatusError
	}

	summary := report.BuildDashboard(orders, payments)
	return bot.TextReply(reply.Dashboard(summary)), metrics.StatusSuccess
}
