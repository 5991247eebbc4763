// Package products implements the catalog module for the action server.
// It answers catalog size, product lookups, the low-stock alert, and the
// most-expensive-product query.
package products

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
	"github.com/mercabot/mercabot-go/internal/report"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "products"

// Action names executed by this module.
const (
	ActionGetProductCount         = "action_get_product_count"
	ActionGetProductInfo          = "action_get_product_info"
	ActionGetLowStock             = "action_get_low_stock"
	ActionGetMostExpensiveProduct = "action_get_most_expensive_product"
)

const slotProductName = "product_name"

// Handler executes catalog actions against the store backend.
type Handler struct {
	client  *backend.Client
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHandler creates the products module handler.
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
		ActionGetProductCount,
		ActionGetProductInfo,
		ActionGetLowStock,
		ActionGetMostExpensiveProduct,
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
	case ActionGetProductCount:
		replies, status = h.getProductCount(ctx)
	case ActionGetProductInfo:
		replies, status = h.getProductInfo(ctx, slots)
	case ActionGetLowStock:
		replies, status = h.getLowStock(ctx)
	case ActionGetMostExpensiveProduct:
		replies, status = h.getMostExpensiveProduct(ctx)
	default:
		h.metrics.RecordAction(action, metrics.StatusUnknown, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", domerrors.ErrUnknownAction, action)
	}

	h.metrics.RecordAction(action, status, time.Since(start).Seconds())
	return replies, nil
}

func (h *Handler) getProductCount(ctx context.Context) ([]bot.Reply, string) {
	products, err := h.client.Products(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch products")
		return bot.TextReply(reply.FailProducts), metrics.StatusError
	}

	return bot.TextReply(reply.ProductCount(len(products))), metrics.StatusSuccess
}

func (h *Handler) getProductInfo(ctx context.Context, slots bot.Slots) ([]bot.Reply, string) {
	name := slots.Get(slotProductName)
	if name == "" {
		return bot.TextReply(reply.PromptProductName), metrics.StatusPrompt
	}

	products, err := h.client.Products(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch products")
		return bot.TextReply(reply.FailProducts), metrics.StatusError
	}

	product, ok := lo.Find(products, func(p backend.Product) bool {
		return strings.EqualFold(p.Name, name)
	})
	if !ok {
		return bot.TextReply(reply.ProductNotFound(name)), metrics.StatusSuccess
	}

	return bot.TextReply(reply.ProductInfo(product)), metrics.StatusSuccess
}

func (h *Handler) getLowStock(ctx context.Context) ([]bot.Reply, string) {
	products, err := h.client.Products(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch products")
		return bot.TextReply(reply.FailProducts), metrics.StatusError
	}

	lowest, severity, found := report.LowStock(products)
	return bot.TextReply(reply.LowStock(lowest, severity, found)), metrics.StatusSuccess
}

func (h *Handler) getMostExpensiveProduct(ctx context.Context) ([]bot.Reply, string) {
	products, err := h.client.Products(ctx)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Errorf("Failed to fetch products")
		return bot.TextReply(reply.FailProducts), metrics.StatusError
	}

	priciest, ok := report.MostExpensiveProduct(products)
	return bot.TextReply(reply.MostExpensiveProduct(priciest, ok)), metrics.StatusSuccess
}
