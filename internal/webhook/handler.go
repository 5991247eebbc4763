// Package webhook implements the action-server endpoint the dialogue manager
// calls. It decodes the action-execution request, routes the action to its
// module through the registry, and answers with the replies to utter.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mercabot/mercabot-go/internal/bot"
	"github.com/mercabot/mercabot-go/internal/ctxutil"
	"github.com/mercabot/mercabot-go/internal/logger"
	"github.com/mercabot/mercabot-go/internal/metrics"
	"github.com/mercabot/mercabot-go/internal/ratelimit"
	"github.com/mercabot/mercabot-go/internal/reply"
	"github.com/mercabot/mercabot-go/internal/sentry"
)

// Handler handles action-execution requests.
type Handler struct {
	registry      *bot.Registry
	metrics       *metrics.Metrics
	logger        *logger.Logger
	actionTimeout time.Duration
	limiter       *ratelimit.PerKeyLimiter
}

// NewHandler creates the webhook handler. actionTimeout bounds a single
// action execution end to end.
func NewHandler(registry *bot.Registry, m *metrics.Metrics, log *logger.Logger, actionTimeout time.Duration) *Handler {
	return &Handler{
		registry:      registry,
		metrics:       m,
		logger:        log,
		actionTimeout: actionTimeout,
	}
}

// SetRateLimiter enables per-sender throttling. A nil limiter leaves the
// endpoint unthrottled.
func (h *Handler) SetRateLimiter(limiter *ratelimit.PerKeyLimiter) {
	h.limiter = limiter
}

// request is the action-execution payload the dialogue manager POSTs.
type request struct {
	NextAction string  `json:"next_action"`
	SenderID   string  `json:"sender_id"`
	Tracker    tracker `json:"tracker"`
}

type tracker struct {
	SenderID string  `json:"sender_id"`
	Slots    slotMap `json:"slots"`
}

// slotMap decodes slot values of any scalar JSON type into strings.
// Null slots and non-scalar values are dropped; handlers treat both the
// same as an absent slot.
type slotMap map[string]string

func (s *slotMap) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(slotMap, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			out[key] = v
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[key] = strconv.FormatBool(v)
		}
	}
	*s = out
	return nil
}

// response is the action-server answer. Events is always present and empty:
// this server utters messages but never mutates conversation state.
type response struct {
	Events    []any          `json:"events"`
	Responses []responseItem `json:"responses"`
}

type responseItem struct {
	Text string `json:"text"`
}

// Handle is the Gin handler for POST /webhook.
func (h *Handler) Handle(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warnf("Malformed action request")
		h.metrics.RecordWebhook("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.NextAction == "" {
		h.metrics.RecordWebhook("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "next_action is required"})
		return
	}

	if _, ok := h.registry.Lookup(req.NextAction); !ok {
		h.logger.WithField("action", req.NextAction).Warnf("Unknown action requested")
		h.metrics.RecordWebhook("unknown_action")
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown action %q", req.NextAction)})
		return
	}

	senderID := req.SenderID
	if senderID == "" {
		senderID = req.Tracker.SenderID
	}

	if h.limiter != nil && !h.limiter.Allow(senderID) {
		h.logger.WithField("sender_id", senderID).Warnf("Sender rate limited")
		h.metrics.RecordWebhook("rate_limited")
		c.JSON(http.StatusOK, buildResponse(bot.TextReply(reply.RateLimited)))
		return
	}

	ctx := ctxutil.WithSenderID(c.Request.Context(), senderID)
	ctx = ctxutil.WithAction(ctx, req.NextAction)
	ctx, cancel := context.WithTimeout(ctx, h.actionTimeout)
	defer cancel()

	replies := h.execute(ctx, req.NextAction, bot.Slots(req.Tracker.Slots))

	h.metrics.RecordWebhook("ok")
	c.JSON(http.StatusOK, buildResponse(replies))
}

// execute runs the action with a recover guard. A panicking or failing
// handler yields the generic error reply; the process always answers.
func (h *Handler) execute(ctx context.Context, action string, slots bot.Slots) (replies []bot.Reply) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("action %s panicked: %v", action, r)
			h.logger.WithField("action", action).WithField("panic", r).Errorf("Recovered from action panic")
			sentry.CaptureExceptionWithContext(ctx, err)
			replies = bot.TextReply(reply.Generic)
		}
	}()

	replies, err := h.registry.Dispatch(ctx, action, slots)
	if err != nil {
		h.logger.WithField("action", action).WithError(err).Errorf("Action dispatch failed")
		sentry.CaptureExceptionWithContext(ctx, err)
		return bot.TextReply(reply.Generic)
	}
	return replies
}

func buildResponse(replies []bot.Reply) response {
	items := make([]responseItem, 0, len(replies))
	for _, r := range replies {
		items = append(items, responseItem{Text: r.Text})
	}
	return response{
		Events:    []any{},
		Responses: items,
	}
}
