package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"

	"linepay_backend/internal/line"
	"linepay_backend/internal/logger"
	"linepay_backend/internal/services"
)

// WebhookHandler receives the LINE event batch, verifies its signature
// and hands decoded events to the reconciliation engine. It always
// answers 200 for valid requests; event-level failures never surface
// to the platform, or it would retry the whole batch.
type WebhookHandler struct {
	*BaseHandler
	client *line.Client
	svc    services.ReconciliationService
}

func NewWebhookHandler(base *BaseHandler, client *line.Client, svc services.ReconciliationService) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: base,
		client:      client,
		svc:         svc,
	}
}

func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/webhook", h.HandleWebhook)
}

func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	lineEvents, err := h.client.ParseRequest(c.Request)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			logger.CtxWarn(ctx, "webhook signature rejected", "ip", c.ClientIP())
			c.Status(http.StatusUnauthorized)
			return
		}
		logger.CtxWithError(ctx, "failed to parse webhook request", err)
		c.Status(http.StatusBadRequest)
		return
	}

	events := make([]services.InboundEvent, 0, len(lineEvents))
	for _, ev := range lineEvents {
		if ev.Type != linebot.EventTypeMessage || ev.Source == nil || ev.Source.UserID == "" {
			continue
		}

		inbound := services.InboundEvent{
			UserID:       ev.Source.UserID,
			ReplyToken:   ev.ReplyToken,
			IsRedelivery: ev.DeliveryContext.IsRedelivery,
			Timestamp:    ev.Timestamp,
		}

		switch msg := ev.Message.(type) {
		case *linebot.TextMessage:
			inbound.Kind = services.EventKindText
			inbound.MessageID = msg.ID
			inbound.Text = msg.Text
		case *linebot.ImageMessage:
			inbound.Kind = services.EventKindImage
			inbound.MessageID = msg.ID
		default:
			continue
		}

		events = append(events, inbound)
	}

	h.svc.HandleEvents(ctx, events)
	c.Status(http.StatusOK)
}
