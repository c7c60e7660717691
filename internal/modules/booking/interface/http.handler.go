package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/application/port"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
)

// Reconciler is the slice of the booking use case the handler needs.
type Reconciler interface {
	Reconcile(ctx context.Context, customerID string, knownTags *string) (*domain.ReconciliationResult, error)
}

type successResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	CustomerID      string `json:"customer_id"`
	AppointmentType string `json:"appointment_type,omitempty"`
	ProcessedAt     string `json:"processed_at"`
	TagsUpdated     bool   `json:"tags_updated"`
	PreviousTags    string `json:"previous_tags"`
	NewTags         string `json:"new_tags"`
}

type errorResponse struct {
	Error          string   `json:"error"`
	Message        string   `json:"message"`
	RequiredFields []string `json:"required_fields,omitempty"`
	AllowedMethods []string `json:"allowed_methods,omitempty"`
	Timestamp      string   `json:"timestamp"`
}

var requiredFields = []string{"customer_id", "customer_email"}

// WebhookHandler is the request adapter in front of the tag reconciler. It
// owns method routing, payload validation and the response envelopes; all
// reconciliation semantics live behind the Reconciler.
type WebhookHandler struct {
	reconciler Reconciler
	events     port.EventSink
	now        func() time.Time
}

func NewWebhookHandler(reconciler Reconciler, events port.EventSink) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, events: events, now: time.Now}
}

// Handle serves the appointment-booked endpoint. It is registered for all
// methods so non-POST requests get the explanatory 405 envelope instead of
// the framework default.
func (h *WebhookHandler) Handle(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodOptions:
		return c.NoContent(http.StatusOK)
	case http.MethodPost:
		return h.handlePost(c)
	default:
		return c.JSON(http.StatusMethodNotAllowed, errorResponse{
			Error:          "method_not_allowed",
			Message:        "only POST requests are accepted",
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			Timestamp:      h.timestamp(),
		})
	}
}

func (h *WebhookHandler) handlePost(c echo.Context) error {
	var notification domain.BookingNotification
	if err := c.Bind(&notification); err != nil {
		slog.Warn("webhook payload rejected", slog.Any("error", err))
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:     "invalid_payload",
			Message:   "request body must be valid JSON",
			Timestamp: h.timestamp(),
		})
	}
	if err := c.Validate(&notification); err != nil {
		slog.Warn("webhook missing required fields",
			slog.String("customerId", notification.CustomerID.String()),
			slog.String("customerEmail", notification.CustomerEmail),
		)
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:          "missing_required_fields",
			Message:        "customer_id and customer_email are required",
			RequiredFields: requiredFields,
			Timestamp:      h.timestamp(),
		})
	}

	slog.Info("appointment webhook received",
		slog.String("customerId", notification.CustomerID.String()),
		slog.String("customerEmail", notification.CustomerEmail),
		slog.String("eventType", notification.EventType()),
		slog.String("source", c.Request().Header.Get("X-Source")),
	)

	result, err := h.reconciler.Reconcile(c.Request().Context(), notification.CustomerID.String(), notification.TagsBefore)
	if err != nil {
		slog.Error("tag reconciliation failed",
			slog.String("customerId", notification.CustomerID.String()),
			slog.Any("error", err),
		)
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:     "reconciliation_failed",
			Message:   err.Error(),
			Timestamp: h.timestamp(),
		})
	}

	processedAt := h.now().UTC()
	slog.Info("tags reconciled",
		slog.String("customerId", notification.CustomerID.String()),
		slog.String("previousTags", result.PreviousTags),
		slog.String("newTags", result.NewTags),
	)
	h.publish(c.Request().Context(), &notification, result, processedAt)

	return c.JSON(http.StatusOK, successResponse{
		Success:         true,
		Message:         "appointment booking processed for " + notification.CustomerEmail,
		CustomerID:      notification.CustomerID.String(),
		AppointmentType: notification.EventType(),
		ProcessedAt:     processedAt.Format(time.RFC3339),
		TagsUpdated:     result.Changed,
		PreviousTags:    result.PreviousTags,
		NewTags:         result.NewTags,
	})
}

func (h *WebhookHandler) publish(ctx context.Context, n *domain.BookingNotification, result *domain.ReconciliationResult, processedAt time.Time) {
	if h.events == nil {
		return
	}
	evt := domain.ReconciliationEvent{
		CustomerID:    n.CustomerID.String(),
		CustomerEmail: n.CustomerEmail,
		EventType:     n.EventType(),
		PreviousTags:  result.PreviousTags,
		NewTags:       result.NewTags,
		ProcessedAt:   processedAt,
	}
	if err := h.events.Publish(ctx, evt); err != nil {
		slog.Warn("reconciliation event publish failed",
			slog.String("customerId", evt.CustomerID),
			slog.Any("error", err),
		)
	}
}

func (h *WebhookHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}
