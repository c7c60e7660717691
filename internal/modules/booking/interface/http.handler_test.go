package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
	"github.com/husbandvitamins/bookaconsult/internal/shared/validation"
)

type fakeReconciler struct {
	result *domain.ReconciliationResult
	err    error
	calls  int
	lastID string
	known  *string
}

func (f *fakeReconciler) Reconcile(_ context.Context, customerID string, knownTags *string) (*domain.ReconciliationResult, error) {
	f.calls++
	f.lastID = customerID
	f.known = knownTags
	return f.result, f.err
}

type recordingSink struct {
	events []domain.ReconciliationEvent
	err    error
}

func (s *recordingSink) Publish(_ context.Context, evt domain.ReconciliationEvent) error {
	s.events = append(s.events, evt)
	return s.err
}

func serve(t *testing.T, handler *WebhookHandler, method, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = validation.NewRequestValidator()
	e.Use(CORS("https://booking.example.com"))
	e.Any("/webhooks/appointment-booked", handler.Handle)

	req := httptest.NewRequest(method, "/webhooks/appointment-booked", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func assertCORSHeaders(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "https://booking.example.com" {
		t.Fatalf("missing allow-origin header, got %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowMethods); got != "POST, OPTIONS" {
		t.Fatalf("unexpected allow-methods header: %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowHeaders); got != "Content-Type, X-Source" {
		t.Fatalf("unexpected allow-headers header: %q", got)
	}
}

func TestPreflightSucceedsWithNoBody(t *testing.T) {
	t.Parallel()

	reconciler := &fakeReconciler{}
	rec := serve(t, NewWebhookHandler(reconciler, nil), http.MethodOptions, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %s", rec.Body.String())
	}
	assertCORSHeaders(t, rec)
	if reconciler.calls != 0 {
		t.Fatal("preflight must not invoke the reconciler")
	}
}

func TestNonPostMethodRejected(t *testing.T) {
	t.Parallel()

	reconciler := &fakeReconciler{}
	rec := serve(t, NewWebhookHandler(reconciler, nil), http.MethodGet, "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	assertCORSHeaders(t, rec)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "method_not_allowed" {
		t.Fatalf("unexpected error category: %v", body["error"])
	}
	if body["message"] == "" || body["timestamp"] == "" {
		t.Fatalf("expected explanatory message and timestamp: %v", body)
	}
	if reconciler.calls != 0 {
		t.Fatal("method errors must not invoke the reconciler")
	}
}

func TestMissingRequiredFieldsListsBothAndSkipsRemoteCalls(t *testing.T) {
	t.Parallel()

	payloads := []string{
		`{"customer_email":"a@b.co"}`,
		`{"customer_id":"42"}`,
		`{}`,
	}
	for _, payload := range payloads {
		reconciler := &fakeReconciler{}
		rec := serve(t, NewWebhookHandler(reconciler, nil), http.MethodPost, payload)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: unexpected status %d", payload, rec.Code)
		}
		assertCORSHeaders(t, rec)

		var body struct {
			Error          string   `json:"error"`
			Message        string   `json:"message"`
			RequiredFields []string `json:"required_fields"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error != "missing_required_fields" {
			t.Fatalf("unexpected error category: %s", body.Error)
		}
		if !strings.Contains(body.Message, "customer_id") || !strings.Contains(body.Message, "customer_email") {
			t.Fatalf("message must name both fields: %s", body.Message)
		}
		if len(body.RequiredFields) != 2 {
			t.Fatalf("expected both required fields listed: %v", body.RequiredFields)
		}
		if reconciler.calls != 0 {
			t.Fatal("validation failures must not reach the reconciler")
		}
	}
}

func TestSuccessfulReconciliationResponse(t *testing.T) {
	t.Parallel()

	reconciler := &fakeReconciler{
		result: &domain.ReconciliationResult{
			PreviousTags: "vip,appointment-eligible",
			NewTags:      "vip,appointment-booked",
			Changed:      true,
		},
	}
	sink := &recordingSink{}
	handler := NewWebhookHandler(reconciler, sink)

	payload := `{"customer_id":8231,"customer_email":"jane@example.com","appointment_details":{"event_type":"consultation","assigned_to":"dr-lee"},"customer_tags_before":"vip,appointment-eligible"}`
	rec := serve(t, handler, http.MethodPost, payload)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	assertCORSHeaders(t, rec)

	var body struct {
		Success         bool   `json:"success"`
		Message         string `json:"message"`
		CustomerID      string `json:"customer_id"`
		AppointmentType string `json:"appointment_type"`
		ProcessedAt     string `json:"processed_at"`
		TagsUpdated     bool   `json:"tags_updated"`
		PreviousTags    string `json:"previous_tags"`
		NewTags         string `json:"new_tags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success {
		t.Fatal("expected success flag")
	}
	if !strings.Contains(body.Message, "jane@example.com") {
		t.Fatalf("message must embed the customer email: %s", body.Message)
	}
	if body.CustomerID != "8231" {
		t.Fatalf("unexpected customer id: %s", body.CustomerID)
	}
	if body.AppointmentType != "consultation" {
		t.Fatalf("unexpected appointment type: %s", body.AppointmentType)
	}
	if body.ProcessedAt == "" {
		t.Fatal("expected processed_at timestamp")
	}
	if !body.TagsUpdated {
		t.Fatal("expected tags_updated true")
	}
	if body.PreviousTags != "vip,appointment-eligible" || body.NewTags != "vip,appointment-booked" {
		t.Fatalf("unexpected tag strings: %s -> %s", body.PreviousTags, body.NewTags)
	}

	if reconciler.lastID != "8231" {
		t.Fatalf("unexpected reconciler id: %s", reconciler.lastID)
	}
	if reconciler.known == nil || *reconciler.known != "vip,appointment-eligible" {
		t.Fatalf("known tags not forwarded: %#v", reconciler.known)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(sink.events))
	}
	if sink.events[0].CustomerEmail != "jane@example.com" || sink.events[0].NewTags != "vip,appointment-booked" {
		t.Fatalf("unexpected event: %#v", sink.events[0])
	}
}

func TestReconcilerFailureMapsToGenericEnvelope(t *testing.T) {
	t.Parallel()

	reconciler := &fakeReconciler{err: errors.New("fetch customer: unexpected status 502 Bad Gateway")}
	sink := &recordingSink{}
	rec := serve(t, NewWebhookHandler(reconciler, sink), http.MethodPost, `{"customer_id":"42","customer_email":"a@b.co"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	assertCORSHeaders(t, rec)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "reconciliation_failed" {
		t.Fatalf("unexpected error category: %v", body["error"])
	}
	if body["message"] != "fetch customer: unexpected status 502 Bad Gateway" {
		t.Fatalf("error message must carry the failure text: %v", body["message"])
	}
	if _, ok := body["success"]; ok {
		t.Fatal("failure envelope must not leak partial success state")
	}
	if len(sink.events) != 0 {
		t.Fatal("failed reconciliations must not publish events")
	}
}

func TestPublishFailureDoesNotAffectResponse(t *testing.T) {
	t.Parallel()

	reconciler := &fakeReconciler{
		result: &domain.ReconciliationResult{PreviousTags: "", NewTags: "appointment-booked", Changed: true},
	}
	sink := &recordingSink{err: errors.New("broker down")}
	rec := serve(t, NewWebhookHandler(reconciler, sink), http.MethodPost, `{"customer_id":"42","customer_email":"a@b.co"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("publish failure leaked into response: %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
}

func TestMalformedJSONRejected(t *testing.T) {
	t.Parallel()

	reconciler := &fakeReconciler{}
	rec := serve(t, NewWebhookHandler(reconciler, nil), http.MethodPost, `{"customer_id":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "invalid_payload" {
		t.Fatalf("unexpected error category: %v", body["error"])
	}
	if reconciler.calls != 0 {
		t.Fatal("malformed payloads must not reach the reconciler")
	}
}
