package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kavanaghbl/chambers-site/internal/models"
)

// --------------------------------------------------
// Fake store
// --------------------------------------------------

type fakeReconcileStore struct {
	created  []models.ExternalBooking
	canceled []string
}

func (s *fakeReconcileStore) UpsertCreated(_ context.Context, booking *models.ExternalBooking) error {
	s.created = append(s.created, *booking)
	return nil
}

func (s *fakeReconcileStore) UpsertCanceled(_ context.Context, calendlyID string) error {
	s.canceled = append(s.canceled, calendlyID)
	return nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

// newWebhookRouter registers the receiver the way the server does:
// POST-only, with the router answering other methods with 405.
func newWebhookRouter(store ReconcileStore, signingKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	h := NewWebhookHandler(store, signingKey)
	r.POST("/webhooks/calendly", h.Receive)
	return r
}

func signBody(key string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return "t=1700000000,v1=" + hex.EncodeToString(mac.Sum(nil))
}

const createdPayload = `{
	"event": "invitee.created",
	"payload": {
		"event": {"uuid": "evt-1", "start_time": "2026-09-14T09:00:00Z", "end_time": "2026-09-14T09:30:00Z"},
		"invitee": {"uuid": "inv-1", "name": "Aoife Byrne", "email": "aoife@example.com"}
	}
}`

// --------------------------------------------------
// Tests
// --------------------------------------------------

func TestWebhookCreatedUpserts(t *testing.T) {
	store := &fakeReconcileStore{}
	r := newWebhookRouter(store, "")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendly", bytes.NewBufferString(createdPayload))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one upsert, got %d", len(store.created))
	}

	booking := store.created[0]
	if booking.CalendlyID != "inv-1" {
		t.Fatalf("invitee uuid must win as the id, got %s", booking.CalendlyID)
	}
	if booking.InviteeName != "Aoife Byrne" || booking.InviteeEmail != "aoife@example.com" {
		t.Fatalf("invitee fields lost: %+v", booking)
	}
	if booking.StartTime == nil || booking.EndTime == nil {
		t.Fatal("event times lost")
	}
}

func TestWebhookCanceledUnknownID(t *testing.T) {
	store := &fakeReconcileStore{}
	r := newWebhookRouter(store, "")

	body := `{"event": "invitee.canceled", "payload": {"invitee": {"uuid": "never-seen"}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendly", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(store.canceled) != 1 || store.canceled[0] != "never-seen" {
		t.Fatalf("expected cancel upsert for never-seen, got %v", store.canceled)
	}
}

func TestWebhookBadSignatureRejected(t *testing.T) {
	store := &fakeReconcileStore{}
	r := newWebhookRouter(store, "real-key")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendly", bytes.NewBufferString(createdPayload))
	req.Header.Set("Calendly-Webhook-Signature", signBody("wrong-key", []byte(createdPayload)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if len(store.created) != 0 {
		t.Fatal("a rejected delivery must not mutate anything")
	}
}

func TestWebhookGarbledSignatureHeaderRejected(t *testing.T) {
	store := &fakeReconcileStore{}
	r := newWebhookRouter(store, "real-key")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendly", bytes.NewBufferString(createdPayload))
	req.Header.Set("Calendly-Webhook-Signature", "not-key-value-pairs")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestWebhookValidSignatureAccepted(t *testing.T) {
	store := &fakeReconcileStore{}
	r := newWebhookRouter(store, "real-key")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendly", bytes.NewBufferString(createdPayload))
	req.Header.Set("Calendly-Webhook-Signature", signBody("real-key", []byte(createdPayload)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(store.created) != 1 {
		t.Fatal("signed delivery must be processed")
	}
}

func TestWebhookNoKeyIsPermissive(t *testing.T) {
	store := &fakeReconcileStore{}
	r := newWebhookRouter(store, "")

	// No signature header at all.
	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendly", bytes.NewBufferString(createdPayload))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestWebhookRejectsNonPost(t *testing.T) {
	store := &fakeReconcileStore{}
	r := newWebhookRouter(store, "")

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/webhooks/calendly", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", method, w.Code)
		}
	}
	if len(store.created) != 0 || len(store.canceled) != 0 {
		t.Fatal("non-POST requests must not write anything")
	}
}

func TestWebhookUnknownEventAcknowledged(t *testing.T) {
	store := &fakeReconcileStore{}
	r := newWebhookRouter(store, "")

	body := `{"event": "routing_form_submission.created", "payload": {}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendly", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(store.created) != 0 || len(store.canceled) != 0 {
		t.Fatal("unknown events must not write anything")
	}
}
