package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kavanaghbl/chambers-site/internal/models"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// ReconcileStore persists the provider-side booking projection.
type ReconcileStore interface {
	UpsertCreated(ctx context.Context, booking *models.ExternalBooking) error
	UpsertCanceled(ctx context.Context, calendlyID string) error
}

type WebhookHandler struct {
	store      ReconcileStore
	signingKey string
}

func NewWebhookHandler(store ReconcileStore, signingKey string) *WebhookHandler {
	return &WebhookHandler{
		store:      store,
		signingKey: signingKey,
	}
}

////////////////////////////////////////////////////////
// PAYLOAD
////////////////////////////////////////////////////////

type calendlyEnvelope struct {
	Event   string          `json:"event"`
	Payload calendlyPayload `json:"payload"`
}

type calendlyPayload struct {
	UUID    string          `json:"uuid"`
	Event   calendlyEvent   `json:"event"`
	Invitee calendlyInvitee `json:"invitee"`
}

type calendlyEvent struct {
	UUID      string     `json:"uuid"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type calendlyInvitee struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p calendlyPayload) bookingID() string {
	switch {
	case p.Invitee.UUID != "":
		return p.Invitee.UUID
	case p.UUID != "":
		return p.UUID
	case p.Event.UUID != "":
		return p.Event.UUID
	}
	return "unknown"
}

////////////////////////////////////////////////////////
// RECEIVE
////////////////////////////////////////////////////////

// Receive handles Calendly webhook deliveries. With a signing key
// configured every delivery must carry a valid v1 signature; without one
// the endpoint is permissive. Event kinds we do not track are
// acknowledged so the provider stops retrying.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if h.signingKey != "" {
		if !h.verifySignature(c.GetHeader("Calendly-Webhook-Signature"), body) {
			c.String(http.StatusForbidden, "Invalid signature")
			return
		}
	}

	var env calendlyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	id := env.Payload.bookingID()

	switch env.Event {
	case "invitee.created":
		booking := &models.ExternalBooking{
			CalendlyID:   id,
			StartTime:    env.Payload.Event.StartTime,
			EndTime:      env.Payload.Event.EndTime,
			InviteeName:  env.Payload.Invitee.Name,
			InviteeEmail: env.Payload.Invitee.Email,
		}
		if err := h.store.UpsertCreated(c.Request.Context(), booking); err != nil {
			zap.L().Error("webhook upsert failed", zap.String("calendly_id", id), zap.Error(err))
			c.Status(http.StatusInternalServerError)
			return
		}

	case "invitee.canceled":
		if err := h.store.UpsertCanceled(c.Request.Context(), id); err != nil {
			zap.L().Error("webhook cancel failed", zap.String("calendly_id", id), zap.Error(err))
			c.Status(http.StatusInternalServerError)
			return
		}
	}

	c.Status(http.StatusNoContent)
}

// verifySignature checks the "t=...,v1=<hex hmac-sha256>" header format.
func (h *WebhookHandler) verifySignature(header string, body []byte) bool {
	if header == "" {
		return false
	}

	var provided string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return false
		}
		if strings.TrimSpace(kv[0]) == "v1" {
			provided = kv[1]
		}
	}
	if provided == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.signingKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(provided), []byte(expected))
}
