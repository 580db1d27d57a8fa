package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kavanaghbl/chambers-site/internal/audit"
	domain "github.com/kavanaghbl/chambers-site/internal/domain/intake"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/middleware"
	ucIntake "github.com/kavanaghbl/chambers-site/internal/usecase/intake"
)

// ======================================================
// HANDLER (owner-side intake review)
// ======================================================

type OwnerIntakeHandler struct {
	repo    domain.Repository
	analyse *ucIntake.AnalyseIntake
	audit   *audit.Dispatcher
}

func NewOwnerIntakeHandler(
	repo domain.Repository,
	analyse *ucIntake.AnalyseIntake,
	dispatcher *audit.Dispatcher,
) *OwnerIntakeHandler {
	return &OwnerIntakeHandler{
		repo:    repo,
		analyse: analyse,
		audit:   dispatcher,
	}
}

func (h *OwnerIntakeHandler) List(c *gin.Context) {
	sessions, err := h.repo.List(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_intakes", "Failed to list enquiries.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"intakes": sessions})
}

func (h *OwnerIntakeHandler) Get(c *gin.Context) {
	token := c.Param("token")

	session, err := h.repo.GetByToken(c.Request.Context(), token)
	if err != nil {
		httperr.NotFound(c, "intake_not_found", "Enquiry not found.")
		return
	}

	bookings, err := h.repo.ListBookingsForIntake(c.Request.Context(), session.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_intake", "Failed to load enquiry.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"intake":      session,
		"suitability": domain.FromPtr(session.IsSuitable),
		"bookings":    bookings,
	})
}

// Analyse runs the full structured analysis on demand. Unlike triage,
// failures here surface to the owner.
func (h *OwnerIntakeHandler) Analyse(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	token := c.Param("token")

	session, err := h.repo.GetByToken(c.Request.Context(), token)
	if err != nil {
		httperr.NotFound(c, "intake_not_found", "Enquiry not found.")
		return
	}

	if err := h.analyse.Execute(c.Request.Context(), session); err != nil {
		if httperr.IsBusiness(err, "llm_not_configured") {
			httperr.BadRequest(c, "llm_not_configured", "AI analysis is not configured.")
			return
		}
		httperr.Internal(c, "analysis_failed", "AI analysis failed. Try again later.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "intake_analysed",
		Entity:   "intake_session",
		EntityID: &session.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"intake":            session,
		"structured_output": session.StructuredMap(),
	})
}
