package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/intake"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/models"
	ucIntake "github.com/kavanaghbl/chambers-site/internal/usecase/intake"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type IntakeHandler struct {
	repo     domain.Repository
	classify *ucIntake.ClassifyIntake
}

func NewIntakeHandler(repo domain.Repository, classify *ucIntake.ClassifyIntake) *IntakeHandler {
	return &IntakeHandler{
		repo:     repo,
		classify: classify,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type StartIntakeRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	RawText string `json:"raw_text" binding:"required"`
}

////////////////////////////////////////////////////////
// START
////////////////////////////////////////////////////////

// Start captures an initial enquiry and hands back the token the
// thank-you page and booking flow use.
func (h *IntakeHandler) Start(c *gin.Context) {
	var req StartIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Please enter your enquiry.")
		return
	}

	session := &models.IntakeSession{
		Token:   uuid.NewString(),
		Name:    req.Name,
		Email:   req.Email,
		RawText: req.RawText,
	}

	if err := h.repo.Create(c.Request.Context(), session); err != nil {
		httperr.Internal(c, "failed_to_create_intake", "Could not save your enquiry.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": session.Token})
}

////////////////////////////////////////////////////////
// THANK YOU (runs triage)
////////////////////////////////////////////////////////

// ThankYou backs the confirmation page. Triage runs at most once per
// session; when it is unavailable the page shows a conservative message.
func (h *IntakeHandler) ThankYou(c *gin.Context) {
	token := c.Param("token")

	session, err := h.repo.GetByToken(c.Request.Context(), token)
	if err != nil {
		httperr.NotFound(c, "intake_not_found", "Enquiry not found.")
		return
	}

	h.classify.Execute(c.Request.Context(), session)

	c.JSON(http.StatusOK, gin.H{
		"token":       session.Token,
		"name":        session.Name,
		"suitability": domain.FromPtr(session.IsSuitable),
	})
}
