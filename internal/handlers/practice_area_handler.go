package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kavanaghbl/chambers-site/internal/audit"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/middleware"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

type PracticeAreaHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPracticeAreaHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *PracticeAreaHandler {
	return &PracticeAreaHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type CreatePracticeAreaRequest struct {
	Slug    string `json:"slug" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
	Order   int    `json:"order"`
}

type UpdatePracticeAreaRequest struct {
	Name    *string `json:"name,omitempty"`
	Summary *string `json:"summary,omitempty"`
	Body    *string `json:"body,omitempty"`
	Order   *int    `json:"order,omitempty"`
}

// --------- Handlers ---------

func (h *PracticeAreaHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreatePracticeAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid practice area payload.")
		return
	}

	area := models.PracticeArea{
		Slug:    strings.ToLower(strings.TrimSpace(req.Slug)),
		Name:    req.Name,
		Summary: req.Summary,
		Body:    req.Body,
		Order:   req.Order,
	}

	if err := h.db.Create(&area).Error; err != nil {
		httperr.Internal(c, "failed_to_create_area", "Failed to create practice area.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "practice_area_created",
		Entity:   "practice_area",
		EntityID: &area.ID,
	})

	c.JSON(http.StatusCreated, area)
}

func (h *PracticeAreaHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var area models.PracticeArea
	if err := h.db.First(&area, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "practice_area_not_found", "Practice area not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_area", "Failed to load practice area.")
		return
	}

	var req UpdatePracticeAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid practice area payload.")
		return
	}

	if req.Name != nil {
		area.Name = *req.Name
	}
	if req.Summary != nil {
		area.Summary = *req.Summary
	}
	if req.Body != nil {
		area.Body = *req.Body
	}
	if req.Order != nil {
		area.Order = *req.Order
	}

	if err := h.db.Save(&area).Error; err != nil {
		httperr.Internal(c, "failed_to_update_area", "Failed to update practice area.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "practice_area_updated",
		Entity:   "practice_area",
		EntityID: &area.ID,
	})

	c.JSON(http.StatusOK, area)
}

func (h *PracticeAreaHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var area models.PracticeArea
	if err := h.db.First(&area, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "practice_area_not_found", "Practice area not found.")
		return
	}

	if err := h.db.Delete(&area).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_area", "Failed to delete practice area.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "practice_area_deleted",
		Entity:   "practice_area",
		EntityID: &area.ID,
	})

	c.Status(http.StatusNoContent)
}
