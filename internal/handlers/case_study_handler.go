package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kavanaghbl/chambers-site/internal/audit"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/middleware"
	"github.com/kavanaghbl/chambers-site/internal/models"
	"github.com/kavanaghbl/chambers-site/internal/storage"
)

type CaseStudyHandler struct {
	db    *gorm.DB
	media *storage.MediaUploader
	audit *audit.Dispatcher
}

func NewCaseStudyHandler(db *gorm.DB, media *storage.MediaUploader, dispatcher *audit.Dispatcher) *CaseStudyHandler {
	return &CaseStudyHandler{db: db, media: media, audit: dispatcher}
}

// --------- Requests ---------

type CreateCaseStudyRequest struct {
	Slug    string `json:"slug" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

type UpdateCaseStudyRequest struct {
	Title     *string `json:"title,omitempty"`
	Summary   *string `json:"summary,omitempty"`
	Body      *string `json:"body,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// --------- Handlers ---------

func (h *CaseStudyHandler) ListAll(c *gin.Context) {
	var cases []models.CaseStudy
	if err := h.db.Order("created_at DESC, id DESC").Find(&cases).Error; err != nil {
		httperr.Internal(c, "failed_to_list_cases", "Failed to list case studies.")
		return
	}

	c.JSON(http.StatusOK, cases)
}

func (h *CaseStudyHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateCaseStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid case study payload.")
		return
	}

	cs := models.CaseStudy{
		Slug:    strings.ToLower(strings.TrimSpace(req.Slug)),
		Title:   req.Title,
		Summary: req.Summary,
		Body:    req.Body,
	}

	if err := h.db.Create(&cs).Error; err != nil {
		httperr.Internal(c, "failed_to_create_case", "Failed to create case study.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "case_study_created",
		Entity:   "case_study",
		EntityID: &cs.ID,
	})

	c.JSON(http.StatusCreated, cs)
}

func (h *CaseStudyHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var cs models.CaseStudy
	if err := h.db.First(&cs, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "case_not_found", "Case study not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_case", "Failed to load case study.")
		return
	}

	var req UpdateCaseStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid case study payload.")
		return
	}

	if req.Title != nil {
		cs.Title = *req.Title
	}
	if req.Summary != nil {
		cs.Summary = *req.Summary
	}
	if req.Body != nil {
		cs.Body = *req.Body
	}
	if req.Published != nil {
		cs.Published = *req.Published
		if cs.Published && cs.PublishedAt == nil {
			now := time.Now()
			cs.PublishedAt = &now
		}
	}

	if err := h.db.Save(&cs).Error; err != nil {
		httperr.Internal(c, "failed_to_update_case", "Failed to update case study.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "case_study_updated",
		Entity:   "case_study",
		EntityID: &cs.ID,
	})

	c.JSON(http.StatusOK, cs)
}

func (h *CaseStudyHandler) UploadCover(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	if h.media == nil {
		httperr.BadRequest(c, "media_not_configured", "Object storage is not configured.")
		return
	}

	var cs models.CaseStudy
	if err := h.db.First(&cs, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "case_not_found", "Case study not found.")
		return
	}

	file, _, err := c.Request.FormFile("cover")
	if err != nil {
		httperr.BadRequest(c, "missing_cover_file", "Send the image in the 'cover' field.")
		return
	}
	defer file.Close()

	url, err := h.media.UploadCover(c.Request.Context(), "cases", file)
	if err != nil {
		httperr.Internal(c, "failed_to_upload_cover", "Failed to process cover image.")
		return
	}

	cs.CoverURL = url
	if err := h.db.Save(&cs).Error; err != nil {
		httperr.Internal(c, "failed_to_update_case", "Failed to save cover URL.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "case_cover_uploaded",
		Entity:   "case_study",
		EntityID: &cs.ID,
	})

	c.JSON(http.StatusOK, gin.H{"cover_url": url})
}

func (h *CaseStudyHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var cs models.CaseStudy
	if err := h.db.First(&cs, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "case_not_found", "Case study not found.")
		return
	}

	if err := h.db.Delete(&cs).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_case", "Failed to delete case study.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "case_study_deleted",
		Entity:   "case_study",
		EntityID: &cs.ID,
	})

	c.Status(http.StatusNoContent)
}
