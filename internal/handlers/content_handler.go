package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kavanaghbl/chambers-site/internal/audit"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/middleware"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

// ======================================================
// HANDLER (owner-side site content)
// ======================================================

type ContentHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewContentHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ContentHandler {
	return &ContentHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type UpdateHomepageRequest struct {
	Headline    *string `json:"headline,omitempty"`
	Subheadline *string `json:"subheadline,omitempty"`
	CTALabel    *string `json:"cta_label,omitempty"`
	CTAUrl      *string `json:"cta_url,omitempty"`
}

type UpsertSitePageRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// --------- Homepage ---------

func (h *ContentHandler) UpdateHomepage(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var settings models.HomepageSettings
	if err := h.db.FirstOrCreate(&settings, models.HomepageSettings{ID: 1}).Error; err != nil {
		httperr.Internal(c, "failed_to_load_homepage", "Failed to load homepage settings.")
		return
	}

	var req UpdateHomepageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid homepage payload.")
		return
	}

	if req.Headline != nil {
		settings.Headline = *req.Headline
	}
	if req.Subheadline != nil {
		settings.Subheadline = *req.Subheadline
	}
	if req.CTALabel != nil {
		settings.CTALabel = *req.CTALabel
	}
	if req.CTAUrl != nil {
		settings.CTAUrl = *req.CTAUrl
	}

	if err := h.db.Save(&settings).Error; err != nil {
		httperr.Internal(c, "failed_to_update_homepage", "Failed to update homepage settings.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID: &userID,
		Action: "homepage_updated",
		Entity: "homepage_settings",
	})

	c.JSON(http.StatusOK, settings)
}

// --------- Site pages ---------

func (h *ContentHandler) UpsertSitePage(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	slug := c.Param("slug")

	var req UpsertSitePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid page payload.")
		return
	}

	var page models.SitePage
	err := h.db.Where("slug = ?", slug).First(&page).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		page = models.SitePage{Slug: slug, Title: req.Title, Body: req.Body}
		if err := h.db.Create(&page).Error; err != nil {
			httperr.Internal(c, "failed_to_save_page", "Failed to save page.")
			return
		}
	case err != nil:
		httperr.Internal(c, "failed_to_save_page", "Failed to save page.")
		return
	default:
		page.Title = req.Title
		page.Body = req.Body
		if err := h.db.Save(&page).Error; err != nil {
			httperr.Internal(c, "failed_to_save_page", "Failed to save page.")
			return
		}
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "site_page_saved",
		Entity:   "site_page",
		EntityID: &page.ID,
		Metadata: gin.H{"slug": slug},
	})

	c.JSON(http.StatusOK, page)
}
