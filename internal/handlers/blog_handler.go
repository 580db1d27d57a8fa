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

type BlogHandler struct {
	db    *gorm.DB
	media *storage.MediaUploader
	audit *audit.Dispatcher
}

func NewBlogHandler(db *gorm.DB, media *storage.MediaUploader, dispatcher *audit.Dispatcher) *BlogHandler {
	return &BlogHandler{db: db, media: media, audit: dispatcher}
}

// --------- Requests ---------

type CreateBlogPostRequest struct {
	Slug    string `json:"slug" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Excerpt string `json:"excerpt"`
	Body    string `json:"body"`
}

type UpdateBlogPostRequest struct {
	Title     *string `json:"title,omitempty"`
	Excerpt   *string `json:"excerpt,omitempty"`
	Body      *string `json:"body,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// --------- Handlers ---------

// ListAll includes drafts; the public listing only shows published posts.
func (h *BlogHandler) ListAll(c *gin.Context) {
	var posts []models.BlogPost
	if err := h.db.Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_posts", "Failed to list posts.")
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *BlogHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid post payload.")
		return
	}

	post := models.BlogPost{
		Slug:    strings.ToLower(strings.TrimSpace(req.Slug)),
		Title:   req.Title,
		Excerpt: req.Excerpt,
		Body:    req.Body,
	}

	if err := h.db.Create(&post).Error; err != nil {
		httperr.Internal(c, "failed_to_create_post", "Failed to create post.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "blog_post_created",
		Entity:   "blog_post",
		EntityID: &post.ID,
	})

	c.JSON(http.StatusCreated, post)
}

func (h *BlogHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var post models.BlogPost
	if err := h.db.First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "post_not_found", "Post not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_post", "Failed to load post.")
		return
	}

	var req UpdateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid post payload.")
		return
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Published != nil {
		post.Published = *req.Published
		if post.Published && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	}

	if err := h.db.Save(&post).Error; err != nil {
		httperr.Internal(c, "failed_to_update_post", "Failed to update post.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "blog_post_updated",
		Entity:   "blog_post",
		EntityID: &post.ID,
	})

	c.JSON(http.StatusOK, post)
}

// UploadCover accepts a multipart image, converts it and stores the
// public URL on the post.
func (h *BlogHandler) UploadCover(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	if h.media == nil {
		httperr.BadRequest(c, "media_not_configured", "Object storage is not configured.")
		return
	}

	var post models.BlogPost
	if err := h.db.First(&post, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "post_not_found", "Post not found.")
		return
	}

	file, _, err := c.Request.FormFile("cover")
	if err != nil {
		httperr.BadRequest(c, "missing_cover_file", "Send the image in the 'cover' field.")
		return
	}
	defer file.Close()

	url, err := h.media.UploadCover(c.Request.Context(), "blog", file)
	if err != nil {
		httperr.Internal(c, "failed_to_upload_cover", "Failed to process cover image.")
		return
	}

	post.CoverURL = url
	if err := h.db.Save(&post).Error; err != nil {
		httperr.Internal(c, "failed_to_update_post", "Failed to save cover URL.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "blog_cover_uploaded",
		Entity:   "blog_post",
		EntityID: &post.ID,
	})

	c.JSON(http.StatusOK, gin.H{"cover_url": url})
}

func (h *BlogHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var post models.BlogPost
	if err := h.db.First(&post, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "post_not_found", "Post not found.")
		return
	}

	if err := h.db.Delete(&post).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_post", "Failed to delete post.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "blog_post_deleted",
		Entity:   "blog_post",
		EntityID: &post.ID,
	})

	c.Status(http.StatusNoContent)
}
