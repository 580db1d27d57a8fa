package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kavanaghbl/chambers-site/internal/config"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/httpresp"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewPublicHandler(db *gorm.DB, cfg *config.Config) *PublicHandler {
	return &PublicHandler{db: db, cfg: cfg}
}

////////////////////////////////////////////////////////
// HOMEPAGE
////////////////////////////////////////////////////////

func (h *PublicHandler) Home(c *gin.Context) {
	var homepage models.HomepageSettings
	h.db.FirstOrCreate(&homepage, models.HomepageSettings{ID: 1})

	var areas []models.PracticeArea
	h.db.Order("display_order ASC").Limit(3).Find(&areas)

	var featuredCases []models.CaseStudy
	h.db.Where("published = ?", true).
		Order("published_at DESC").
		Limit(3).
		Find(&featuredCases)

	var latestPosts []models.BlogPost
	h.db.Where("published = ?", true).
		Order("published_at DESC").
		Limit(3).
		Find(&latestPosts)

	c.JSON(http.StatusOK, gin.H{
		"site_name":      h.cfg.SiteName,
		"barrister_name": h.cfg.BarristerName,
		"homepage":       homepage,
		"practice_areas": areas,
		"featured_cases": featuredCases,
		"latest_posts":   latestPosts,
	})
}

////////////////////////////////////////////////////////
// SITE PAGES
////////////////////////////////////////////////////////

// Known pages are created on first read with placeholder content, the
// owner edits them afterwards.
var sitePageDefaults = map[string]models.SitePage{
	"about":   {Title: "About", Body: ""},
	"privacy": {Title: "Privacy Policy", Body: "<p>This is a placeholder privacy policy. Please update this content from the Owner area.</p>"},
	"terms":   {Title: "Terms of Use", Body: "<p>This is a placeholder terms of use. Please update this content from the Owner area.</p>"},
}

func (h *PublicHandler) SitePage(c *gin.Context) {
	slug := c.Param("slug")

	var page models.SitePage
	err := h.db.Where("slug = ?", slug).First(&page).Error
	if err == gorm.ErrRecordNotFound {
		def, known := sitePageDefaults[slug]
		if !known {
			httperr.NotFound(c, "page_not_found", "Page not found.")
			return
		}
		page = models.SitePage{Slug: slug, Title: def.Title, Body: def.Body}
		if err := h.db.Create(&page).Error; err != nil {
			httperr.Internal(c, "failed_to_load_page", "Failed to load page.")
			return
		}
	} else if err != nil {
		httperr.Internal(c, "failed_to_load_page", "Failed to load page.")
		return
	}

	httpresp.OK(c, page)
}

////////////////////////////////////////////////////////
// PRACTICE AREAS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListPracticeAreas(c *gin.Context) {
	var areas []models.PracticeArea
	if err := h.db.Order("display_order ASC").Find(&areas).Error; err != nil {
		httperr.Internal(c, "failed_to_list_areas", "Failed to list practice areas.")
		return
	}

	httpresp.List(c, areas)
}

func (h *PublicHandler) GetPracticeArea(c *gin.Context) {
	slug := c.Param("slug")

	var area models.PracticeArea
	if err := h.db.Where("slug = ?", slug).First(&area).Error; err != nil {
		httperr.NotFound(c, "practice_area_not_found", "Practice area not found.")
		return
	}

	httpresp.OK(c, area)
}

////////////////////////////////////////////////////////
// BLOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBlogPosts(c *gin.Context) {
	var posts []models.BlogPost
	if err := h.db.
		Where("published = ?", true).
		Order("published_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_posts", "Failed to list posts.")
		return
	}

	httpresp.List(c, posts)
}

func (h *PublicHandler) GetBlogPost(c *gin.Context) {
	slug := c.Param("slug")

	var post models.BlogPost
	if err := h.db.
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error; err != nil {
		httperr.NotFound(c, "post_not_found", "Post not found.")
		return
	}

	httpresp.OK(c, post)
}

////////////////////////////////////////////////////////
// CASE STUDIES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListCaseStudies(c *gin.Context) {
	var cases []models.CaseStudy
	if err := h.db.
		Where("published = ?", true).
		Order("published_at DESC, id DESC").
		Find(&cases).Error; err != nil {
		httperr.Internal(c, "failed_to_list_cases", "Failed to list case studies.")
		return
	}

	httpresp.List(c, cases)
}

func (h *PublicHandler) GetCaseStudy(c *gin.Context) {
	slug := c.Param("slug")

	var cs models.CaseStudy
	if err := h.db.
		Where("slug = ? AND published = ?", slug, true).
		First(&cs).Error; err != nil {
		httperr.NotFound(c, "case_not_found", "Case study not found.")
		return
	}

	httpresp.OK(c, cs)
}
