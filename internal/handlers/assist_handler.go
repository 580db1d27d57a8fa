package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kavanaghbl/chambers-site/internal/assist"
	"github.com/kavanaghbl/chambers-site/internal/llm"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type AssistHandler struct {
	service *assist.Service
	limiter *assist.RateLimiter
	enabled bool
}

func NewAssistHandler(service *assist.Service, limiter *assist.RateLimiter, enabled bool) *AssistHandler {
	return &AssistHandler{
		service: service,
		limiter: limiter,
		enabled: enabled,
	}
}

type AssistRequest struct {
	Message string        `json:"message"`
	History []llm.Message `json:"history"`
}

// Chat answers one widget message. Every failure path returns a polite
// reply with status 200; the widget never shows a server error.
func (h *AssistHandler) Chat(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusOK, gin.H{"reply": assist.DisabledReply})
		return
	}

	key := assist.ClientKey(c.ClientIP(), c.GetHeader("User-Agent"))
	if !h.limiter.Allow(c.Request.Context(), key) {
		c.JSON(http.StatusOK, gin.H{"reply": assist.ThrottledReply})
		return
	}

	var req AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reply": "Invalid request format"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"reply": "Please enter a message"})
		return
	}

	reply := h.service.Reply(c.Request.Context(), message, req.History)

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
