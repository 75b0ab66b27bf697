// Package chat serves the chat API.
package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/askpaper/internal/api/apierr"
	"github.com/liliang-cn/askpaper/internal/api/middleware"
	"github.com/liliang-cn/askpaper/internal/domain"
	"github.com/liliang-cn/askpaper/internal/service"
)

// Handler handles chat requests
type Handler struct {
	chats *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chats *service.ChatService) *Handler {
	return &Handler{chats: chats}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/chat", h.Chat)
	r.GET("/chat/history", h.History)
}

// Chat handles a chat message
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid JSON"})
		return
	}
	req.SessionID = middleware.SessionID(c, req.SessionID)

	resp, err := h.chats.Chat(c.Request.Context(), &req)
	if err != nil {
		apierr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// History returns the session's turns for a paper
func (h *Handler) History(c *gin.Context) {
	paperURL := c.Query("paper_url")
	if paperURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing url"})
		return
	}
	sid := middleware.SessionID(c, c.Query("session_id"))

	history := h.chats.History(c.Request.Context(), sid, paperURL)
	if history == nil {
		history = []domain.Turn{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "history": history})
}
