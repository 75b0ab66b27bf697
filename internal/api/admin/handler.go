// Package admin serves cache maintenance endpoints.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/askpaper/internal/api/apierr"
	"github.com/liliang-cn/askpaper/internal/domain"
	"github.com/liliang-cn/askpaper/internal/service"
)

// Handler handles admin API requests
type Handler struct {
	papers *service.PaperService
}

// NewHandler creates a new admin handler
func NewHandler(papers *service.PaperService) *Handler {
	return &Handler{papers: papers}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	documents := r.Group("/documents")
	{
		documents.GET("", h.GetDocument)
		documents.DELETE("", h.DeleteDocument)
	}
}

type documentInfo struct {
	URL       string         `json:"url"`
	Chars     int            `json:"chars"`
	Levels    []domain.Level `json:"levels"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// GetDocument describes a cached document without its text
func (h *Handler) GetDocument(c *gin.Context) {
	doc, err := h.papers.Document(c.Request.Context(), c.Query("url"))
	if err != nil {
		apierr.JSON(c, err)
		return
	}

	levels := make([]domain.Level, 0, len(doc.Summaries))
	for _, l := range domain.Levels {
		if _, ok := doc.Summaries[l]; ok {
			levels = append(levels, l)
		}
	}

	c.JSON(http.StatusOK, documentInfo{
		URL:       doc.URL,
		Chars:     len([]rune(doc.Text)),
		Levels:    levels,
		FetchedAt: doc.FetchedAt,
	})
}

// DeleteDocument purges a cached document
func (h *Handler) DeleteDocument(c *gin.Context) {
	if err := h.papers.Purge(c.Request.Context(), c.Query("url")); err != nil {
		apierr.JSON(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
