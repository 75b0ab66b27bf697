// Package paper serves the summarize page and API.
package paper

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/liliang-cn/askpaper/internal/api/apierr"
	"github.com/liliang-cn/askpaper/internal/api/middleware"
	"github.com/liliang-cn/askpaper/internal/domain"
	"github.com/liliang-cn/askpaper/internal/service"
)

const indexTemplate = "index.html"

// Handler handles the index page and summarize requests
type Handler struct {
	papers *service.PaperService
}

// NewHandler creates a new paper handler
func NewHandler(papers *service.PaperService) *Handler {
	return &Handler{papers: papers}
}

// RegisterRoutes registers paper routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Index)
	r.POST("/summarize", h.Summarize)
}

type page struct {
	PaperURL string
	Level    domain.Level
	Levels   []domain.Level
	Summary  template.HTML
	Error    string
}

func newPage() page {
	return page{Level: domain.DefaultLevel, Levels: domain.Levels}
}

// Index renders the empty form
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, newPage())
}

// NotFound renders the page with a not-found error
func (h *Handler) NotFound(c *gin.Context) {
	p := newPage()
	p.Error = "Not Found"
	c.HTML(http.StatusNotFound, indexTemplate, p)
}

// Summarize handles form posts (re-rendering the page) and JSON requests
func (h *Handler) Summarize(c *gin.Context) {
	asJSON := c.ContentType() == binding.MIMEJSON

	var req domain.SummarizeRequest
	if err := c.ShouldBind(&req); err != nil {
		if asJSON {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid JSON"})
			return
		}
		p := newPage()
		p.Error = "Invalid form submission."
		c.HTML(http.StatusBadRequest, indexTemplate, p)
		return
	}
	level := domain.ParseLevel(req.Complexity)

	resp, err := h.papers.Summarize(c.Request.Context(), req.PaperURL, level)
	if asJSON {
		if err != nil {
			apierr.JSON(c, err)
			return
		}
		resp.SessionID = middleware.SessionID(c, req.SessionID)
		c.JSON(http.StatusOK, resp)
		return
	}

	p := newPage()
	p.PaperURL = req.PaperURL
	p.Level = level
	if err != nil {
		_ = c.Error(err)
		p.Error = apierr.Message(err)
		c.HTML(apierr.Status(err), indexTemplate, p)
		return
	}
	p.PaperURL = resp.PaperURL
	// the summary is model-produced HTML and is rendered as such
	p.Summary = template.HTML(resp.Summary)
	c.HTML(http.StatusOK, indexTemplate, p)
}
