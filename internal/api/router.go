package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liliang-cn/askpaper/internal/api/admin"
	"github.com/liliang-cn/askpaper/internal/api/chat"
	"github.com/liliang-cn/askpaper/internal/api/middleware"
	"github.com/liliang-cn/askpaper/internal/api/paper"
	"github.com/liliang-cn/askpaper/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	paperService *service.PaperService,
	chatService *service.ChatService,
	cfg RouterConfig,
	log *zap.Logger,
) (*gin.Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := SetupStaticRoutes(r); err != nil {
		return nil, err
	}

	// Page and public API share the session cookie
	public := r.Group("/")
	public.Use(middleware.Session())
	paperHandler := paper.NewHandler(paperService)
	paperHandler.RegisterRoutes(public)
	chat.NewHandler(chatService).RegisterRoutes(public)

	// Admin API (requires API key)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	admin.NewHandler(paperService).RegisterRoutes(adminGroup)

	r.NoRoute(middleware.Session(), paperHandler.NotFound)

	return r, nil
}
