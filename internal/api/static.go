package api

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(webFS, "web/templates/*.html")
}

// SetupStaticRoutes serves the embedded css/js under /static
func SetupStaticRoutes(r *gin.Engine) error {
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return err
	}
	r.StaticFS("/static", http.FS(static))
	return nil
}
