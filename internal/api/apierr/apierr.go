// Package apierr maps domain errors to HTTP responses.
package apierr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/askpaper/internal/domain"
)

// Status maps an error to its HTTP status code
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrNotSummarized),
		errors.Is(err, domain.ErrTextTooShort),
		errors.Is(err, domain.ErrExtraction):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the user-facing text for err
func Message(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotSummarized):
		return "Please summarize the paper first."
	case errors.Is(err, domain.ErrTextTooShort):
		return "Could not extract enough text from the provided URL."
	case errors.Is(err, domain.ErrOracle), errors.Is(err, domain.ErrUnrecognizedResponse):
		return "Error: " + err.Error()
	default:
		return err.Error()
	}
}

// JSON writes the {"ok": false, "error": ...} body and records err on the context
func JSON(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(Status(err), gin.H{"ok": false, "error": Message(err)})
}
