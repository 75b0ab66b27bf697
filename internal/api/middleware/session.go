package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie names the cookie carrying the chat session id
	SessionCookie = "sid"
	sessionKey    = "session_id"
)

// Session reads the sid cookie, minting a new id and cookie when it is absent
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(sessionKey, sid)
		c.Next()
	}
}

// SessionID returns the id set by Session; override wins when non-empty
func SessionID(c *gin.Context, override string) string {
	if override != "" {
		return override
	}
	return c.GetString(sessionKey)
}
