// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/pkg/session"
)

const sessionIDKey = "session_id"

// Session resolves the anonymous browser session from the signed
// cookie, issuing a fresh one when the cookie is absent, expired or
// tampered with. Every cart endpoint runs behind it.
func Session(cfg *config.Config, manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string

		if token, err := c.Cookie(cfg.Session.CookieName); err == nil && token != "" {
			if id, err := manager.ValidateToken(token); err == nil {
				sessionID = id
			}
		}

		if sessionID == "" {
			id, token, err := manager.NewSession()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to establish session",
				})
				c.Abort()
				return
			}
			sessionID = id

			maxAge := int(cfg.Session.TTL.Seconds())
			c.SetCookie(cfg.Session.CookieName, token, maxAge, "/", "", cfg.IsProduction(), true)
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session id resolved by the Session middleware
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
