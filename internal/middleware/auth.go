package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/hospital-portal/internal/sessions"
)

const ContextUserID = "userID"

// Identity extracts and validates the session token, if any, and stores
// the user id in the request context. It never aborts: enforcement
// belongs to the guards, so an anonymous visitor still reaches the
// guard and gets redirected to the login page instead of a bare 401.
// Invalid, expired and revoked tokens all count as anonymous, as does a
// failed revocation check (fail-closed).
func Identity(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		userID, err := mgr.Verify(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(sessions.CookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	return ""
}

// CurrentUserID returns the authenticated user id, or "" for anonymous
// requests.
func CurrentUserID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
