package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/hospital-portal/internal/rbac"
	"github.com/clinicore/hospital-portal/internal/roles"
)

// RequireAnyRole protects a server-rendered page. A denial redirects and
// aborts, so no handler after it runs. Pass fallback "" for the default
// neutral landing route.
func RequireAnyRole(
	guard *rbac.Guard,
	fallback string,
	required ...roles.Role,
) gin.HandlerFunc {

	return func(c *gin.Context) {
		denial := guard.RequireAnyRole(
			c.Request.Context(),
			CurrentUserID(c),
			required,
			fallback,
		)
		if denial != nil {
			c.Redirect(http.StatusSeeOther, denial.Redirect)
			c.Abort()
			return
		}

		c.Next()
	}
}

func RequireRole(
	guard *rbac.Guard,
	fallback string,
	required roles.Role,
) gin.HandlerFunc {
	return RequireAnyRole(guard, fallback, required)
}

// RequireAnyRoleJSON protects API routes: denials answer with status
// codes instead of redirects. Unauthenticated and denied requests are
// kept distinguishable (401 vs 403), but the body never says whether
// the resource exists.
func RequireAnyRoleJSON(
	guard *rbac.Guard,
	required ...roles.Role,
) gin.HandlerFunc {

	return func(c *gin.Context) {
		denial := guard.RequireAnyRole(
			c.Request.Context(),
			CurrentUserID(c),
			required,
			"",
		)
		if denial == nil {
			c.Next()
			return
		}

		if denial.Reason == rbac.ReasonUnauthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access_denied"})
	}
}
