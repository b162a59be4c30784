package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"esls/api/internal/service"
)

// Permit gates a route on a named permission tag. The session user's tags are
// loaded through the role directory on each request.
func Permit(roles service.RoleDirectory, tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		names, err := roles.ListPermissionNames(c.Request.Context(), user.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "permission_lookup_failed"})
			return
		}

		for _, name := range names {
			if name == tag {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
