package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"esls/api/internal/models"
	"esls/api/internal/service"
)

// TokenHeader carries the session token on every authenticated request and on
// the login response.
const TokenHeader = "ESLS"

const currentUserKey = "current_user"

// Session resolves the ESLS header against the session store. The full token
// string is the store key; the session id alone resolves nothing.
func Session(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		user, found, err := auth.ResolveSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session_store_error"})
			return
		}
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_expired"})
			return
		}

		if user.Status != models.StatusEnabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user_disabled"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the session user injected by Session.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
