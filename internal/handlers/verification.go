package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) SendVerificationCode(c *gin.Context) {
	phoneNumber := c.Query("phoneNumber")
	if phoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "phoneNumber required"})
		return
	}

	result, err := h.verification.Issue(c.Request.Context(), phoneNumber)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dispatch": result})
}

// CheckVerificationCode validates a code against the phone number it was
// issued for. A match without a password behaves like a login (token in the
// ESLS header); a match with a password behaves like a password change; a
// mismatch is a plain 400 body.
func (h HandlerSet) CheckVerificationCode(c *gin.Context) {
	phoneNumber := c.Query("phoneNumber")
	code := c.Query("code")
	if phoneNumber == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "phoneNumber and code required"})
		return
	}
	newPassword := c.Query("password")

	outcome, err := h.verification.Verify(c.Request.Context(), phoneNumber, code, newPassword)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if !outcome.Matched {
		c.JSON(http.StatusBadRequest, gin.H{"message": "verification failed"})
		return
	}

	if outcome.PasswordChanged {
		c.JSON(http.StatusOK, gin.H{"message": "password changed"})
		return
	}

	sendLoginResponse(c, *outcome.Login)
}
