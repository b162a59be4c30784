package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"esls/api/internal/middleware"
	"esls/api/internal/models"
	"esls/api/internal/service"
)

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type userResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Telephone      string `json:"telephone,omitempty"`
	Mail           string `json:"mail,omitempty"`
	ActivateStatus byte   `json:"activateStatus"`
	Status         byte   `json:"status"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Name:           user.Name,
		Telephone:      user.Telephone,
		Mail:           user.Mail,
		ActivateStatus: user.ActivateStatus,
		Status:         user.Status,
	}
}

// Login authenticates an identifier/password pair and returns the user with
// the session token in the ESLS header.
func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	sendLoginResponse(c, result)
}

func sendLoginResponse(c *gin.Context, result service.LoginResult) {
	c.Header(middleware.TokenHeader, result.Token)
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(result.User)})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
