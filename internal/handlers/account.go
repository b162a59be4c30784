package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"esls/api/internal/service"
)

type registerRequest struct {
	Name      string `json:"name" binding:"required"`
	Telephone string `json:"telephone"`
	Mail      string `json:"mail" binding:"omitempty,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	user, err := h.account.Register(c.Request.Context(), service.RegisterInput{
		Name:      req.Name,
		Telephone: req.Telephone,
		Mail:      req.Mail,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) Activate(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "code required"})
		return
	}

	if err := h.account.Activate(c.Request.Context(), code); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "activation successful"})
}

type changePasswordRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ChangePassword resolves the target user from the body (id first, name as
// fallback) and replaces the credential with the newPassword query value.
func (h HandlerSet) ChangePassword(c *gin.Context) {
	newPassword := c.Query("newPassword")
	if newPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "newPassword required"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	ref := service.UserRef{ID: req.ID, Name: req.Name}
	if err := h.account.ChangePassword(c.Request.Context(), ref, newPassword); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h HandlerSet) ToggleStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid id"})
		return
	}

	status, err := h.account.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status toggled", "status": status})
}
