package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type grantRolesRequest struct {
	UserIDs        []int64   `json:"userIds" binding:"required"`
	RoleIDsPerUser [][]int64 `json:"roleIdsPerUser" binding:"required"`
}

// GrantRoles batch-applies role links. The response maps the 1-based request
// position of each user to the number of roles granted; 0 marks users that
// do not exist.
func (h HandlerSet) GrantRoles(c *gin.Context) {
	var req grantRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	result, err := h.roleGrants.Grant(c.Request.Context(), req.UserIDs, req.RoleIDsPerUser)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h HandlerSet) RevokeRoles(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid id"})
		return
	}

	var roleIDs []int64
	if err := c.ShouldBindJSON(&roleIDs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	result, err := h.roleGrants.Revoke(c.Request.Context(), userID, roleIDs)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h HandlerSet) RolesOfUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid id"})
		return
	}

	roles, err := h.roles.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role_lookup_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}
