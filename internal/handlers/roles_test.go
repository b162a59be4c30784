package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esls/api/internal/models"
	"esls/api/internal/repository"
	"esls/api/internal/service"
)

// stubRoles serves one existing role and records links in memory.
type stubRoles struct {
	roleID int64
	links  map[[2]int64]struct{}
}

func (s *stubRoles) FindByID(_ context.Context, id int64) (models.Role, error) {
	if id == s.roleID {
		return models.Role{ID: id, Name: "operator"}, nil
	}
	return models.Role{}, repository.ErrRoleNotFound
}

func (s *stubRoles) ListByUser(context.Context, int64) ([]models.Role, error) { return nil, nil }

func (s *stubRoles) LinkUserRole(_ context.Context, roleID, userID int64) (int64, error) {
	key := [2]int64{roleID, userID}
	if _, ok := s.links[key]; ok {
		return 0, nil
	}
	s.links[key] = struct{}{}
	return 1, nil
}

func (s *stubRoles) UnlinkUserRole(context.Context, int64, int64) (int64, error) { return 0, nil }

func (s *stubRoles) GrantBaseRoles(context.Context, int64) error { return nil }

func (s *stubRoles) ListPermissionNames(context.Context, int64) ([]string, error) { return nil, nil }

func newGrantRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := stubUsers{user: models.User{ID: 1, Name: "alice", Status: models.StatusEnabled}}
	roles := &stubRoles{roleID: 10, links: make(map[[2]int64]struct{})}
	h := HandlerSet{
		log:        zerolog.Nop(),
		roleGrants: service.NewRoleGrantService(users, roles, zerolog.Nop()),
	}

	router := gin.New()
	router.POST("/api/v1/users/roles", h.GrantRoles)
	return router
}

func postGrant(t *testing.T, router *gin.Engine, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/roles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestGrantRolesHandler_OneBasedKeys(t *testing.T) {
	router := newGrantRouter()

	// role 99 absent, user 2 absent
	w := postGrant(t, router, gin.H{
		"userIds":        []int64{1, 2},
		"roleIdsPerUser": [][]int64{{10, 99}, {10}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result map[string]int `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]int{"1": 1, "2": 0}, resp.Result)
}

func TestGrantRolesHandler_LengthMismatch(t *testing.T) {
	router := newGrantRouter()

	w := postGrant(t, router, gin.H{
		"userIds":        []int64{1, 2},
		"roleIdsPerUser": [][]int64{{10}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "parameter_mismatch")
}

func TestGrantRolesHandler_MissingBody(t *testing.T) {
	router := newGrantRouter()

	w := postGrant(t, router, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}
