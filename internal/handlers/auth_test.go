package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esls/api/internal/config"
	"esls/api/internal/middleware"
	"esls/api/internal/models"
	"esls/api/internal/repository"
	"esls/api/internal/security"
	"esls/api/internal/service"
	"esls/api/internal/store"
)

// stubUsers serves a single fixed user for handler tests.
type stubUsers struct {
	user models.User
}

func (s stubUsers) Create(_ context.Context, u models.User) (models.User, error) { return u, nil }

func (s stubUsers) FindByID(_ context.Context, id int64) (models.User, error) {
	if id == s.user.ID {
		return s.user, nil
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s stubUsers) FindByName(_ context.Context, name string) (models.User, error) {
	if name == s.user.Name {
		return s.user, nil
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s stubUsers) FindByTelephone(_ context.Context, tel string) (models.User, error) {
	if tel != "" && tel == s.user.Telephone {
		return s.user, nil
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s stubUsers) FindByMail(_ context.Context, mail string) (models.User, error) {
	if mail != "" && mail == s.user.Mail {
		return s.user, nil
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s stubUsers) Save(context.Context, models.User) error { return nil }

func (s stubUsers) UpdatePassword(context.Context, int64, string, string) error { return nil }

func (s stubUsers) UpdateActivateStatus(context.Context, int64, byte) error { return nil }

func (s stubUsers) UpdateStatus(context.Context, int64, byte) (int64, error) { return 1, nil }

func newLoginRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.AppConfig{Security: config.SecurityConfig{
		JWTSecret:  "test-secret",
		SessionTTL: 30 * time.Minute,
	}}

	users := stubUsers{user: models.User{
		ID:           1,
		Name:         "alice",
		Telephone:    "13800138000",
		PasswordHash: security.HashPassword("pw1", "alice"),
		RawPassword:  "pw1",
		Status:       models.StatusEnabled,
	}}

	auth := service.NewAuthService(users, store.New(client), cfg, zerolog.Nop())
	h := HandlerSet{log: zerolog.Nop(), cfg: cfg, auth: auth}

	router := gin.New()
	router.Use(middleware.CORS(nil))
	router.POST("/api/v1/session", h.Login)
	router.GET("/api/v1/users/me", middleware.Session(h.auth), h.Me)
	return router
}

func doLogin(t *testing.T, router *gin.Engine, identifier, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(gin.H{"identifier": identifier, "password": password})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLoginHandler_TokenInHeader(t *testing.T) {
	router := newLoginRouter(t)

	w := doLogin(t, router, "alice", "pw1")
	require.Equal(t, http.StatusOK, w.Code)

	token := w.Header().Get(middleware.TokenHeader)
	require.NotEmpty(t, token, "session token must be returned in the ESLS header")

	var resp struct {
		User userResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Name)
}

func TestLoginHandler_TokenResolvesMe(t *testing.T) {
	router := newLoginRouter(t)

	w := doLogin(t, router, "alice", "pw1")
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(middleware.TokenHeader)

	me := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set(middleware.TokenHeader, token)
	router.ServeHTTP(me, req)

	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "alice")
}

func TestLoginHandler_ByTelephone(t *testing.T) {
	router := newLoginRouter(t)

	w := doLogin(t, router, "13800138000", "pw1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	router := newLoginRouter(t)

	w := doLogin(t, router, "alice", "wrong")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_credentials")
	assert.Empty(t, w.Header().Get(middleware.TokenHeader))
}

func TestLoginHandler_MissingFields(t *testing.T) {
	router := newLoginRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}
