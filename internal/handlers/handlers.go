package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"esls/api/internal/config"
	"esls/api/internal/mail"
	"esls/api/internal/middleware"
	"esls/api/internal/repository"
	"esls/api/internal/service"
	"esls/api/internal/sms"
	"esls/api/internal/store"
)

// Permission tags gating the administrative routes.
const (
	PermChangePassword = "user:change-password"
	PermToggleStatus   = "user:toggle-status"
	PermGrantRoles     = "user:grant-roles"
)

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	auth         *service.AuthService
	account      *service.AccountService
	verification *service.VerificationService
	roleGrants   *service.RoleGrantService
	roles        *repository.RoleRepository
	audit        *repository.AuditRepository
	db           *pgxpool.Pool
	cache        *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	ephemeral := store.New(cache)
	mailer := mail.NewSMTPMailer(cfg.Mail)
	sender := sms.NewGatewaySender(cfg.SMS)

	auth := service.NewAuthService(userRepo, ephemeral, cfg, log)
	account := service.NewAccountService(userRepo, roleRepo, ephemeral, mailer, cfg, log)
	verification := service.NewVerificationService(userRepo, ephemeral, sender, auth, account, cfg, log)
	roleGrants := service.NewRoleGrantService(userRepo, roleRepo, log)

	return HandlerSet{
		log:          log,
		cfg:          cfg,
		auth:         auth,
		account:      account,
		verification: verification,
		roleGrants:   roleGrants,
		roles:        roleRepo,
		audit:        auditRepo,
		db:           db,
		cache:        cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		v1.POST("/session", h.Login)

		users := v1.Group("/users")
		users.POST("", h.RegisterUser)
		users.GET("/activation", h.Activate)
		users.POST("/verification", h.SendVerificationCode)
		users.POST("/verification/check", h.CheckVerificationCode)

		protected := v1.Group("/users")
		protected.Use(middleware.Session(h.auth))
		protected.GET("/me", h.Me)
		protected.GET("/:id/roles", h.RolesOfUser)
		protected.POST("/password",
			middleware.Permit(h.roles, PermChangePassword),
			middleware.Audit(h.audit, h.log, "change password"),
			h.ChangePassword,
		)
		protected.PUT("/:id/status",
			middleware.Permit(h.roles, PermToggleStatus),
			middleware.Audit(h.audit, h.log, "toggle user status"),
			h.ToggleStatus,
		)
		protected.POST("/roles",
			middleware.Permit(h.roles, PermGrantRoles),
			middleware.Audit(h.audit, h.log, "batch role grant"),
			h.GrantRoles,
		)
		protected.POST("/:id/roles/revoke",
			middleware.Permit(h.roles, PermGrantRoles),
			middleware.Audit(h.audit, h.log, "batch role revoke"),
			h.RevokeRoles,
		)
	}
}

// writeServiceError translates a typed service failure into the error
// envelope. Soft failures never reach this path.
func writeServiceError(c *gin.Context, err error) {
	type mapping struct {
		target error
		status int
		code   string
	}
	mappings := []mapping{
		{service.ErrInvalidCredentials, http.StatusBadRequest, "invalid_credentials"},
		{service.ErrActivationExpired, http.StatusBadRequest, "activation_expired"},
		{service.ErrUserNotExist, http.StatusBadRequest, "user_not_exist"},
		{service.ErrVerifyCodeExpired, http.StatusBadRequest, "verify_code_expired"},
		{service.ErrParameterMismatch, http.StatusBadRequest, "parameter_mismatch"},
		{service.ErrNameTaken, http.StatusBadRequest, "name_taken"},
		{service.ErrInvalidPhone, http.StatusBadRequest, "invalid_phone"},
		{service.ErrUserSave, http.StatusInternalServerError, "user_save_error"},
		{service.ErrSessionStore, http.StatusInternalServerError, "session_store_error"},
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, gin.H{"error": m.code, "message": m.target.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
