package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"esls/api/internal/config"
	"esls/api/internal/models"
	"esls/api/internal/repository"
	"esls/api/internal/security"
	"esls/api/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionStore       = errors.New("session store failure")
)

type AuthService struct {
	users UserDirectory
	store *store.Store
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users UserDirectory, sessionStore *store.Store, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		store: sessionStore,
		cfg:   cfg,
		log:   log,
	}
}

type LoginResult struct {
	Token string
	User  models.User
}

// Login resolves the identifier as a username, then a telephone number, then
// a mail address; the first record found is the one authenticated. A wrong
// password after a match is terminal, there is no fallback to the next
// identifier kind.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	user, err := s.resolveIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !security.VerifyPassword(password, user.Name, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) resolveIdentifier(ctx context.Context, identifier string) (models.User, error) {
	lookups := []func(context.Context, string) (models.User, error){
		s.users.FindByName,
		s.users.FindByTelephone,
		s.users.FindByMail,
	}

	for _, lookup := range lookups {
		user, err := lookup(ctx, identifier)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, err
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

// issueSession mints a session token and persists the user snapshot under the
// FULL token string. The session is only resolvable by presenting the exact
// token, not the session id alone.
func (s *AuthService) issueSession(ctx context.Context, user models.User) (LoginResult, error) {
	token, err := security.MintSessionToken(s.cfg.Security.JWTSecret, user.Name, s.cfg.Security.SessionTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("mint session token: %w", err)
	}

	if err := s.store.Put(ctx, token, user, s.cfg.Security.SessionTTL); err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrSessionStore, err)
	}

	s.log.Debug().Str("user", user.Name).Msg("session issued")

	return LoginResult{Token: token, User: user}, nil
}

// ResolveSession looks up the user snapshot stored under a bearer token.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (models.User, bool, error) {
	var user models.User
	found, err := s.store.Get(ctx, token, &user)
	if err != nil {
		return models.User{}, false, fmt.Errorf("%w: %v", ErrSessionStore, err)
	}
	return user, found, nil
}
