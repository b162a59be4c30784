package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"esls/api/internal/config"
	"esls/api/internal/ids"
	"esls/api/internal/mail"
	"esls/api/internal/models"
	"esls/api/internal/repository"
	"esls/api/internal/security"
	"esls/api/internal/store"
)

var (
	ErrNameTaken         = errors.New("user name already registered")
	ErrActivationExpired = errors.New("activation code expired or unknown")
	ErrUserSave          = errors.New("user save failed")
	ErrUserNotExist      = errors.New("user does not exist")
)

type AccountService struct {
	users  UserDirectory
	roles  RoleDirectory
	store  *store.Store
	mailer mail.Mailer
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewAccountService(
	users UserDirectory,
	roles RoleDirectory,
	codeStore *store.Store,
	mailer mail.Mailer,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:  users,
		roles:  roles,
		store:  codeStore,
		mailer: mailer,
		cfg:    cfg,
		log:    log,
	}
}

type RegisterInput struct {
	Name      string
	Telephone string
	Mail      string
	Password  string
}

// Register creates a not-yet-activated user, parks the record under a fresh
// activation code, and mails the code. Mail delivery is best-effort: the
// account exists either way and the code stays redeemable until its TTL.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	if _, err := s.users.FindByName(ctx, input.Name); err == nil {
		return models.User{}, ErrNameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	user := models.User{
		Name:           input.Name,
		Telephone:      input.Telephone,
		Mail:           input.Mail,
		PasswordHash:   security.HashPassword(input.Password, input.Name),
		RawPassword:    input.Password,
		ActivateStatus: models.NotActivated,
		Status:         models.StatusEnabled,
	}

	user, err := s.users.Create(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUserSave, err)
	}

	code := ids.New()
	if err := s.store.Put(ctx, code, user, s.cfg.Security.ActivationTTL); err != nil {
		return models.User{}, err
	}

	if user.Mail != "" {
		if err := s.mailer.SendActivation(user.Mail, user.Name, code); err != nil {
			s.log.Warn().Err(err).Str("user", user.Name).Msg("activation mail failed")
		}
	}

	return user, nil
}

// Activate redeems an activation code: the user parked under the code gets
// its activation flag set, then the base role set is granted. Only the flag
// is written — the parked snapshot strips credentials on encoding and may
// predate later profile edits, so it is never persisted back. The code
// itself is left in the store until TTL expiry, so redeeming twice inside the
// window succeeds twice. A failed base grant does not undo the activation.
func (s *AccountService) Activate(ctx context.Context, code string) error {
	var user models.User
	found, err := s.store.Get(ctx, code, &user)
	if err != nil {
		return err
	}
	if !found {
		return ErrActivationExpired
	}

	if err := s.users.UpdateActivateStatus(ctx, user.ID, models.Activated); err != nil {
		return fmt.Errorf("%w: %v", ErrUserSave, err)
	}

	if err := s.roles.GrantBaseRoles(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("base role grant failed")
	}

	return nil
}

// UserRef selects the target of a password change, by id when set, otherwise
// by name.
type UserRef struct {
	ID   int64
	Name string
}

func (s *AccountService) ChangePassword(ctx context.Context, ref UserRef, newPassword string) error {
	var (
		user models.User
		err  error
	)
	switch {
	case ref.ID > 0:
		user, err = s.users.FindByID(ctx, ref.ID)
	case ref.Name != "":
		user, err = s.users.FindByName(ctx, ref.Name)
	default:
		return ErrUserNotExist
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotExist
		}
		return err
	}

	hash := security.HashPassword(newPassword, user.Name)
	if err := s.users.UpdatePassword(ctx, user.ID, hash, newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrUserSave, err)
	}
	return nil
}

// ToggleStatus flips the enabled flag of a user and returns the new state.
func (s *AccountService) ToggleStatus(ctx context.Context, id int64) (byte, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrUserNotExist
		}
		return 0, err
	}

	next := models.StatusEnabled
	if user.Status == models.StatusEnabled {
		next = models.StatusDisabled
	}

	rows, err := s.users.UpdateStatus(ctx, id, next)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, fmt.Errorf("%w: no row updated", ErrUserSave)
	}
	return next, nil
}
