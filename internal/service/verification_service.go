package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"

	"esls/api/internal/config"
	"esls/api/internal/ids"
	"esls/api/internal/repository"
	"esls/api/internal/sms"
	"esls/api/internal/store"
)

var (
	ErrVerifyCodeExpired = errors.New("verification code expired or never issued")
	ErrInvalidPhone      = errors.New("invalid phone number")
)

const phoneRegion = "CN"

type VerificationService struct {
	users   UserDirectory
	store   *store.Store
	sender  sms.Sender
	auth    *AuthService
	account *AccountService
	cfg     *config.AppConfig
	log     zerolog.Logger
}

func NewVerificationService(
	users UserDirectory,
	codeStore *store.Store,
	sender sms.Sender,
	auth *AuthService,
	account *AccountService,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		users:   users,
		store:   codeStore,
		sender:  sender,
		auth:    auth,
		account: account,
		cfg:     cfg,
		log:     log,
	}
}

type DispatchResult struct {
	SID string `json:"sid"`
}

// Issue generates a numeric code for the phone number's owner, parks it under
// the phone number, and dispatches it. The gateway template takes the code in
// all three parameter slots. The dispatch call is bounded by the configured
// SMS timeout since it crosses a third-party boundary.
func (s *VerificationService) Issue(ctx context.Context, phoneNumber string) (DispatchResult, error) {
	if parsed, err := phonenumbers.Parse(phoneNumber, phoneRegion); err != nil || !phonenumbers.IsValidNumber(parsed) {
		return DispatchResult{}, ErrInvalidPhone
	}

	if _, err := s.users.FindByTelephone(ctx, phoneNumber); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return DispatchResult{}, ErrUserNotExist
		}
		return DispatchResult{}, err
	}

	code, err := ids.NumericCode(s.cfg.Security.CodeLength)
	if err != nil {
		return DispatchResult{}, err
	}

	if err := s.store.Put(ctx, phoneNumber, code, s.cfg.Security.VerifyCodeTTL); err != nil {
		return DispatchResult{}, err
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, s.cfg.SMS.Timeout)
	defer cancel()

	sid, err := s.sender.Dispatch(dispatchCtx, phoneNumber, [3]string{code, code, code})
	if err != nil {
		return DispatchResult{}, fmt.Errorf("dispatch verification code: %w", err)
	}

	s.log.Info().Str("phone", phoneNumber).Msg("verification code dispatched")

	return DispatchResult{SID: sid}, nil
}

// VerifyOutcome reports what a code check resolved to. A mismatch is a soft
// outcome, not an error: Matched is false and the other fields are empty.
type VerifyOutcome struct {
	Matched         bool
	PasswordChanged bool
	Login           *LoginResult
}

// Verify compares the candidate code with the stored one. On a match it
// either performs a full login with the owner's stored raw credential (no new
// password supplied) or changes the owner's password to the supplied one.
// The stored code stays valid until its TTL lapses.
func (s *VerificationService) Verify(ctx context.Context, phoneNumber, code, newPassword string) (VerifyOutcome, error) {
	var stored string
	found, err := s.store.Get(ctx, phoneNumber, &stored)
	if err != nil {
		return VerifyOutcome{}, err
	}
	if !found {
		return VerifyOutcome{}, ErrVerifyCodeExpired
	}

	user, err := s.users.FindByTelephone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return VerifyOutcome{}, ErrUserNotExist
		}
		return VerifyOutcome{}, err
	}

	if code != stored {
		return VerifyOutcome{Matched: false}, nil
	}

	if newPassword == "" {
		result, err := s.auth.Login(ctx, user.Name, user.RawPassword)
		if err != nil {
			return VerifyOutcome{}, err
		}
		return VerifyOutcome{Matched: true, Login: &result}, nil
	}

	if err := s.account.ChangePassword(ctx, UserRef{ID: user.ID}, newPassword); err != nil {
		return VerifyOutcome{}, err
	}
	return VerifyOutcome{Matched: true, PasswordChanged: true}, nil
}
