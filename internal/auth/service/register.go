package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/cryptox"
	"github.com/essivi/backoffice/pkg/idx"
	"github.com/essivi/backoffice/pkg/slogx"
)

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	Role            domain.Role
	FirstName       string
	LastName        string
	Phone           string
}

func (in *RegisterInput) validate() error {
	errs := newFieldErrors()

	in.Email = domain.NormalizeEmail(in.Email)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		errs.add("email", "une adresse email valide est requise")
	}
	if len(in.Password) < MinPasswordLength {
		errs.add("password", "le mot de passe doit contenir au moins 8 caracteres")
	}
	if in.Password != in.PasswordConfirm {
		errs.add("password_confirm", "les mots de passe ne correspondent pas")
	}
	if !in.Role.Valid() {
		errs.add("role", "role inconnu")
	}

	return errs.orNil()
}

// Register creates an account and mails a verification link. The notification
// is fire-and-forget: a mail failure is logged, never surfaced, and the
// account can still request a resend.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return domain.Account{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:           idx.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var rawToken string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateEmail
			}
			return err
		}

		rawToken, err = issueToken(ctx, tx, account, domain.PurposeEmailVerify, now)
		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	l.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)))

	s.sendAsync(ctx, "verification email", func(ctx context.Context) error {
		return s.Notifier.SendVerificationEmail(ctx, account.Email, rawToken)
	})

	return account, nil
}

// ResendVerification issues a fresh verification token. Prior tokens stay
// live until their own expiry; every mailed link works.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Answer success regardless so the endpoint cannot confirm
			// which emails exist.
			return nil
		}
		return err
	}
	if account.IsVerified {
		return nil
	}

	now := time.Now().UTC()
	rawToken, err := issueToken(ctx, s.Store, account, domain.PurposeEmailVerify, now)
	if err != nil {
		return err
	}

	s.sendAsync(ctx, "verification email", func(ctx context.Context) error {
		return s.Notifier.SendVerificationEmail(ctx, account.Email, rawToken)
	})
	return nil
}

// sendAsync runs a notifier call in the background with a fresh timeout so
// slow mail relays never hold up the request.
func (s *AuthService) sendAsync(ctx context.Context, what string, send func(context.Context) error) {
	l := slogx.FromContext(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(sendCtx); err != nil {
			l.Error("notification failed", slog.String("kind", what), slog.Any("error", err))
		}
	}()
}
