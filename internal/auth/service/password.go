package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/cryptox"
	"github.com/essivi/backoffice/pkg/slogx"
)

// RequestPasswordReset mails a reset link when the email is known. It always
// reports success so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = domain.NormalizeEmail(email)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if !account.IsActive {
		return nil
	}

	now := time.Now().UTC()
	rawToken, err := issueToken(ctx, s.Store, account, domain.PurposePasswordReset, now)
	if err != nil {
		return err
	}

	l.Info("password reset requested", slog.String("account_id", account.ID))

	s.sendAsync(ctx, "password reset email", func(ctx context.Context) error {
		return s.Notifier.SendPasswordResetEmail(ctx, account.Email, rawToken)
	})
	return nil
}

// ConfirmPasswordReset redeems a reset token and sets the new password. The
// token consumption, password swap and session revocation commit together;
// existing sessions die with the old password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, rawToken, password, passwordConfirm string) error {
	if err := validateNewPassword(password, passwordConfirm); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := lookupToken(ctx, tx, rawToken, domain.PurposePasswordReset, now)
		if err != nil {
			return err
		}

		if err := tx.VerificationTokens().ConsumeToken(ctx, t.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenUsed
			}
			return err
		}

		if err := tx.Accounts().UpdatePasswordHash(ctx, t.AccountID, hash); err != nil {
			return err
		}
		return tx.Sessions().RevokeAccountSessions(ctx, t.AccountID)
	})
}

// ChangePassword swaps the password for an authenticated account after
// re-checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, password, passwordConfirm string) error {
	if err := validateNewPassword(password, passwordConfirm); err != nil {
		return err
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(current, account.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Store.Accounts().UpdatePasswordHash(ctx, accountID, hash)
}

func validateNewPassword(password, confirm string) error {
	errs := newFieldErrors()
	if len(password) < MinPasswordLength {
		errs.add("password", "le mot de passe doit contenir au moins 8 caracteres")
	}
	if password != confirm {
		errs.add("password_confirm", "les mots de passe ne correspondent pas")
	}
	return errs.orNil()
}
