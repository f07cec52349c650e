package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/cryptox"
	"github.com/essivi/backoffice/pkg/idx"
	"github.com/essivi/backoffice/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

// SendOTP mails a fresh 6-digit code to the account's email for two-factor
// enablement. Previous live codes are consumed first so only the newest code
// works.
func (s *AuthService) SendOTP(ctx context.Context, accountID string) error {
	l := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	code, err := cryptox.GenerateNumericCode(domain.OTPLength)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OTPCodes().InvalidateAccountOTPCodes(ctx, account.ID, now); err != nil {
			return err
		}
		return tx.OTPCodes().CreateOTPCode(ctx, domain.OTPCode{
			ID:        idx.New().String(),
			AccountID: account.ID,
			Code:      code,
			ExpiresAt: now.Add(domain.OTPWindow),
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	l.Info("otp issued", slog.String("account_id", account.ID))

	s.sendAsync(ctx, "otp email", func(ctx context.Context) error {
		return s.Notifier.SendOTPEmail(ctx, account.Email, code)
	})
	return nil
}

// VerifyOTP redeems a code for the given account. On success the code is
// consumed, two-factor is enabled and a TOTP secret is generated and stored
// for authenticator apps. Returns the otpauth provisioning URL.
func (s *AuthService) VerifyOTP(ctx context.Context, accountID, code string) (string, error) {
	now := time.Now().UTC()

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: account.Email,
	})
	if err != nil {
		return "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		otpCode, err := tx.OTPCodes().GetActiveOTPCode(ctx, accountID, code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidOTP
			}
			return err
		}
		if otpCode.IsExpired(now) {
			return ErrInvalidOTP
		}

		if err := tx.OTPCodes().ConsumeOTPCode(ctx, otpCode.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidOTP
			}
			return err
		}

		return tx.Accounts().EnableTwoFactor(ctx, accountID, key.Secret())
	})
	if err != nil {
		return "", err
	}

	return key.URL(), nil
}

// DisableTwoFactor clears the flag and secret.
func (s *AuthService) DisableTwoFactor(ctx context.Context, accountID string) error {
	return s.Store.Accounts().DisableTwoFactor(ctx, accountID)
}
