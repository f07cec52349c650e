package service

import (
	"context"
	"errors"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/cryptox"
	"github.com/essivi/backoffice/pkg/idx"
	"github.com/google/uuid"
)

// tokenIssuer is the slice of Store that issueToken needs; both Store and Tx
// satisfy it so tokens can be minted inside or outside a transaction.
type tokenIssuer interface {
	VerificationTokens() store.VerificationTokens
}

// issueToken mints a purpose-tagged verification token. The raw UUID value is
// returned for the notifier; only its fingerprint is persisted.
func issueToken(ctx context.Context, s tokenIssuer, account domain.Account, purpose domain.TokenPurpose, now time.Time) (string, error) {
	raw := uuid.NewString()

	t := domain.VerificationToken{
		ID:        idx.New().String(),
		AccountID: account.ID,
		TokenHash: cryptox.FingerprintToken(raw),
		Email:     account.Email,
		Purpose:   purpose,
		ExpiresAt: now.Add(purpose.Window()),
		CreatedAt: now,
	}
	if err := s.VerificationTokens().CreateToken(ctx, t); err != nil {
		return "", err
	}
	return raw, nil
}

// lookupToken resolves a raw token and reports the most precise failure:
// unknown, already used, then expired.
func lookupToken(ctx context.Context, s tokenIssuer, raw string, purpose domain.TokenPurpose, now time.Time) (domain.VerificationToken, error) {
	t, err := s.VerificationTokens().GetTokenByHash(ctx, cryptox.FingerprintToken(raw))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.VerificationToken{}, ErrInvalidToken
		}
		return domain.VerificationToken{}, err
	}
	if t.Purpose != purpose {
		return domain.VerificationToken{}, ErrInvalidToken
	}
	if t.IsUsed() {
		return domain.VerificationToken{}, ErrTokenUsed
	}
	if t.IsExpired(now) {
		return domain.VerificationToken{}, ErrTokenExpired
	}
	return t, nil
}

// VerifyEmail redeems an email-verification token. Consumption and the
// verified flip commit atomically; a token that loses the consumption race is
// reported as already used.
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	now := time.Now().UTC()

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := lookupToken(ctx, tx, rawToken, domain.PurposeEmailVerify, now)
		if err != nil {
			return err
		}

		if err := tx.VerificationTokens().ConsumeToken(ctx, t.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenUsed
			}
			return err
		}

		return tx.Accounts().MarkVerified(ctx, t.AccountID)
	})
}
