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
	"github.com/essivi/backoffice/pkg/jwtx"
	"github.com/essivi/backoffice/pkg/slogx"
)

// Authenticate checks credentials and opens a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	email = domain.NormalizeEmail(email)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash verification anyway so timing stays flat.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		l.Info("login failed", slog.String("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	if s.RequireVerifiedLogin && !account.IsVerified {
		return nil, ErrAccountUnverified
	}

	pair, err := s.openSession(ctx, account, now)
	if err != nil {
		return nil, err
	}

	if err := s.Store.Accounts().RecordLogin(ctx, account.ID, now); err != nil {
		l.Error("failed to record login", slog.Any("error", err))
	}

	l.Info("login succeeded", slog.String("account_id", account.ID))
	return pair, nil
}

// dummyHash is a throwaway argon2id hash verified on unknown-email logins so
// both failure paths cost roughly the same.
var dummyHash = func() string {
	h, err := cryptox.HashPassword("dummy-timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
}()

// openSession mints an access JWT and an opaque refresh token, persisting
// only the refresh token's fingerprint.
func (s *AuthService) openSession(ctx context.Context, account domain.Account, now time.Time) (*domain.TokenPair, error) {
	sid := idx.New().String()

	access, err := s.Signer.Sign(jwtx.NewAccessClaims(
		account.ID, sid, string(account.Role), account.Email,
		account.IsVerified, s.accessTTL(), s.Issuer, now,
	))
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	session := domain.Session{
		ID:        idx.New().String(),
		AccountID: account.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		SID:       sid,
		ExpiresAt: now.Add(s.refreshTTL()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL().Seconds()),
	}, nil
}

// Refresh redeems an opaque refresh token for a new token pair. With rotation
// enabled the presented token is swapped atomically, so a replayed token
// fails instead of rotating twice.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	now := time.Now().UTC()
	hash := cryptox.FingerprintToken(refreshToken)

	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		session, err := tx.Sessions().GetSessionByTokenHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if session.Revoked || now.After(session.ExpiresAt) {
			return ErrInvalidRefresh
		}

		account, err := tx.Accounts().GetAccountByID(ctx, session.AccountID)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return ErrAccountInactive
		}

		access, err := s.Signer.Sign(jwtx.NewAccessClaims(
			account.ID, session.SID, string(account.Role), account.Email,
			account.IsVerified, s.accessTTL(), s.Issuer, now,
		))
		if err != nil {
			return err
		}

		nextRefresh := refreshToken
		if s.RotateRefreshTokens {
			nextRefresh, err = cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return err
			}
			err = tx.Sessions().RotateSession(ctx, session.ID, hash,
				cryptox.FingerprintToken(nextRefresh), now.Add(s.refreshTTL()))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrInvalidRefresh
				}
				return err
			}
		}

		pair = &domain.TokenPair{
			AccessToken:  access,
			RefreshToken: nextRefresh,
			TokenType:    "Bearer",
			ExpiresIn:    int64(s.accessTTL().Seconds()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the session behind a refresh token. Unknown tokens succeed;
// logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.Store.Sessions().RevokeSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
