// Package service implements the credential and token lifecycle: account
// registration, email verification, sessions, password reset, invites and
// two-factor enablement.
package service

import (
	"time"

	"github.com/essivi/backoffice/internal/notify"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/jwtx"
)

// MinPasswordLength is the minimum accepted password size.
const MinPasswordLength = 8

type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Notifier notify.Notifier

	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RequireVerifiedLogin rejects logins from unverified accounts when set.
	// Off by default; most deployments only gate sensitive routes on the
	// verified claim.
	RequireVerifiedLogin bool

	// RotateRefreshTokens swaps the opaque refresh token on every redemption
	// so a replayed token dies on first reuse. On by default.
	RotateRefreshTokens bool
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}
