package domain

import "time"

// TokenPurpose tags what a verification token may be redeemed for.
type TokenPurpose string

const (
	PurposeEmailVerify   TokenPurpose = "email_verify"
	PurposePasswordReset TokenPurpose = "password_reset"
	PurposeInvite        TokenPurpose = "invite"
)

// Window returns the validity window for tokens of this purpose.
func (p TokenPurpose) Window() time.Duration {
	switch p {
	case PurposePasswordReset:
		return time.Hour
	case PurposeInvite:
		return 72 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// VerificationToken models a stored single-use token record. Only the
// SHA-256 fingerprint of the raw token is persisted; the raw value is
// delivered out-of-band and never stored. Redeemed tokens are kept for audit
// rather than deleted.
type VerificationToken struct {
	ID        string
	AccountID string
	TokenHash string
	Email     string // address the token was sent to, frozen at issue time
	Purpose   TokenPurpose
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsUsed reports whether the token has already been redeemed.
func (t VerificationToken) IsUsed() bool { return t.UsedAt != nil }

// IsExpired reports whether now is past the token's expiry.
func (t VerificationToken) IsExpired(now time.Time) bool { return now.After(t.ExpiresAt) }

// IsValid is the validity predicate: not used and not expired.
func (t VerificationToken) IsValid(now time.Time) bool {
	return !t.IsUsed() && !t.IsExpired(now)
}
