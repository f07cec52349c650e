package domain

import "time"

const (
	// OTPLength is the number of digits in a 2FA code.
	OTPLength = 6

	// OTPWindow is how long a 2FA code stays redeemable.
	OTPWindow = 10 * time.Minute
)

// OTPCode is a short numeric one-time code for the 2FA challenge. Codes are
// not globally unique, so lookups are always scoped by (account, code).
type OTPCode struct {
	ID        string
	AccountID string
	Code      string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsUsed reports whether the code has already been consumed.
func (c OTPCode) IsUsed() bool { return c.UsedAt != nil }

// IsExpired reports whether now is past the code's expiry.
func (c OTPCode) IsExpired(now time.Time) bool { return now.After(c.ExpiresAt) }

// IsValid is the validity predicate: not used and not expired.
func (c OTPCode) IsValid(now time.Time) bool {
	return !c.IsUsed() && !c.IsExpired(now)
}
