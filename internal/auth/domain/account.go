package domain

import (
	"strings"
	"time"
)

// Role determines which operations an account may perform.
type Role string

const (
	RoleAgent  Role = "agent"
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAgent, RoleClient, RoleAdmin:
		return true
	}
	return false
}

// Account is the authenticable identity record. Email is unique and stored
// case-normalized; the role never changes after creation; accounts are only
// ever soft-deactivated via IsActive.
type Account struct {
	ID           string
	Email        string
	PasswordHash string // argon2id encoded; empty until an invite is accepted
	Role         Role
	FirstName    string
	LastName     string
	Phone        string

	IsVerified bool // flips true exactly once, via verification-token redemption
	IsActive   bool

	TwoFactorEnabled bool
	TwoFactorSecret  *string // base32 TOTP secret (nullable)

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName joins first and last name for display and notifications.
func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
