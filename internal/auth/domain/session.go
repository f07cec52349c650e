package domain

import "time"

// TokenPair is what the login and refresh operations return: the short-lived
// access token (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}

// Session models the stored refresh-token record backing a login session.
// SID persists across refresh rotations so a whole session can be traced.
type Session struct {
	ID        string
	AccountID string
	TokenHash string // base64url SHA-256 fingerprint of the opaque refresh token
	SID       string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
