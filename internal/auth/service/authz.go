package service

import (
	"errors"

	"github.com/essivi/backoffice/pkg/jwtx"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnverified      = errors.New("unverified")
	ErrWrongRole       = errors.New("wrong_role")
	ErrNotOwner        = errors.New("not_owner")
)

// Capability is one requirement an operation places on the caller.
type Capability func(c *jwtx.Claims) error

// Authenticated requires any valid claims.
func Authenticated() Capability {
	return func(c *jwtx.Claims) error {
		if c == nil || c.Subject == "" {
			return ErrUnauthenticated
		}
		return nil
	}
}

// Verified requires the email-verified flag captured at token issue time.
func Verified() Capability {
	return func(c *jwtx.Claims) error {
		if !c.Verified {
			return ErrUnverified
		}
		return nil
	}
}

// HasRole requires one of the listed roles.
func HasRole(roles ...string) Capability {
	return func(c *jwtx.Claims) error {
		for _, r := range roles {
			if c.Role == r {
				return nil
			}
		}
		return ErrWrongRole
	}
}

// OwnerOrAdmin passes when the caller owns the resource or is an admin.
func OwnerOrAdmin(ownerAccountID string) Capability {
	return func(c *jwtx.Claims) error {
		if c.Role == "admin" || c.Subject == ownerAccountID {
			return nil
		}
		return ErrNotOwner
	}
}

// Authorize evaluates capabilities in order and fails on the first unmet one.
// Authenticated is always checked first so later checks can assume claims.
func Authorize(c *jwtx.Claims, caps ...Capability) error {
	if err := Authenticated()(c); err != nil {
		return err
	}
	for _, cap := range caps {
		if err := cap(c); err != nil {
			return err
		}
	}
	return nil
}
