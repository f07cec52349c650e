package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/cryptox"
	"github.com/essivi/backoffice/pkg/idx"
	"github.com/essivi/backoffice/pkg/slogx"
)

// InviteInput describes an admin-created account. No password is involved;
// the invited user picks theirs when accepting.
type InviteInput struct {
	Email     string
	Role      domain.Role
	FirstName string
	LastName  string
	Phone     string
}

func (in *InviteInput) validate() error {
	errs := newFieldErrors()

	in.Email = domain.NormalizeEmail(in.Email)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		errs.add("email", "une adresse email valide est requise")
	}
	if !in.Role.Valid() {
		errs.add("role", "role inconnu")
	}

	return errs.orNil()
}

// Invite creates an inactive, unverified account with no password and mails
// an invite token. The account only becomes usable through AcceptInvite.
func (s *AuthService) Invite(ctx context.Context, in InviteInput) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:        idx.New().String(),
		Email:     in.Email,
		Role:      in.Role,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var rawToken string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateEmail
			}
			return err
		}

		var err error
		rawToken, err = issueToken(ctx, tx, account, domain.PurposeInvite, now)
		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	l.Info("account invited",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)))

	s.sendAsync(ctx, "invite email", func(ctx context.Context) error {
		return s.Notifier.SendInviteEmail(ctx, account.Email, rawToken)
	})

	return account, nil
}

// AcceptInvite redeems an invite token: the user picks a password and the
// account comes out active and verified in one transaction.
func (s *AuthService) AcceptInvite(ctx context.Context, rawToken, password, passwordConfirm string) error {
	if err := validateNewPassword(password, passwordConfirm); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := lookupToken(ctx, tx, rawToken, domain.PurposeInvite, now)
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
		if err := tx.Accounts().SetActive(ctx, t.AccountID, true); err != nil {
			return err
		}
		return tx.Accounts().MarkVerified(ctx, t.AccountID)
	})
}
