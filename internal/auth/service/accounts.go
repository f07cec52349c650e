package service

import (
	"context"

	"github.com/essivi/backoffice/internal/auth/domain"
)

// GetAccount returns one account by id.
func (s *AuthService) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	return s.Store.Accounts().GetAccountByID(ctx, accountID)
}

// ListAccounts returns accounts, optionally filtered by role.
func (s *AuthService) ListAccounts(ctx context.Context, role string) ([]domain.Account, error) {
	return s.Store.Accounts().ListAccounts(ctx, role)
}

// SetAccountActive suspends or reinstates an account. Suspension also kills
// the account's sessions so access tokens stop being refreshable.
func (s *AuthService) SetAccountActive(ctx context.Context, accountID string, active bool) error {
	if err := s.Store.Accounts().SetActive(ctx, accountID, active); err != nil {
		return err
	}
	if !active {
		return s.Store.Sessions().RevokeAccountSessions(ctx, accountID)
	}
	return nil
}
