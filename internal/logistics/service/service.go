// Package service implements the logistics back office: agents, outlets,
// orders, deliveries, the activity trail and dashboard aggregates.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/httpx"
	"github.com/essivi/backoffice/pkg/idx"
	"github.com/essivi/backoffice/pkg/slogx"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not_found")
)

type LogisticsService struct {
	Store store.Store
}

// record appends an audit entry for the authenticated actor. Audit failures
// are logged, never returned; the mutation itself already committed.
func (s *LogisticsService) record(ctx context.Context, action, details string) {
	actor := httpx.AccountIDFromContext(ctx)
	if actor == "" {
		return
	}

	err := s.Store.ActivityLog().AppendActivity(ctx, domain.ActivityLog{
		ID:        idx.New().String(),
		AccountID: actor,
		Action:    action,
		Details:   details,
		IPAddress: httpx.ClientIPFromContext(ctx),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to append activity",
			slog.String("action", action), slog.Any("error", err))
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
