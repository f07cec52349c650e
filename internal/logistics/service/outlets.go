package service

import (
	"context"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/pkg/idx"
)

// OutletInput is the create/update payload for points of sale.
type OutletInput struct {
	AccountID string
	Name      string
	Manager   string
	Phone     string
	Address   string
	Latitude  *float64
	Longitude *float64
	Type      domain.OutletType
	Status    domain.OutletStatus
}

func (s *LogisticsService) CreateOutlet(ctx context.Context, in OutletInput) (domain.Outlet, error) {
	if in.Name == "" {
		return domain.Outlet{}, ErrValidation
	}
	if in.Type == "" {
		in.Type = domain.OutletReseller
	}
	if !in.Type.Valid() {
		return domain.Outlet{}, ErrValidation
	}
	if in.Status == "" {
		in.Status = domain.OutletActive
	}
	if !in.Status.Valid() {
		return domain.Outlet{}, ErrValidation
	}

	now := time.Now().UTC()
	outlet := domain.Outlet{
		ID:        idx.New().String(),
		AccountID: in.AccountID,
		Name:      in.Name,
		Manager:   in.Manager,
		Phone:     in.Phone,
		Address:   in.Address,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Type:      in.Type,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Outlets().CreateOutlet(ctx, outlet); err != nil {
		return domain.Outlet{}, err
	}

	s.record(ctx, "outlet.create", "outlet "+outlet.ID+" "+outlet.Name)
	return outlet, nil
}

func (s *LogisticsService) GetOutlet(ctx context.Context, id string) (domain.Outlet, error) {
	o, err := s.Store.Outlets().GetOutletByID(ctx, id)
	if err != nil {
		return domain.Outlet{}, mapStoreErr(err)
	}
	return o, nil
}

// GetOutletByAccount resolves the outlet owned by a login.
func (s *LogisticsService) GetOutletByAccount(ctx context.Context, accountID string) (domain.Outlet, error) {
	o, err := s.Store.Outlets().GetOutletByAccountID(ctx, accountID)
	if err != nil {
		return domain.Outlet{}, mapStoreErr(err)
	}
	return o, nil
}

// ListOutlets filters by type and status; a non-empty query switches to
// substring search over name, manager and phone.
func (s *LogisticsService) ListOutlets(ctx context.Context, typ domain.OutletType, status domain.OutletStatus, query string) ([]domain.Outlet, error) {
	if typ != "" && !typ.Valid() {
		return nil, ErrValidation
	}
	if status != "" && !status.Valid() {
		return nil, ErrValidation
	}
	if query != "" {
		return s.Store.Outlets().SearchOutlets(ctx, query)
	}
	return s.Store.Outlets().ListOutlets(ctx, typ, status)
}

func (s *LogisticsService) UpdateOutlet(ctx context.Context, id string, in OutletInput) (domain.Outlet, error) {
	outlet, err := s.Store.Outlets().GetOutletByID(ctx, id)
	if err != nil {
		return domain.Outlet{}, mapStoreErr(err)
	}

	if in.Name != "" {
		outlet.Name = in.Name
	}
	if in.Manager != "" {
		outlet.Manager = in.Manager
	}
	if in.Phone != "" {
		outlet.Phone = in.Phone
	}
	if in.Address != "" {
		outlet.Address = in.Address
	}
	if in.Latitude != nil {
		outlet.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		outlet.Longitude = in.Longitude
	}
	if in.Type != "" {
		if !in.Type.Valid() {
			return domain.Outlet{}, ErrValidation
		}
		outlet.Type = in.Type
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return domain.Outlet{}, ErrValidation
		}
		outlet.Status = in.Status
	}

	if err := s.Store.Outlets().UpdateOutlet(ctx, outlet); err != nil {
		return domain.Outlet{}, mapStoreErr(err)
	}

	s.record(ctx, "outlet.update", "outlet "+outlet.ID)
	return outlet, nil
}

func (s *LogisticsService) DeleteOutlet(ctx context.Context, id string) error {
	if err := s.Store.Outlets().DeleteOutlet(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	s.record(ctx, "outlet.delete", "outlet "+id)
	return nil
}
