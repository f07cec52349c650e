package service

import (
	"context"
	"fmt"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/idx"
)

// DeliveryInput is the creation payload for delivery runs.
type DeliveryInput struct {
	OrderID     string // optional; ad-hoc deliveries have none
	AgentID     string
	OutletID    string
	Quantity    int
	AmountCents int64
	DeliveredAt time.Time
	Status      domain.DeliveryStatus
}

func (s *LogisticsService) CreateDelivery(ctx context.Context, in DeliveryInput) (domain.Delivery, error) {
	if in.AgentID == "" || in.OutletID == "" || in.Quantity <= 0 || in.AmountCents < 0 {
		return domain.Delivery{}, ErrValidation
	}
	if in.Status == "" {
		in.Status = domain.DeliveryPreparing
	}
	if !in.Status.Valid() {
		return domain.Delivery{}, ErrValidation
	}

	if _, err := s.Store.Agents().GetAgentByID(ctx, in.AgentID); err != nil {
		return domain.Delivery{}, mapStoreErr(err)
	}
	if _, err := s.Store.Outlets().GetOutletByID(ctx, in.OutletID); err != nil {
		return domain.Delivery{}, mapStoreErr(err)
	}

	now := time.Now().UTC()
	deliveredAt := in.DeliveredAt
	if deliveredAt.IsZero() {
		deliveredAt = now
	}

	d := domain.Delivery{
		ID:          idx.New().String(),
		OrderID:     in.OrderID,
		AgentID:     in.AgentID,
		OutletID:    in.OutletID,
		Quantity:    in.Quantity,
		AmountCents: in.AmountCents,
		DeliveredAt: deliveredAt,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Deliveries().CreateDelivery(ctx, d); err != nil {
		return domain.Delivery{}, err
	}

	s.record(ctx, "delivery.create", fmt.Sprintf("delivery %s agent=%s outlet=%s", d.ID, d.AgentID, d.OutletID))
	return d, nil
}

func (s *LogisticsService) GetDelivery(ctx context.Context, id string) (domain.Delivery, error) {
	d, err := s.Store.Deliveries().GetDeliveryByID(ctx, id)
	if err != nil {
		return domain.Delivery{}, mapStoreErr(err)
	}
	return d, nil
}

func (s *LogisticsService) ListDeliveries(ctx context.Context, status domain.DeliveryStatus, agentID string) ([]domain.Delivery, error) {
	if status != "" && !status.Valid() {
		return nil, ErrValidation
	}
	return s.Store.Deliveries().ListDeliveries(ctx, status, agentID)
}

// UpdateDeliveryStatus moves a run through its lifecycle. Marking a delivery
// livre also closes its order when one is linked.
func (s *LogisticsService) UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	if !status.Valid() {
		return ErrValidation
	}

	d, err := s.Store.Deliveries().GetDeliveryByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Deliveries().UpdateDeliveryStatus(ctx, id, status); err != nil {
			return err
		}
		if status == domain.DeliveryDone && d.OrderID != "" {
			return tx.Orders().UpdateOrderStatus(ctx, d.OrderID, domain.OrderDelivered)
		}
		return nil
	})
	if err != nil {
		return mapStoreErr(err)
	}

	s.record(ctx, "delivery.status", fmt.Sprintf("delivery %s -> %s", id, status))
	return nil
}

// ValidateDelivery records an admin sign-off. A delivery validates at most
// once.
func (s *LogisticsService) ValidateDelivery(ctx context.Context, id, validatedBy string) error {
	if err := s.Store.Deliveries().ValidateDelivery(ctx, id, validatedBy, time.Now().UTC()); err != nil {
		return mapStoreErr(err)
	}
	s.record(ctx, "delivery.validate", "delivery "+id)
	return nil
}
