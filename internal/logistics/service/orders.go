package service

import (
	"context"
	"fmt"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/idx"
)

// OrderInput is the creation payload for orders.
type OrderInput struct {
	OutletID  string
	Quantity  int
	OrderedAt time.Time
}

func (s *LogisticsService) CreateOrder(ctx context.Context, in OrderInput) (domain.Order, error) {
	if in.OutletID == "" || in.Quantity <= 0 {
		return domain.Order{}, ErrValidation
	}

	// The outlet must exist.
	if _, err := s.Store.Outlets().GetOutletByID(ctx, in.OutletID); err != nil {
		return domain.Order{}, mapStoreErr(err)
	}

	now := time.Now().UTC()
	orderedAt := in.OrderedAt
	if orderedAt.IsZero() {
		orderedAt = now
	}

	order := domain.Order{
		ID:        idx.New().String(),
		OutletID:  in.OutletID,
		Quantity:  in.Quantity,
		OrderedAt: orderedAt,
		Status:    domain.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Orders().CreateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}

	s.record(ctx, "order.create", fmt.Sprintf("order %s qty=%d outlet=%s", order.ID, order.Quantity, order.OutletID))
	return order, nil
}

func (s *LogisticsService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	o, err := s.Store.Orders().GetOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, mapStoreErr(err)
	}
	return o, nil
}

func (s *LogisticsService) ListOrders(ctx context.Context, status domain.OrderStatus, outletID string) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, ErrValidation
	}
	return s.Store.Orders().ListOrders(ctx, status, outletID)
}

func (s *LogisticsService) ListAgentOrders(ctx context.Context, agentID string) ([]domain.Order, error) {
	return s.Store.Orders().ListAgentOrders(ctx, agentID)
}

func (s *LogisticsService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrValidation
	}
	if err := s.Store.Orders().UpdateOrderStatus(ctx, id, status); err != nil {
		return mapStoreErr(err)
	}
	s.record(ctx, "order.status", fmt.Sprintf("order %s -> %s", id, status))
	return nil
}

// AssignOrder hands an order to an active agent and moves it to en_cours. The
// assignment and status change commit together.
func (s *LogisticsService) AssignOrder(ctx context.Context, orderID, agentID string) error {
	agent, err := s.Store.Agents().GetAgentByID(ctx, agentID)
	if err != nil {
		return mapStoreErr(err)
	}
	if agent.Status != domain.AgentActive {
		return ErrValidation
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Orders().AssignAgent(ctx, orderID, agentID); err != nil {
			return err
		}
		return tx.Orders().UpdateOrderStatus(ctx, orderID, domain.OrderInTransit)
	})
	if err != nil {
		return mapStoreErr(err)
	}

	s.record(ctx, "order.assign", fmt.Sprintf("order %s -> agent %s", orderID, agentID))
	return nil
}

func (s *LogisticsService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.Store.Orders().DeleteOrder(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	s.record(ctx, "order.delete", "order "+id)
	return nil
}
