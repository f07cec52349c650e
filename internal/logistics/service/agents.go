package service

import (
	"context"
	"fmt"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/pkg/idx"
)

// AgentInput is the create/update payload for delivery agents.
type AgentInput struct {
	AccountID string
	LastName  string
	FirstName string
	Phone     string
	Tricycle  string
	HiredAt   time.Time
}

func (in AgentInput) validate() error {
	if in.AccountID == "" || in.LastName == "" || in.FirstName == "" {
		return ErrValidation
	}
	return nil
}

func (s *LogisticsService) CreateAgent(ctx context.Context, in AgentInput) (domain.Agent, error) {
	if err := in.validate(); err != nil {
		return domain.Agent{}, err
	}

	now := time.Now().UTC()
	hiredAt := in.HiredAt
	if hiredAt.IsZero() {
		hiredAt = now
	}

	agent := domain.Agent{
		ID:        idx.New().String(),
		AccountID: in.AccountID,
		LastName:  in.LastName,
		FirstName: in.FirstName,
		Phone:     in.Phone,
		Tricycle:  in.Tricycle,
		Status:    domain.AgentActive,
		HiredAt:   hiredAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Agents().CreateAgent(ctx, agent); err != nil {
		return domain.Agent{}, err
	}

	s.record(ctx, "agent.create", fmt.Sprintf("agent %s (%s %s)", agent.ID, agent.FirstName, agent.LastName))
	return agent, nil
}

func (s *LogisticsService) GetAgent(ctx context.Context, id string) (domain.Agent, error) {
	a, err := s.Store.Agents().GetAgentByID(ctx, id)
	if err != nil {
		return domain.Agent{}, mapStoreErr(err)
	}
	return a, nil
}

// GetAgentByAccount resolves the agent profile behind a login.
func (s *LogisticsService) GetAgentByAccount(ctx context.Context, accountID string) (domain.Agent, error) {
	a, err := s.Store.Agents().GetAgentByAccountID(ctx, accountID)
	if err != nil {
		return domain.Agent{}, mapStoreErr(err)
	}
	return a, nil
}

func (s *LogisticsService) ListAgents(ctx context.Context, status domain.AgentStatus) ([]domain.Agent, error) {
	if status != "" && !status.Valid() {
		return nil, ErrValidation
	}
	return s.Store.Agents().ListAgents(ctx, status)
}

func (s *LogisticsService) UpdateAgent(ctx context.Context, id string, in AgentInput) (domain.Agent, error) {
	agent, err := s.Store.Agents().GetAgentByID(ctx, id)
	if err != nil {
		return domain.Agent{}, mapStoreErr(err)
	}

	if in.LastName != "" {
		agent.LastName = in.LastName
	}
	if in.FirstName != "" {
		agent.FirstName = in.FirstName
	}
	if in.Phone != "" {
		agent.Phone = in.Phone
	}
	if in.Tricycle != "" {
		agent.Tricycle = in.Tricycle
	}
	if !in.HiredAt.IsZero() {
		agent.HiredAt = in.HiredAt
	}

	if err := s.Store.Agents().UpdateAgent(ctx, agent); err != nil {
		return domain.Agent{}, mapStoreErr(err)
	}

	s.record(ctx, "agent.update", "agent "+agent.ID)
	return agent, nil
}

func (s *LogisticsService) UpdateAgentStatus(ctx context.Context, id string, status domain.AgentStatus) error {
	if !status.Valid() {
		return ErrValidation
	}
	if err := s.Store.Agents().UpdateAgentStatus(ctx, id, status); err != nil {
		return mapStoreErr(err)
	}
	s.record(ctx, "agent.status", fmt.Sprintf("agent %s -> %s", id, status))
	return nil
}

func (s *LogisticsService) DeleteAgent(ctx context.Context, id string) error {
	if err := s.Store.Agents().DeleteAgent(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	s.record(ctx, "agent.delete", "agent "+id)
	return nil
}
