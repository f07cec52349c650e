package service

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/internal/store/drivers/sqlite"
	"github.com/essivi/backoffice/pkg/httpx"
	"github.com/essivi/backoffice/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *LogisticsService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &LogisticsService{Store: st}
}

// seedAccount creates the backing login for agents and actors.
func seedAccount(t *testing.T, s *LogisticsService, email string) authdomain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := authdomain.Account{
		ID:        idx.New().String(),
		Email:     email,
		Role:      authdomain.RoleAgent,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Store.Accounts().CreateAccount(context.Background(), a))
	return a
}

// actorCtx simulates an authenticated request context for audit recording.
func actorCtx(accountID string) context.Context {
	ctx := context.WithValue(context.Background(), httpx.CtxKeyAccountID, accountID)
	return httpx.ContextWithClientIP(ctx, "10.0.0.1")
}

func seedAgent(t *testing.T, s *LogisticsService, ctx context.Context) domain.Agent {
	t.Helper()

	account := seedAccount(t, s, idx.New().String()+"@example.com")
	agent, err := s.CreateAgent(ctx, AgentInput{
		AccountID: account.ID,
		LastName:  "Kossi",
		FirstName: "Ama",
		Tricycle:  "TRI-04",
	})
	require.NoError(t, err)
	return agent
}

func seedOutlet(t *testing.T, s *LogisticsService, ctx context.Context, name string) domain.Outlet {
	t.Helper()

	outlet, err := s.CreateOutlet(ctx, OutletInput{
		Name:    name,
		Manager: "Afi",
		Type:    domain.OutletReseller,
	})
	require.NoError(t, err)
	return outlet
}

func TestAgentLifecycle(t *testing.T) {
	s := newTestService(t)
	admin := seedAccount(t, s, "admin@example.com")
	ctx := actorCtx(admin.ID)

	agent := seedAgent(t, s, ctx)
	require.Equal(t, domain.AgentActive, agent.Status)

	got, err := s.GetAgentByAccount(ctx, agent.AccountID)
	require.NoError(t, err)
	require.Equal(t, agent.ID, got.ID)

	require.NoError(t, s.UpdateAgentStatus(ctx, agent.ID, domain.AgentSuspended))
	require.ErrorIs(t, s.UpdateAgentStatus(ctx, agent.ID, domain.AgentStatus("parti")), ErrValidation)

	suspended, err := s.ListAgents(ctx, domain.AgentSuspended)
	require.NoError(t, err)
	require.Len(t, suspended, 1)

	require.NoError(t, s.DeleteAgent(ctx, agent.ID))
	_, err = s.GetAgent(ctx, agent.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Mutations left an audit trail.
	entries, err := s.AccountActivity(ctx, admin.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	require.Equal(t, "10.0.0.1", entries[0].IPAddress)
}

func TestOrderAssignment(t *testing.T) {
	s := newTestService(t)
	admin := seedAccount(t, s, "admin@example.com")
	ctx := actorCtx(admin.ID)

	agent := seedAgent(t, s, ctx)
	outlet := seedOutlet(t, s, ctx, "Boutique Centrale")

	order, err := s.CreateOrder(ctx, OrderInput{OutletID: outlet.ID, Quantity: 12})
	require.NoError(t, err)
	require.Equal(t, domain.OrderPending, order.Status)
	require.Empty(t, order.AgentID)

	t.Run("unknown outlet rejected", func(t *testing.T) {
		_, err := s.CreateOrder(ctx, OrderInput{OutletID: "missing", Quantity: 1})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("suspended agent cannot take orders", func(t *testing.T) {
		other := seedAgent(t, s, ctx)
		require.NoError(t, s.UpdateAgentStatus(ctx, other.ID, domain.AgentSuspended))
		require.ErrorIs(t, s.AssignOrder(ctx, order.ID, other.ID), ErrValidation)
	})

	require.NoError(t, s.AssignOrder(ctx, order.ID, agent.ID))

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderInTransit, got.Status)
	require.Equal(t, agent.ID, got.AgentID)

	mine, err := s.ListAgentOrders(ctx, agent.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestDeliveryClosesOrder(t *testing.T) {
	s := newTestService(t)
	admin := seedAccount(t, s, "admin@example.com")
	ctx := actorCtx(admin.ID)

	agent := seedAgent(t, s, ctx)
	outlet := seedOutlet(t, s, ctx, "Depot Agoe")

	order, err := s.CreateOrder(ctx, OrderInput{OutletID: outlet.ID, Quantity: 5})
	require.NoError(t, err)
	require.NoError(t, s.AssignOrder(ctx, order.ID, agent.ID))

	d, err := s.CreateDelivery(ctx, DeliveryInput{
		OrderID:     order.ID,
		AgentID:     agent.ID,
		OutletID:    outlet.ID,
		Quantity:    5,
		AmountCents: 12500,
		Status:      domain.DeliveryEnRoute,
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateDeliveryStatus(ctx, d.ID, domain.DeliveryDone))

	gotOrder, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderDelivered, gotOrder.Status)

	// Validation is single shot.
	require.NoError(t, s.ValidateDelivery(ctx, d.ID, admin.ID))
	require.ErrorIs(t, s.ValidateDelivery(ctx, d.ID, admin.ID), ErrNotFound)

	gotDelivery, err := s.GetDelivery(ctx, d.ID)
	require.NoError(t, err)
	require.True(t, gotDelivery.Validated)
	require.Equal(t, admin.ID, gotDelivery.ValidatedBy)
}

func TestDashboardStats(t *testing.T) {
	s := newTestService(t)
	admin := seedAccount(t, s, "admin@example.com")
	ctx := actorCtx(admin.ID)

	agent := seedAgent(t, s, ctx)
	outlet := seedOutlet(t, s, ctx, "Marche Adidogome")

	_, err := s.CreateOrder(ctx, OrderInput{OutletID: outlet.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = s.CreateDelivery(ctx, DeliveryInput{
		AgentID:     agent.ID,
		OutletID:    outlet.ID,
		Quantity:    3,
		AmountCents: 7500,
		Status:      domain.DeliveryDone,
	})
	require.NoError(t, err)

	stats, err := s.DashboardStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalAgents)
	require.Equal(t, 1, stats.ActiveAgents)
	require.Equal(t, 1, stats.TotalOutlets)
	require.Equal(t, 1, stats.TotalOrders)
	require.Equal(t, 1, stats.PendingOrders)
	require.Equal(t, 1, stats.TotalDeliveries)
	require.Equal(t, 1, stats.DeliveriesToday)
	require.EqualValues(t, 7500, stats.RevenueCentsToday)
}

func TestOutletSearchAndFilter(t *testing.T) {
	s := newTestService(t)
	admin := seedAccount(t, s, "admin@example.com")
	ctx := actorCtx(admin.ID)

	seedOutlet(t, s, ctx, "Marche Adidogome")
	wholesale, err := s.CreateOutlet(ctx, OutletInput{
		Name: "Depot Agoe",
		Type: domain.OutletWholesaler,
	})
	require.NoError(t, err)

	found, err := s.ListOutlets(ctx, "", "", "Agoe")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, wholesale.ID, found[0].ID)

	byType, err := s.ListOutlets(ctx, domain.OutletWholesaler, "", "")
	require.NoError(t, err)
	require.Len(t, byType, 1)

	_, err = s.ListOutlets(ctx, domain.OutletType("inconnu"), "", "")
	require.ErrorIs(t, err, ErrValidation)
}
