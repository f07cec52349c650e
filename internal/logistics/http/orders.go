package http

import (
	"net/http"
	"time"

	authservice "github.com/essivi/backoffice/internal/auth/service"
	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/internal/logistics/service"
	"github.com/essivi/backoffice/pkg/httpx"
)

type OrderHandler struct {
	Service *service.LogisticsService
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OutletID  string    `json:"outlet_id"`
		Quantity  int       `json:"quantity"`
		OrderedAt time.Time `json:"ordered_at"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	// Non-admin callers may only order for their own outlet.
	claims, _ := httpx.ClaimsFromContext(r.Context())
	if claims.Role != "admin" {
		outlet, err := h.Service.GetOutlet(r.Context(), body.OutletID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if err := authservice.Authorize(&claims, authservice.OwnerOrAdmin(outlet.AccountID)); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	order, err := h.Service.CreateOrder(r.Context(), service.OrderInput{
		OutletID:  body.OutletID,
		Quantity:  body.Quantity,
		OrderedAt: body.OrderedAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, "commande creee", order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.Service.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Clients may only read orders of their own outlet.
	claims, _ := httpx.ClaimsFromContext(r.Context())
	if claims.Role == "client" {
		outlet, err := h.Service.GetOutlet(r.Context(), order.OutletID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if err := authservice.Authorize(&claims, authservice.OwnerOrAdmin(outlet.AccountID)); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	httpx.WriteSuccess(w, http.StatusOK, "", order)
}

// List scopes results by role: clients see their own outlet's orders, agents
// their assigned orders, admins everything (with ?status= and ?outlet=
// filters).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, _ := httpx.ClaimsFromContext(ctx)
	q := r.URL.Query()

	switch claims.Role {
	case "client":
		outlet, err := h.Service.GetOutletByAccount(ctx, claims.Subject)
		if err != nil {
			httpx.WriteSuccess(w, http.StatusOK, "", []domain.Order{})
			return
		}
		orders, err := h.Service.ListOrders(ctx, domain.OrderStatus(q.Get("status")), outlet.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteSuccess(w, http.StatusOK, "", orders)

	case "agent":
		agent, err := h.Service.GetAgentByAccount(ctx, claims.Subject)
		if err != nil {
			httpx.WriteSuccess(w, http.StatusOK, "", []domain.Order{})
			return
		}
		orders, err := h.Service.ListAgentOrders(ctx, agent.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteSuccess(w, http.StatusOK, "", orders)

	default:
		orders, err := h.Service.ListOrders(ctx, domain.OrderStatus(q.Get("status")), q.Get("outlet"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteSuccess(w, http.StatusOK, "", orders)
	}
}

func (h *OrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AgentID string `json:"agent_id"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.AgentID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "agent_id manquant")
		return
	}

	if err := h.Service.AssignOrder(r.Context(), r.PathValue("id"), body.AgentID); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "commande assignee", nil)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	if err := h.Service.UpdateOrderStatus(r.Context(), r.PathValue("id"), domain.OrderStatus(body.Status)); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "statut mis a jour", nil)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteOrder(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "commande supprimee", nil)
}
