package http

import (
	"net/http"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/internal/logistics/service"
	"github.com/essivi/backoffice/pkg/httpx"
)

type DeliveryHandler struct {
	Service *service.LogisticsService
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID     string    `json:"order_id"`
		AgentID     string    `json:"agent_id"`
		OutletID    string    `json:"outlet_id"`
		Quantity    int       `json:"quantity"`
		AmountCents int64     `json:"amount_cents"`
		DeliveredAt time.Time `json:"delivered_at"`
		Status      string    `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	ctx := r.Context()
	claims, _ := httpx.ClaimsFromContext(ctx)

	// Agents record deliveries as themselves, whatever the payload says.
	agentID := body.AgentID
	if claims.Role == "agent" {
		agent, err := h.Service.GetAgentByAccount(ctx, claims.Subject)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		agentID = agent.ID
	}

	d, err := h.Service.CreateDelivery(ctx, service.DeliveryInput{
		OrderID:     body.OrderID,
		AgentID:     agentID,
		OutletID:    body.OutletID,
		Quantity:    body.Quantity,
		AmountCents: body.AmountCents,
		DeliveredAt: body.DeliveredAt,
		Status:      domain.DeliveryStatus(body.Status),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, "livraison creee", d)
}

func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.GetDelivery(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", d)
}

// List scopes agents to their own runs; everyone else can filter with
// ?status= and ?agent=.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, _ := httpx.ClaimsFromContext(ctx)
	q := r.URL.Query()

	agentFilter := q.Get("agent")
	if claims.Role == "agent" {
		agent, err := h.Service.GetAgentByAccount(ctx, claims.Subject)
		if err != nil {
			httpx.WriteSuccess(w, http.StatusOK, "", []domain.Delivery{})
			return
		}
		agentFilter = agent.ID
	}

	deliveries, err := h.Service.ListDeliveries(ctx, domain.DeliveryStatus(q.Get("status")), agentFilter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", deliveries)
}

func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	if err := h.Service.UpdateDeliveryStatus(r.Context(), r.PathValue("id"), domain.DeliveryStatus(body.Status)); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "statut mis a jour", nil)
}

// Validate records the admin sign-off on a delivery.
func (h *DeliveryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims, _ := httpx.ClaimsFromContext(r.Context())
	if err := h.Service.ValidateDelivery(r.Context(), r.PathValue("id"), claims.Subject); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "livraison validee", nil)
}
