package http

import (
	"net/http"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/internal/logistics/service"
	"github.com/essivi/backoffice/pkg/httpx"
)

type AgentHandler struct {
	Service *service.LogisticsService
}

type agentPayload struct {
	AccountID string    `json:"account_id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Phone     string    `json:"phone"`
	Tricycle  string    `json:"tricycle"`
	HiredAt   time.Time `json:"hired_at"`
}

func (p agentPayload) toInput() service.AgentInput {
	return service.AgentInput{
		AccountID: p.AccountID,
		LastName:  p.LastName,
		FirstName: p.FirstName,
		Phone:     p.Phone,
		Tricycle:  p.Tricycle,
		HiredAt:   p.HiredAt,
	}
}

func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body agentPayload
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	agent, err := h.Service.CreateAgent(r.Context(), body.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, "agent cree", agent)
}

func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	agent, err := h.Service.GetAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", agent)
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.AgentStatus(r.URL.Query().Get("status"))
	agents, err := h.Service.ListAgents(r.Context(), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", agents)
}

func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body agentPayload
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	agent, err := h.Service.UpdateAgent(r.Context(), r.PathValue("id"), body.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "agent mis a jour", agent)
}

func (h *AgentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	if err := h.Service.UpdateAgentStatus(r.Context(), r.PathValue("id"), domain.AgentStatus(body.Status)); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "statut mis a jour", nil)
}

func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteAgent(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "agent supprime", nil)
}
