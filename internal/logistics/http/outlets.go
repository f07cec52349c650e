package http

import (
	"net/http"

	"github.com/essivi/backoffice/internal/logistics/domain"
	"github.com/essivi/backoffice/internal/logistics/service"
	"github.com/essivi/backoffice/pkg/httpx"
)

type OutletHandler struct {
	Service *service.LogisticsService
}

type outletPayload struct {
	AccountID string   `json:"account_id"`
	Name      string   `json:"name"`
	Manager   string   `json:"manager"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Type      string   `json:"type"`
	Status    string   `json:"status"`
}

func (p outletPayload) toInput() service.OutletInput {
	return service.OutletInput{
		AccountID: p.AccountID,
		Name:      p.Name,
		Manager:   p.Manager,
		Phone:     p.Phone,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Type:      domain.OutletType(p.Type),
		Status:    domain.OutletStatus(p.Status),
	}
}

func (h *OutletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body outletPayload
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	outlet, err := h.Service.CreateOutlet(r.Context(), body.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, "point de vente cree", outlet)
}

func (h *OutletHandler) Get(w http.ResponseWriter, r *http.Request) {
	outlet, err := h.Service.GetOutlet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", outlet)
}

// List supports ?type=, ?status= and ?q= (substring search).
func (h *OutletHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	outlets, err := h.Service.ListOutlets(r.Context(),
		domain.OutletType(q.Get("type")),
		domain.OutletStatus(q.Get("status")),
		q.Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", outlets)
}

func (h *OutletHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body outletPayload
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	outlet, err := h.Service.UpdateOutlet(r.Context(), r.PathValue("id"), body.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "point de vente mis a jour", outlet)
}

func (h *OutletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteOutlet(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "point de vente supprime", nil)
}
