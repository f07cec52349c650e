package http

import (
	"net/http"
	"strconv"

	"github.com/essivi/backoffice/internal/logistics/service"
	"github.com/essivi/backoffice/pkg/httpx"
)

type DashboardHandler struct {
	Service *service.LogisticsService
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.DashboardStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", stats)
}

func (h *DashboardHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Service.RecentActivity(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", entries)
}

func (h *DashboardHandler) MyActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Service.AccountActivity(r.Context(), httpx.AccountIDFromContext(r.Context()), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", entries)
}
