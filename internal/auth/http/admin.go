package http

import (
	"net/http"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/auth/service"
	"github.com/essivi/backoffice/pkg/httpx"
)

// AdminHandler carries account administration endpoints.
type AdminHandler struct {
	Service *service.AuthService
}

// CreateAccount runs the invite flow: the account starts inactive with no
// password and the user receives an invite link to pick one.
func (h *AdminHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email     string `json:"email"`
		Role      string `json:"role"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	account, err := h.Service.Invite(r.Context(), service.InviteInput{
		Email:     body.Email,
		Role:      domain.Role(body.Role),
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated,
		"compte cree, une invitation a ete envoyee", toAccountResponse(account))
}

func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Service.ListAccounts(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	httpx.WriteSuccess(w, http.StatusOK, "", out)
}

func (h *AdminHandler) ActivateAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SetAccountActive(r.Context(), r.PathValue("id"), true); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "compte reactive", nil)
}

func (h *AdminHandler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SetAccountActive(r.Context(), r.PathValue("id"), false); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "compte desactive", nil)
}
