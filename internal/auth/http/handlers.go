package http

import (
	"net/http"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/auth/service"
	"github.com/essivi/backoffice/pkg/httpx"
)

// AuthHandler carries the self-service credential endpoints.
type AuthHandler struct {
	Service *service.AuthService
}

type accountResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	FirstName        string     `json:"first_name,omitempty"`
	LastName         string     `json:"last_name,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	IsVerified       bool       `json:"is_verified"`
	IsActive         bool       `json:"is_active"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toAccountResponse(a domain.Account) accountResponse {
	return accountResponse{
		ID:               a.ID,
		Email:            a.Email,
		Role:             string(a.Role),
		FirstName:        a.FirstName,
		LastName:         a.LastName,
		Phone:            a.Phone,
		IsVerified:       a.IsVerified,
		IsActive:         a.IsActive,
		TwoFactorEnabled: a.TwoFactorEnabled,
		LastLoginAt:      a.LastLoginAt,
		CreatedAt:        a.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
		Role            string `json:"role"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Phone           string `json:"phone"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	account, err := h.Service.Register(r.Context(), service.RegisterInput{
		Email:           body.Email,
		Password:        body.Password,
		PasswordConfirm: body.PasswordConfirm,
		Role:            domain.Role(body.Role),
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Phone:           body.Phone,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated,
		"compte cree, un email de verification a ete envoye", toAccountResponse(account))
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "jeton manquant")
		return
	}

	if err := h.Service.VerifyEmail(r.Context(), body.Token); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "adresse email verifiee", nil)
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email manquant")
		return
	}

	if err := h.Service.ResendVerification(r.Context(), body.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK,
		"si un compte existe pour cette adresse, un email a ete envoye", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	pair, err := h.Service.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "connexion reussie", tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "refresh_token manquant")
		return
	}

	pair, err := h.Service.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "session renouvelee", tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "refresh_token manquant")
		return
	}

	if err := h.Service.Logout(r.Context(), body.RefreshToken); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "deconnexion reussie", nil)
}

func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email manquant")
		return
	}

	if err := h.Service.RequestPasswordReset(r.Context(), body.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK,
		"si un compte existe pour cette adresse, un email a ete envoye", nil)
}

func (h *AuthHandler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "jeton manquant")
		return
	}

	err := h.Service.ConfirmPasswordReset(r.Context(), body.Token, body.Password, body.PasswordConfirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "mot de passe reinitialise", nil)
}

func (h *AuthHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "jeton manquant")
		return
	}

	err := h.Service.AcceptInvite(r.Context(), body.Token, body.Password, body.PasswordConfirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "compte active", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.Service.GetAccount(r.Context(), httpx.AccountIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toAccountResponse(account))
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"current_password"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "corps de requete invalide")
		return
	}

	err := h.Service.ChangePassword(r.Context(), httpx.AccountIDFromContext(r.Context()),
		body.CurrentPassword, body.Password, body.PasswordConfirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "mot de passe modifie", nil)
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SendOTP(r.Context(), httpx.AccountIDFromContext(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "code envoye", nil)
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "code manquant")
		return
	}

	url, err := h.Service.VerifyOTP(r.Context(), httpx.AccountIDFromContext(r.Context()), body.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "double authentification activee",
		map[string]string{"otpauth_url": url})
}
