package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/auth/service"
	"github.com/essivi/backoffice/internal/store/drivers/sqlite"
	"github.com/essivi/backoffice/pkg/httpx"
	"github.com/essivi/backoffice/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	mu      sync.Mutex
	verify  []string
	invites []string
}

func (m *capturedMail) SendVerificationEmail(_ context.Context, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verify = append(m.verify, token)
	return nil
}
func (m *capturedMail) SendPasswordResetEmail(_ context.Context, _, _ string) error { return nil }
func (m *capturedMail) SendInviteEmail(_ context.Context, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, token)
	return nil
}
func (m *capturedMail) SendOTPEmail(_ context.Context, _, _ string) error { return nil }

func newTestRouter(t *testing.T) (*Router, *capturedMail) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.GenerateEdDSAKeyPair("test-issuer")
	require.NoError(t, err)

	mail := &capturedMail{}
	svc := &service.AuthService{
		Store:               st,
		Signer:              keys,
		Notifier:            mail,
		Issuer:              "test-issuer",
		RotateRefreshTokens: true,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(keys, "test", st, svc, logger)
	r.ApplyRoutes()
	return r, mail
}

func doJSON(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func registerAndLogin(t *testing.T, r *Router, mail *capturedMail, email string) (accessToken, refreshToken string) {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":            email,
		"password":         "motdepasse1",
		"password_confirm": "motdepasse1",
		"role":             "client",
		"first_name":       "Afi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Verify via the captured token so sensitive routes open up.
	deadline := time.Now().Add(2 * time.Second)
	for {
		mail.mu.Lock()
		n := len(mail.verify)
		mail.mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	mail.mu.Lock()
	token := mail.verify[len(mail.verify)-1]
	mail.mu.Unlock()

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/verify-email", "", map[string]string{"token": token})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "motdepasse1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]any)
	return data["access_token"].(string), data["refresh_token"].(string)
}

func TestRegisterLoginAndMe(t *testing.T) {
	r, mail := newTestRouter(t)

	access, _ := registerAndLogin(t, r, mail, "afi@example.com")

	rec := doJSON(t, r, http.MethodGet, "/v1/auth/me", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, "success", env.Status)
	data := env.Data.(map[string]any)
	require.Equal(t, "afi@example.com", data["email"])
	require.Equal(t, true, data["is_verified"])
}

func TestLoginFailureEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, "error", env.Status)
	require.NotEmpty(t, env.Message)
}

func TestTokenFailureResponsesAreUniform(t *testing.T) {
	r, mail := newTestRouter(t)

	registerAndLogin(t, r, mail, "uniform@example.com")
	mail.mu.Lock()
	used := mail.verify[len(mail.verify)-1]
	mail.mu.Unlock()

	// A token that never existed and one already consumed must be
	// indistinguishable from the outside.
	recUnknown := doJSON(t, r, http.MethodPost, "/v1/auth/verify-email", "",
		map[string]string{"token": "no-such-token"})
	recUsed := doJSON(t, r, http.MethodPost, "/v1/auth/verify-email", "",
		map[string]string{"token": used})

	require.Equal(t, http.StatusBadRequest, recUnknown.Code)
	require.Equal(t, http.StatusBadRequest, recUsed.Code)
	require.Equal(t, decodeEnvelope(t, recUnknown).Message, decodeEnvelope(t, recUsed).Message)
}

func TestRegisterValidationEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":            "bad@example.com",
		"password":         "short",
		"password_confirm": "different",
		"role":             "client",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, "error", env.Status)
	require.Contains(t, env.Errors, "password")
	require.Contains(t, env.Errors, "password_confirm")
}

func TestProtectedRouteRequiresBearer(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/v1/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/v1/auth/me", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	r, mail := newTestRouter(t)

	access, _ := registerAndLogin(t, r, mail, "client@example.com")

	rec := doJSON(t, r, http.MethodGet, "/v1/admin/accounts", access, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminInviteFlow(t *testing.T) {
	r, mail := newTestRouter(t)
	ctx := context.Background()

	// Promote a registered account to admin directly in the store, then
	// re-login so the token carries the admin role.
	registerAndLogin(t, r, mail, "root@example.com")
	admin, err := r.store.Accounts().GetAccountByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NoError(t, r.store.Accounts().DeleteAccount(ctx, admin.ID))
	admin.Role = domain.RoleAdmin
	require.NoError(t, r.store.Accounts().CreateAccount(ctx, admin))

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "root@example.com",
		"password": "motdepasse1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	access := decodeEnvelope(t, rec).Data.(map[string]any)["access_token"].(string)

	rec = doJSON(t, r, http.MethodPost, "/v1/admin/accounts", access, map[string]string{
		"email": "invited@example.com",
		"role":  "agent",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	deadline := time.Now().Add(2 * time.Second)
	for {
		mail.mu.Lock()
		n := len(mail.invites)
		mail.mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	mail.mu.Lock()
	invite := mail.invites[0]
	mail.mu.Unlock()

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/accept-invite", "", map[string]string{
		"token":            invite,
		"password":         "nouveaumdp1",
		"password_confirm": "nouveaumdp1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "invited@example.com",
		"password": "nouveaumdp1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	r, mail := newTestRouter(t)

	_, refresh := registerAndLogin(t, r, mail, "cycle@example.com")

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/token/refresh", "", map[string]string{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	next := decodeEnvelope(t, rec).Data.(map[string]any)["refresh_token"].(string)
	require.NotEqual(t, refresh, next)

	// The rotated-out token is rejected.
	rec = doJSON(t, r, http.MethodPost, "/v1/auth/token/refresh", "", map[string]string{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/logout", "", map[string]string{
		"refresh_token": next,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/token/refresh", "", map[string]string{
		"refresh_token": next,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
