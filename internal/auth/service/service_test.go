package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/internal/store/drivers/sqlite"
	"github.com/essivi/backoffice/pkg/cryptox"
	"github.com/essivi/backoffice/pkg/idx"
	"github.com/essivi/backoffice/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures outgoing messages instead of sending mail.
type recordingNotifier struct {
	mu      sync.Mutex
	verify  []string // raw verification tokens
	reset   []string
	invites []string
	otps    []string
}

func (n *recordingNotifier) SendVerificationEmail(_ context.Context, _, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verify = append(n.verify, token)
	return nil
}

func (n *recordingNotifier) SendPasswordResetEmail(_ context.Context, _, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset = append(n.reset, token)
	return nil
}

func (n *recordingNotifier) SendInviteEmail(_ context.Context, _, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invites = append(n.invites, token)
	return nil
}

func (n *recordingNotifier) SendOTPEmail(_ context.Context, _, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.otps = append(n.otps, code)
	return nil
}

func (n *recordingNotifier) lastVerify(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.verify)
	return n.verify[len(n.verify)-1]
}

func newTestService(t *testing.T) (*AuthService, *recordingNotifier) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.GenerateEdDSAKeyPair("test-issuer")
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	return &AuthService{
		Store:               st,
		Signer:              signer,
		Notifier:            notifier,
		Issuer:              "test-issuer",
		AccessTTL:           time.Minute,
		RefreshTTL:          time.Hour,
		RotateRefreshTokens: true,
	}, notifier
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitFor polls until the condition holds; notifications are fire-and-forget
// so tests observe them asynchronously.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Fail(t, "condition never met")
}

func register(t *testing.T, svc *AuthService, email string) domain.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), RegisterInput{
		Email:           email,
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
		Role:            domain.RoleClient,
		FirstName:       "Afi",
		LastName:        "Mensah",
	})
	require.NoError(t, err)
	return account
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	account := register(t, svc, "Afi.Mensah@Example.com")
	require.Equal(t, "afi.mensah@example.com", account.Email)
	require.False(t, account.IsVerified)

	// Login works before verification (verification gates routes, not login).
	pair, err := svc.Authenticate(ctx, "afi.mensah@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, int64(jwtx.DefaultAccessTokenTTL.Seconds()), pair.ExpiresIn)

	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.verify) == 1
	})

	require.NoError(t, svc.VerifyEmail(ctx, notifier.lastVerify(t)))

	got, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, got.IsVerified)

	// Fresh tokens carry the verified flag.
	pair, err = svc.Authenticate(ctx, "afi.mensah@example.com", "correct-horse")
	require.NoError(t, err)
	claims, err := svc.Signer.(*jwtx.EdDSAKeyPair).Verify(pair.AccessToken)
	require.NoError(t, err)
	require.True(t, claims.Verified)
	require.Equal(t, account.ID, claims.Subject)
	require.Equal(t, "client", claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("password mismatch", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Email: "a@b.c", Password: "longenough", PasswordConfirm: "different",
			Role: domain.RoleClient,
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Email: "a@b.c", Password: "short", PasswordConfirm: "short",
			Role: domain.RoleClient,
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Email: "a@b.c", Password: "longenough", PasswordConfirm: "longenough",
			Role: domain.Role("superuser"),
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("duplicate email", func(t *testing.T) {
		register(t, svc, "dup@example.com")
		_, err := svc.Register(ctx, RegisterInput{
			Email: "DUP@example.com", Password: "longenough", PasswordConfirm: "longenough",
			Role: domain.RoleClient,
		})
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestVerifyEmailTokenStates(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	register(t, svc, "states@example.com")
	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.verify) == 1
	})
	token := notifier.lastVerify(t)

	t.Run("unknown token", func(t *testing.T) {
		require.ErrorIs(t, svc.VerifyEmail(ctx, "not-a-token"), ErrInvalidToken)
	})

	t.Run("valid then already used", func(t *testing.T) {
		require.NoError(t, svc.VerifyEmail(ctx, token))
		require.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrTokenUsed)
	})
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	account := register(t, svc, "expired@example.com")

	// Plant a token that expired an hour ago.
	raw := "expired-raw-token"
	past := time.Now().UTC().Add(-25 * time.Hour)
	require.NoError(t, svc.Store.VerificationTokens().CreateToken(ctx, domain.VerificationToken{
		ID:        idx.New().String(),
		AccountID: account.ID,
		TokenHash: cryptox.FingerprintToken(raw),
		Email:     account.Email,
		Purpose:   domain.PurposeEmailVerify,
		ExpiresAt: past.Add(24 * time.Hour),
		CreatedAt: past,
	}))

	require.ErrorIs(t, svc.VerifyEmail(ctx, raw), ErrTokenExpired)
}

func TestConcurrentVerificationSingleWinner(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	register(t, svc, "race@example.com")
	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.verify) == 1
	})
	token := notifier.lastVerify(t)

	const racers = 8
	results := make(chan error, racers)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < racers; i++ {
		go func() {
			start.Wait()
			results <- svc.VerifyEmail(ctx, token)
		}()
	}
	start.Done()

	var wins, losses int
	for i := 0; i < racers; i++ {
		if err := <-results; err == nil {
			wins++
		} else {
			losses++
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, racers-1, losses)
}

func TestAuthenticateFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	account := register(t, svc, "login@example.com")

	t.Run("unknown email and wrong password are identical", func(t *testing.T) {
		_, errUnknown := svc.Authenticate(ctx, "nobody@example.com", "whatever")
		_, errWrong := svc.Authenticate(ctx, "login@example.com", "wrong-password")
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		require.ErrorIs(t, errWrong, ErrInvalidCredentials)
		require.Equal(t, errUnknown, errWrong)
	})

	t.Run("inactive account", func(t *testing.T) {
		require.NoError(t, svc.SetAccountActive(ctx, account.ID, false))
		_, err := svc.Authenticate(ctx, "login@example.com", "correct-horse")
		require.ErrorIs(t, err, ErrAccountInactive)
		require.NoError(t, svc.SetAccountActive(ctx, account.ID, true))
	})

	t.Run("unverified rejected when flag set", func(t *testing.T) {
		svc.RequireVerifiedLogin = true
		defer func() { svc.RequireVerifiedLogin = false }()
		_, err := svc.Authenticate(ctx, "login@example.com", "correct-horse")
		require.ErrorIs(t, err, ErrAccountUnverified)
	})
}

func TestRefreshRotation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "refresh@example.com")
	pair, err := svc.Authenticate(ctx, "refresh@example.com", "correct-horse")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The burnt token is dead.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// The rotated one still works.
	_, err = svc.Refresh(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "logout@example.com")
	pair, err := svc.Authenticate(ctx, "logout@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// Idempotent.
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	register(t, svc, "reset@example.com")
	pair, err := svc.Authenticate(ctx, "reset@example.com", "correct-horse")
	require.NoError(t, err)

	// Unknown email still answers success.
	require.NoError(t, svc.RequestPasswordReset(ctx, "ghost@example.com"))

	require.NoError(t, svc.RequestPasswordReset(ctx, "reset@example.com"))
	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.reset) == 1
	})

	notifier.mu.Lock()
	token := notifier.reset[0]
	notifier.mu.Unlock()

	require.NoError(t, svc.ConfirmPasswordReset(ctx, token, "new-password-1", "new-password-1"))

	// Old password dead, new one works.
	_, err = svc.Authenticate(ctx, "reset@example.com", "correct-horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "reset@example.com", "new-password-1")
	require.NoError(t, err)

	// Pre-reset sessions are revoked.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// Token is single use.
	err = svc.ConfirmPasswordReset(ctx, token, "another-pass-2", "another-pass-2")
	require.ErrorIs(t, err, ErrTokenUsed)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	account := register(t, svc, "change@example.com")

	require.ErrorIs(t,
		svc.ChangePassword(ctx, account.ID, "wrong-current", "new-password-1", "new-password-1"),
		ErrInvalidCredentials)

	require.NoError(t,
		svc.ChangePassword(ctx, account.ID, "correct-horse", "new-password-1", "new-password-1"))

	_, err := svc.Authenticate(ctx, "change@example.com", "new-password-1")
	require.NoError(t, err)
}

func TestOTPEnableTwoFactor(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	alice := register(t, svc, "alice@example.com")
	mallory := register(t, svc, "mallory@example.com")

	require.NoError(t, svc.SendOTP(ctx, alice.ID))
	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.otps) == 1
	})

	notifier.mu.Lock()
	code := notifier.otps[0]
	notifier.mu.Unlock()
	require.Len(t, code, domain.OTPLength)

	// The code is scoped to alice; mallory cannot redeem it.
	_, err := svc.VerifyOTP(ctx, mallory.ID, code)
	require.ErrorIs(t, err, ErrInvalidOTP)

	url, err := svc.VerifyOTP(ctx, alice.ID, code)
	require.NoError(t, err)
	require.Contains(t, url, "otpauth://totp/")

	got, err := svc.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, got.TwoFactorEnabled)
	require.NotNil(t, got.TwoFactorSecret)

	// Single use.
	_, err = svc.VerifyOTP(ctx, alice.ID, code)
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestSendOTPInvalidatesPriorCodes(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	account := register(t, svc, "otp2@example.com")

	// Sends are asynchronous; let each one land before issuing the next so
	// the captured order matches the issue order.
	require.NoError(t, svc.SendOTP(ctx, account.ID))
	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.otps) == 1
	})
	require.NoError(t, svc.SendOTP(ctx, account.ID))
	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.otps) == 2
	})

	notifier.mu.Lock()
	first, second := notifier.otps[0], notifier.otps[1]
	notifier.mu.Unlock()

	if first != second {
		_, err := svc.VerifyOTP(ctx, account.ID, first)
		require.ErrorIs(t, err, ErrInvalidOTP)
	}
	_, err := svc.VerifyOTP(ctx, account.ID, second)
	require.NoError(t, err)
}

func TestInviteFlow(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	account, err := svc.Invite(ctx, InviteInput{
		Email:     "agent@example.com",
		Role:      domain.RoleAgent,
		FirstName: "Kodjo",
		LastName:  "Agbeko",
	})
	require.NoError(t, err)
	require.False(t, account.IsActive)
	require.False(t, account.IsVerified)
	require.Empty(t, account.PasswordHash)

	// No password yet, so no way in.
	_, err = svc.Authenticate(ctx, "agent@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.invites) == 1
	})
	notifier.mu.Lock()
	token := notifier.invites[0]
	notifier.mu.Unlock()

	require.NoError(t, svc.AcceptInvite(ctx, token, "chosen-password", "chosen-password"))

	got, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)
	require.True(t, got.IsVerified)

	pair, err := svc.Authenticate(ctx, "agent@example.com", "chosen-password")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	// Invite token is single use.
	require.ErrorIs(t, svc.AcceptInvite(ctx, token, "other-password", "other-password"),
		ErrTokenUsed)
}

func TestAuthorizeMatrix(t *testing.T) {
	admin := &jwtx.Claims{Role: "admin", Verified: true}
	admin.Subject = "admin-id"
	client := &jwtx.Claims{Role: "client", Verified: false}
	client.Subject = "client-id"

	t.Run("nil claims", func(t *testing.T) {
		require.ErrorIs(t, Authorize(nil), ErrUnauthenticated)
	})

	t.Run("verified gate", func(t *testing.T) {
		require.ErrorIs(t, Authorize(client, Verified()), ErrUnverified)
		require.NoError(t, Authorize(admin, Verified()))
	})

	t.Run("role gate", func(t *testing.T) {
		require.ErrorIs(t, Authorize(client, HasRole("admin")), ErrWrongRole)
		require.NoError(t, Authorize(client, HasRole("admin", "client")))
	})

	t.Run("owner or admin", func(t *testing.T) {
		require.NoError(t, Authorize(client, OwnerOrAdmin("client-id")))
		require.NoError(t, Authorize(admin, OwnerOrAdmin("client-id")))
		require.ErrorIs(t, Authorize(client, OwnerOrAdmin("someone-else")), ErrNotOwner)
	})

	t.Run("first failure wins", func(t *testing.T) {
		require.ErrorIs(t, Authorize(client, Verified(), HasRole("admin")), ErrUnverified)
	})
}

func TestHousekeepingSweepsExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	account := register(t, svc, "sweep@example.com")
	now := time.Now().UTC()

	require.NoError(t, svc.Store.Sessions().CreateSession(ctx, domain.Session{
		ID: idx.New().String(), AccountID: account.ID, TokenHash: "stale",
		SID: idx.New().String(), ExpiresAt: now.Add(-time.Hour),
		CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, svc.Store.OTPCodes().CreateOTPCode(ctx, domain.OTPCode{
		ID: idx.New().String(), AccountID: account.ID, Code: "000000",
		ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour),
	}))

	hk := NewHousekeepingService(svc.Store, testLogger(), time.Hour)
	hk.Start()
	hk.Stop()

	_, err := svc.Store.Sessions().GetSessionByTokenHash(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Store.OTPCodes().GetActiveOTPCode(ctx, account.ID, "000000")
	require.ErrorIs(t, err, store.ErrNotFound)
}
