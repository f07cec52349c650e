package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	kp, err := GenerateEdDSAKeyPair("essivi-backoffice")
	require.NoError(t, err)

	now := time.Now().UTC()
	claims := NewAccessClaims(
		"01ARZ3NDEKTSV4RRFFQ69G5FAV", "sid-1", "admin", "a@x.com",
		true, DefaultAccessTokenTTL, "essivi-backoffice", now,
	)

	token, err := kp.Sign(claims)
	require.NoError(t, err)

	got, err := kp.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", got.Subject)
	require.Equal(t, "admin", got.Role)
	require.Equal(t, "a@x.com", got.Email)
	require.True(t, got.Verified)
	require.Equal(t, "sid-1", got.SID)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	kp, err := GenerateEdDSAKeyPair("essivi-backoffice")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	claims := NewAccessClaims("sub", "sid", "agent", "", false, time.Minute, "essivi-backoffice", past)

	token, err := kp.Sign(claims)
	require.NoError(t, err)

	_, err = kp.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()

	kp1, err := GenerateEdDSAKeyPair("essivi-backoffice")
	require.NoError(t, err)
	kp2, err := GenerateEdDSAKeyPair("essivi-backoffice")
	require.NoError(t, err)

	token, err := kp1.Sign(NewAccessClaims(
		"sub", "sid", "client", "", true,
		DefaultAccessTokenTTL, "essivi-backoffice", time.Now().UTC(),
	))
	require.NoError(t, err)

	_, err = kp2.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	kp, err := GenerateEdDSAKeyPair("expected-issuer")
	require.NoError(t, err)

	token, err := kp.Sign(NewAccessClaims(
		"sub", "sid", "client", "", true,
		DefaultAccessTokenTTL, "someone-else", time.Now().UTC(),
	))
	require.NoError(t, err)

	_, err = kp.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	kp, err := GenerateEdDSAKeyPair("essivi-backoffice")
	require.NoError(t, err)

	_, err = kp.Verify("definitely.not.a-jwt")
	require.Error(t, err)
}
