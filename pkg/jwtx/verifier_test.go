package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "https://cognito-idp.ap-southeast-2.amazonaws.com/ap-southeast-2_pool"

func newSigner(t *testing.T, kid string) jwtx.Signer {
	t.Helper()
	s, err := jwtx.GenerateSignerRS256(kid, 2048)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	return s
}

func TestVerifierAcceptsValidToken(t *testing.T) {
	signer := newSigner(t, "key-1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := jwtx.NewAccessClaims(exampleIssuer, "client-1", "user-123", time.Hour, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.NewVerifier(keys, jwtx.VerifyOptions{}).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Username)
	require.Equal(t, jwtx.TokenUseAccess, got.TokenUse)
	require.Equal(t, claims.ID, got.ID)
	require.Equal(t, exampleIssuer, got.Issuer)
}

func TestVerifierExpiry(t *testing.T) {
	signer := newSigner(t, "key-1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	v := jwtx.NewVerifier(keys, jwtx.VerifyOptions{})

	t.Run("expired beyond leeway", func(t *testing.T) {
		claims := jwtx.NewAccessClaims(exampleIssuer, "client-1", "user-123", time.Hour, time.Now().Add(-2*time.Hour))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("expired within leeway", func(t *testing.T) {
		claims := jwtx.NewAccessClaims(exampleIssuer, "client-1", "user-123", time.Hour, time.Now().Add(-time.Hour-3*time.Second))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.NoError(t, err)
	})

	t.Run("missing exp", func(t *testing.T) {
		claims := jwtx.NewAccessClaims(exampleIssuer, "client-1", "user-123", time.Hour, time.Now())
		claims.ExpiresAt = nil
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.Error(t, err)
		require.NotErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestVerifierRejects(t *testing.T) {
	signer := newSigner(t, "key-1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	v := jwtx.NewVerifier(keys, jwtx.VerifyOptions{})

	claims := jwtx.NewAccessClaims(exampleIssuer, "client-1", "user-123", time.Hour, time.Now())

	t.Run("unknown kid", func(t *testing.T) {
		other := newSigner(t, "key-2")
		token, err := other.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("signed by a different key with the same kid", func(t *testing.T) {
		impostor := newSigner(t, "key-1")
		token, err := impostor.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		forged := claims
		forged.Username = "someone-else"
		other, err := signer.Sign(forged)
		require.NoError(t, err)

		// header + forged payload + original signature
		parts := strings.Split(token, ".")
		otherParts := strings.Split(other, ".")
		_, err = v.Verify(parts[0] + "." + otherParts[1] + "." + parts[2])
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("hmac alg", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tok.Header["kid"] = "key-1"
		token, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.Error(t, err)
		require.NotErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("**badtoken**")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}
