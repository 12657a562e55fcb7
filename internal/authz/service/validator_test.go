package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	f := newFixture(t)

	t.Run("valid token", func(t *testing.T) {
		token, jti := f.mint(t, "user-123", nil)

		res := f.validator.Validate(token)
		require.True(t, res.IsAuthenticated)
		require.Empty(t, res.ErrorCode)
		require.Equal(t, testClient, res.ClientName)
		require.Equal(t, "user-123", res.UserUUID)
		require.Equal(t, jti, res.JwtID)
	})

	t.Run("empty token", func(t *testing.T) {
		res := f.validator.Validate("")
		require.False(t, res.IsAuthenticated)
		require.Equal(t, domain.TokenNotProvided, res.ErrorCode)
	})

	t.Run("undecodable token", func(t *testing.T) {
		res := f.validator.Validate("**badtoken**")
		require.Equal(t, domain.FailedToDecodeToken, res.ErrorCode)
		require.Empty(t, res.UserUUID)
	})

	t.Run("id token", func(t *testing.T) {
		token, _ := f.mint(t, "user-123", func(c *jwtx.AccessClaims) { c.TokenUse = "id" })
		res := f.validator.Validate(token)
		require.Equal(t, domain.TokenUseMismatch, res.ErrorCode)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		token, _ := f.mint(t, "user-123", func(c *jwtx.AccessClaims) {
			c.Issuer = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_Other"
		})
		res := f.validator.Validate(token)
		require.Equal(t, domain.TokenIssuerNotAuthorized, res.ErrorCode)
	})

	t.Run("expired keeps identity", func(t *testing.T) {
		token, jti := f.mintExpired(t, "user-123")

		res := f.validator.Validate(token)
		require.False(t, res.IsAuthenticated)
		require.Equal(t, domain.TokenExpired, res.ErrorCode)
		require.Equal(t, "user-123", res.UserUUID)
		require.Equal(t, jti, res.JwtID)
	})

	t.Run("bad signature drops identity", func(t *testing.T) {
		token, _ := f.mint(t, "user-123", nil)
		parts := strings.Split(token, ".")
		other, _ := f.mint(t, "user-999", nil)
		forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

		res := f.validator.Validate(forged)
		require.False(t, res.IsAuthenticated)
		require.Equal(t, domain.TokenNotValid, res.ErrorCode)
		require.Empty(t, res.UserUUID)
		require.Empty(t, res.JwtID)
	})

	t.Run("unknown kid", func(t *testing.T) {
		stranger, err := jwtx.GenerateSignerRS256("other-kid", 2048)
		require.NoError(t, err)
		token, err := stranger.Sign(jwtx.NewAccessClaims(f.issuer(), "client-id", "user-123", time.Hour, time.Now()))
		require.NoError(t, err)

		res := f.validator.Validate(token)
		require.Equal(t, domain.TokenNotValid, res.ErrorCode)
	})

	t.Run("missing jti", func(t *testing.T) {
		token, _ := f.mint(t, "user-123", func(c *jwtx.AccessClaims) { c.ID = "" })
		res := f.validator.Validate(token)
		require.Equal(t, domain.TokenNotValid, res.ErrorCode)
	})
}

func TestValidateClientSettings(t *testing.T) {
	f := newFixture(t)
	token, _ := f.mint(t, "user-123", nil)

	t.Run("missing settings", func(t *testing.T) {
		v := service.NewTokenValidator(service.ValidatorConfig{Keys: f.keys, Region: testRegion}, nil)
		res := v.Validate(token)
		require.Equal(t, domain.ClientAppSettingsMissing, res.ErrorCode)
	})

	t.Run("wrong pool", func(t *testing.T) {
		v := service.NewTokenValidator(service.ValidatorConfig{
			Keys:   f.keys,
			Client: &domain.ClientAppSetting{Name: testClient, ClientID: "client-id", PoolID: "wrongpool"},
			Region: testRegion,
		}, nil)
		res := v.Validate(token)
		require.Equal(t, domain.TokenIssuerNotAuthorized, res.ErrorCode)
	})

	t.Run("decode failure wins over missing settings", func(t *testing.T) {
		v := service.NewTokenValidator(service.ValidatorConfig{Keys: f.keys, Region: testRegion}, nil)
		res := v.Validate("**badtoken**")
		require.Equal(t, domain.FailedToDecodeToken, res.ErrorCode)
	})
}
