package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationResultCopies(t *testing.T) {
	base := domain.Authenticated("web", "user-1", "jti-1")

	withRights := base.WithRights([]string{"system"})
	require.Nil(t, base.Rights)
	require.True(t, withRights.HasRight("system"))
	require.False(t, withRights.HasRight("billing"))

	revoked := withRights.Revoked()
	require.False(t, revoked.IsAuthenticated)
	require.Equal(t, domain.TokenBlacklisted, revoked.ErrorCode)
	require.Equal(t, "user-1", revoked.UserUUID)
	require.Equal(t, "jti-1", revoked.JwtID)
	require.False(t, revoked.HasRight("system"))
	require.True(t, withRights.IsAuthenticated)
}

func TestExpectedIssuer(t *testing.T) {
	c := domain.ClientAppSetting{Name: "web", ClientID: "abc", PoolID: "ap-southeast-2_XYZ"}

	require.Equal(t,
		"https://cognito-idp.ap-southeast-2.amazonaws.com/ap-southeast-2_XYZ",
		c.ExpectedIssuer("", "ap-southeast-2"))
	require.Equal(t,
		"https://idp.local/ap-southeast-2/ap-southeast-2_XYZ",
		c.ExpectedIssuer("idp.local/{region}", "ap-southeast-2"))
}
