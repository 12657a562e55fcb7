package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) jwtx.Signer {
	t.Helper()

	signer, err := jwtx.GenerateSignerRS256("kid-1", 2048)
	require.NoError(t, err)
	jwks, err := json.Marshal(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}})
	require.NoError(t, err)

	t.Setenv("AUTHZ_REGION", "ap-southeast-2")
	t.Setenv("AUTHZ_CLIENT_SETTINGS", `{"name":"Portal","clientId":"abc","poolId":"ap-southeast-2_X"}`)
	t.Setenv("AUTHZ_PUBLIC_KEYS", string(jwks))
	t.Setenv("AUTHZ_DATABASE_DRIVER", "sqlite")
	t.Setenv("AUTHZ_DATABASE_FILE", filepath.Join(t.TempDir(), "authz.db"))
	t.Setenv("AUTHZ_CACHE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")
	return signer
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestGrantThenValidate(t *testing.T) {
	signer := setupEnv(t)

	out := run(t, "grant-right", "user-1", domain.RightSystem)
	require.Contains(t, out, `granted "system" to user-1`)

	issuer := domain.ClientAppSetting{PoolID: "ap-southeast-2_X"}.ExpectedIssuer("", "ap-southeast-2")
	token, err := signer.Sign(jwtx.NewAccessClaims(issuer, "abc", "user-1", time.Hour, time.Now()))
	require.NoError(t, err)

	var res domain.AuthorizationResult
	require.NoError(t, json.Unmarshal([]byte(run(t, "validate", token)), &res))
	require.True(t, res.IsAuthenticated)
	require.Equal(t, "Portal", res.ClientName)
	require.Equal(t, []string{domain.RightSystem}, res.Rights)
}

func TestValidateRejected(t *testing.T) {
	setupEnv(t)

	var res domain.AuthorizationResult
	require.NoError(t, json.Unmarshal([]byte(run(t, "validate", "**badtoken**")), &res))
	require.False(t, res.IsAuthenticated)
	require.Equal(t, domain.FailedToDecodeToken, res.ErrorCode)
}

func TestPrune(t *testing.T) {
	setupEnv(t)

	out := run(t, "prune", "--age-hours", "2")
	require.Equal(t, "0 blacklisted tokens deleted. 0 issued tokens deleted.\n", out)
}

func TestArgsRequired(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"grant-right", "only-one"})
	cmd.SetOut(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
