package jwtx_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestKeySetFromJWKS(t *testing.T) {
	rsaSigner := newSigner(t, "rsa-1")
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	doc, err := json.Marshal(jwtx.JWKS{Keys: []jwtx.JWK{
		rsaSigner.PublicJWK(),
		jwtx.NewES256JWK("ec-1", "sig", &ecKey.PublicKey),
	}})
	require.NoError(t, err)

	ks, err := jwtx.NewKeySetFromJWKS(doc)
	require.NoError(t, err)
	require.True(t, ks.IsReady())
	require.Len(t, ks.PublicJWKS().Keys, 2)

	pub, err := ks.Get("ec-1")
	require.NoError(t, err)
	ecPub, ok := pub.(*ecdsa.PublicKey)
	require.True(t, ok)
	require.True(t, ecPub.Equal(&ecKey.PublicKey))

	_, err = ks.Get("missing")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}

func TestParseJWKSErrors(t *testing.T) {
	cases := map[string]string{
		"not json": `{`,
		"no keys":  `{"keys":[]}`,
		"no kid":   `{"keys":[{"kty":"RSA","n":"AQAB","e":"AQAB"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := jwtx.ParseJWKS([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestKeySetResetKeepsOldKeysOnError(t *testing.T) {
	signer := newSigner(t, "rsa-1")
	ks := jwtx.NewKeySet()
	require.NoError(t, ks.AddSigner(signer))

	err := ks.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{{Kty: "oct", Kid: "x"}}})
	require.Error(t, err)

	_, err = ks.Get("rsa-1")
	require.NoError(t, err)
}
