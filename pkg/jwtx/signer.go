package jwtx

import (
	"github.com/golang-jwt/jwt/v5"
)

// Signer mints JWTs. The service never issues tokens in production, the
// identity provider does, but local tooling and tests need real signatures
// to exercise the verification path.
type Signer interface {
	Alg() string
	KID() string
	Sign(jwt.Claims) (string, error)
	PublicJWK() JWK
	Validate() error
}

// NewSignerRS256 creates an RS256 signer from PEM bytes.
func NewSignerRS256(kid string, pemKey []byte) (Signer, error) {
	return newRS256Signer(kid, pemKey)
}

// GenerateSignerRS256 creates an RS256 signer backed by a fresh key.
func GenerateSignerRS256(kid string, bits int) (Signer, error) {
	return generateRS256Signer(kid, bits)
}
