package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Supported JWT signing algorithms
const (
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// DefaultLeeway is the clock skew tolerated on exp, nbf and iat.
const DefaultLeeway = 10 * time.Second

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrUnknownKID   = errors.New("jwtx: unknown kid")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// VerifyOptions tunes a Verifier.
type VerifyOptions struct {
	// Leeway allows small clock skew when validating exp/nbf/iat.
	// Zero means DefaultLeeway.
	Leeway time.Duration

	// Methods lists accepted alg header values. Empty means RS256 only,
	// which is all the identity provider signs with.
	Methods []string
}

// Verifier checks signatures against a KeySet and validates the time based
// claims. Issuer and token_use checks are left to the caller since they
// are policy, not cryptography.
type Verifier struct {
	keys    *KeySet
	leeway  time.Duration
	methods []string
}

// NewVerifier returns a Verifier bound to keys.
func NewVerifier(keys *KeySet, opts VerifyOptions) *Verifier {
	v := &Verifier{keys: keys, leeway: opts.Leeway, methods: opts.Methods}
	if v.leeway == 0 {
		v.leeway = DefaultLeeway
	}
	if len(v.methods) == 0 {
		v.methods = []string{AlgorithmRS256}
	}
	return v
}

// Verify validates the token and returns its claims. Errors wrap one of the
// package sentinels; ErrExpired is only returned for an otherwise valid
// token whose exp is past (leeway included).
func (v *Verifier) Verify(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(v.methods),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)

	claims := &AccessClaims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, v.keyFunc)
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrInvalidClaim
	}
	return claims, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
	}

	pub, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
	}

	// The key type has to agree with the alg header, otherwise an RSA key
	// could end up being fed to an HMAC or EC verifier.
	switch pub.(type) {
	case *rsa.PublicKey:
		if _, ok := t.Method.(*jwt.SigningMethodRSA); ok {
			return pub, nil
		}
	case *ecdsa.PublicKey:
		if _, ok := t.Method.(*jwt.SigningMethodECDSA); ok {
			return pub, nil
		}
	case ed25519.PublicKey:
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); ok {
			return pub, nil
		}
	}
	return nil, fmt.Errorf("%w: key %q does not match alg %s", ErrInvalidSig, kid, t.Method.Alg())
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID), errors.Is(err, ErrInvalidSig):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %w", ErrNotYetValid, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}
}
