package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Decoded is the structure of a token read without checking its signature.
// Nothing in it can be trusted until the token has been through a Verifier.
type Decoded struct {
	Kid    string
	Alg    string
	Claims AccessClaims
}

// Decode splits and parses a compact JWT without verifying it.
func Decode(tokenStr string) (*Decoded, error) {
	claims := &AccessClaims{}
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	kid, _ := token.Header["kid"].(string)
	alg, _ := token.Header["alg"].(string)

	return &Decoded{
		Kid:    kid,
		Alg:    alg,
		Claims: *claims,
	}, nil
}
