package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrMissingIdentity   = errors.New("token carries no identity")
)

// Verifier maps a presented credential to an identity, or fails.
// Credential issuance (login/registration) lives outside this process.
type Verifier interface {
	Verify(credential string) (string, error)
}

// JWTVerifier accepts HS256 tokens whose subject claim is the identity.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(credential string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredential
	}
	if claims.Subject == "" {
		return "", ErrMissingIdentity
	}
	return claims.Subject, nil
}

// Insecure trusts the presented credential as the identity itself.
// Dev and test use only.
type Insecure struct{}

func (Insecure) Verify(credential string) (string, error) {
	if credential == "" {
		return "", ErrInvalidCredential
	}
	return credential, nil
}
