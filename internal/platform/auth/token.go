package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated facility context attached to a request after
// token verification. It carries the provenance identity stamped onto every
// visit record the facility submits.
type Principal struct {
	Email        string
	FacilityName string
	FacilityType string
}

// Claims is the JWT claim set issued at login. Tokens are self-describing:
// expiry and facility identity are embedded so verification is stateless and
// no server-side session table exists.
type Claims struct {
	jwt.RegisteredClaims
	FacilityName string `json:"facility_name"`
	FacilityType string `json:"facility_type"`
}

// TokenIssuer signs and verifies facility access tokens with an HMAC key.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer. ttl is the access-token lifetime
// (24 hours in the documented contract).
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue creates a signed access token for the given principal.
func (i *TokenIssuer) Issue(p Principal) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		FacilityName: p.FacilityName,
		FacilityType: p.FacilityType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates an access token, returning the embedded
// principal. Expired or malformed tokens return ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenStr string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.FacilityName == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		Email:        claims.Subject,
		FacilityName: claims.FacilityName,
		FacilityType: claims.FacilityType,
	}, nil
}
