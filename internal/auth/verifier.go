// Package auth resolves bearer credentials to caller identities. The
// business layer only ever sees the Verifier interface; the JWT
// implementation stands in for the hosted identity service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Identity is the verified caller: a stable uid from the identity
// provider plus a display name used when creating memberships.
type Identity struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// Verifier validates a bearer credential and returns the caller's
// identity. Implementations must treat the token as opaque input.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims are the JWT claims carried by identity tokens.
type Claims struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 identity tokens.
type JWTVerifier struct {
	secretKey []byte
	issuer    string
}

// NewJWTVerifier creates a verifier for tokens signed with secretKey.
func NewJWTVerifier(secretKey, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

var _ Verifier = (*JWTVerifier)(nil)

// Verify validates a token and returns the caller's identity.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UID == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{UID: claims.UID, Name: claims.Name}, nil
}

// GenerateToken mints a token for the given identity. Used by tooling
// and tests; production tokens come from the identity provider.
func (v *JWTVerifier) GenerateToken(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  identity.UID,
		Name: identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    v.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secretKey)
}
