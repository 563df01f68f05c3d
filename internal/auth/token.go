package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal roles embedded in token claims.
const (
	RoleRider  = "rider"
	RoleDriver = "driver"
)

// ErrInvalidToken covers every verification failure: malformed token, wrong
// signing method, bad signature, or elapsed expiry. A well-formed token whose
// identity no longer exists is not this layer's concern.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload binding a token to one identity.
type Claims struct {
	IdentityID string `json:"id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service with the given HMAC secret.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue creates a signed token for the identity with expiry at issuance+ttl.
// The ttl is chosen per call site: 15 days for driver flows, 7 days for the
// rider flow. Token construction touches no storage.
func (s *TokenService) Issue(identityID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		IdentityID: identityID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates signature and expiry and returns the embedded claims.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.IdentityID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
