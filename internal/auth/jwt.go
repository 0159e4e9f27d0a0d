package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature or claims
// validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the authenticated identity inside a signed token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenManager creates a TokenManager signing with the given secret.
func NewTokenManager(secret string, lifetime time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), lifetime: lifetime}
}

// Generate signs a token for the given identity.
func (m *TokenManager) Generate(username, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.lifetime)),
		},
		Username: username,
		Role:     role,
	})
	return token.SignedString(m.secret)
}

// Parse verifies a token string and returns its claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
