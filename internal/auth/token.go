package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ardiwn/shop-api/internal/core/domain"
)

// Claims is the payload carried by an access token.
type Claims struct {
	UserID int64    `json:"userId"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access tokens with a process-wide secret.
// It is constructed once at startup and passed by reference to whoever needs
// it; the secret is never read from ambient state. Tokens are stateless:
// there is no revocation path.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime stamped on issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token embedding the user's identity and role set.
func (m *TokenManager) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims. Every
// failure shape (malformed, bad signature, expired) maps to
// domain.ErrUnauthorized.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return &claims, nil
}
