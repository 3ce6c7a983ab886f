package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ardiwn/shop-api/internal/auth"
	"github.com/ardiwn/shop-api/internal/core/domain"
	"github.com/ardiwn/shop-api/internal/port"
)

type AuthService struct {
	users  port.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users port.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Login verifies the presented password against the stored bcrypt hash and
// issues a signed access token. Unknown email and wrong password return the
// same domain.ErrInvalidCredentials. Read-only against the store.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}
