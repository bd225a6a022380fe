package services

import (
	"fmt"
	"time"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/utils"
)

// AuthService issues signed bearer tokens for authenticated users.
type AuthService struct {
	secret string
	expiry time.Duration
	issuer string
}

// NewAuthService creates a new AuthService.
func NewAuthService(secret string, expiry time.Duration, issuer string) *AuthService {
	return &AuthService{secret: secret, expiry: expiry, issuer: issuer}
}

var _ portssvc.TokenSvc = (*AuthService)(nil)

// GenerateToken issues an HS256 JWT whose subject is the user id.
func (s *AuthService) GenerateToken(user *domain.User) (string, error) {
	signed, err := utils.GenerateJWT(user.UserID, s.secret, s.expiry, s.issuer)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
