package services

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/ferren/application-rollup-backend/internal/auth"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// AuthService validates the shared dashboard password and mints access
// tokens. The backend has no user accounts: one bcrypt-hashed password from
// configuration gates the whole dashboard.
type AuthService struct {
	passwordHash []byte
	tokens       *auth.TokenManager
	logger       *slog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates the auth service from the configured password hash.
func NewAuthService(passwordHash string, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		logger:       logger.With("service", "auth"),
	}
}

// Login compares the supplied password against the configured hash and
// returns a signed token on success.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "failed login attempt")
		return "", apperrors.ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(auth.DashboardSubject)
}
