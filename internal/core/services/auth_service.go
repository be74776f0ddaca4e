package services

import (
	"context"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/otavioq/ticket-metrics-backend/internal/auth"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// AuthService validates the configured admin credentials and issues tokens.
// There is no user database: a single operator account comes from config.
type AuthService struct {
	username     string
	passwordHash []byte
	tokens       *auth.TokenManager
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(username, passwordHash string, tokens *auth.TokenManager) ports.AuthService {
	return &AuthService{
		username:     username,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

// Login authenticates the operator and returns a signed token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperrors.ErrInvalidCredentials
	}

	// Compare both factors before failing so the username check does not
	// leak through response timing.
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))

	if !usernameOK || passwordErr != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(username)
}
