package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TokenSigner issues a bearer token for an authenticated operator.
type TokenSigner func(email string, ttl time.Duration) (string, error)

// AuthService authenticates the single configured operator account. The
// password is held only as a bcrypt hash supplied by configuration.
type AuthService struct {
	email     string
	passHash  []byte
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token string
	Email string
}

func NewAuthService(email, passwordHash string, signer TokenSigner, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		email:     strings.ToLower(strings.TrimSpace(email)),
		passHash:  []byte(passwordHash),
		signToken: signer,
		tokenTTL:  ttl,
	}
}

// Enabled reports whether an operator account is configured.
func (s *AuthService) Enabled() bool {
	return s.email != "" && len(s.passHash) > 0
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	if !s.Enabled() {
		return nil, NewForbiddenError("operator account not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, NewInvalidError("email/password required")
	}
	if email != s.email {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(s.passHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(s.email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Email: s.email}, nil
}
