package services

import (
	"errors"
	"time"

	"symptracker/utils"
)

var (
	ErrAuthDisabled       = errors.New("login is not configured")
	ErrInvalidCredentials = errors.New("incorrect password")
)

const TokenTTL = 72 * time.Hour

// AuthService guards the diary of its single owner with one password.
type AuthService struct {
	secret       string
	passwordHash string
}

func NewAuthService(secret, passwordHash string) *AuthService {
	return &AuthService{secret: secret, passwordHash: passwordHash}
}

func (s *AuthService) Enabled() bool { return s.secret != "" && s.passwordHash != "" }

// Login checks the password against the configured bcrypt hash and issues a token.
func (s *AuthService) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	if !utils.CheckPasswordHash(password, s.passwordHash) {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateJWT(s.secret, TokenTTL)
}
