package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleOrganizer = "organizer"
	tokenTTL      = 24 * time.Hour
)

type AuthService interface {
	// Login checks the organizer password and returns a signed token.
	Login(ctx context.Context, password string) (string, error)
	IssueToken(subject string) (string, error)
}

type authService struct {
	jwtSecret    []byte
	passwordHash []byte
	now          func() time.Time
}

// NewAuthService returns a service whose Login fails with ErrAuthDisabled
// when passwordHash is empty.
func NewAuthService(jwtSecret, passwordHash string) AuthService {
	return &authService{
		jwtSecret:    []byte(jwtSecret),
		passwordHash: []byte(passwordHash),
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", ErrAuthDisabled
	}
	if password == "" {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to compare password hash: %w", err)
	}
	return s.IssueToken("admin")
}

func (s *authService) IssueToken(subject string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": RoleOrganizer,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
