package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginIssuesOrganizerToken(t *testing.T) {
	svc := NewAuthService("secret", hashPassword(t, "hunter2"))

	token, err := svc.Login(context.Background(), "hunter2")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, RoleOrganizer, claims["role"])
	assert.Equal(t, "admin", claims["sub"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.InDelta(t, float64(time.Now().Add(tokenTTL).Unix()), exp, 5)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService("secret", hashPassword(t, "hunter2"))

	_, err := svc.Login(context.Background(), "hunter3")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	svc := NewAuthService("secret", "")

	_, err := svc.Login(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}
