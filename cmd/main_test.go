package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/swiss-tournament/config"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		StoreDriver:       config.StoreDriverMemory,
		JWTSecretKey:      "serve-test-secret",
		AdminPasswordHash: string(hash),
		ServerPort:        8080,
		CORSAllowedOrigin: []string{"*"},
	}
}

func TestBuildAppServesAPI(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := buildApp(t.Context(), memoryConfig(t), logger)
	require.NoError(t, err)
	t.Cleanup(func() { a.close(logger) })

	server := httptest.NewServer(a.handler)
	t.Cleanup(server.Close)

	resp, err := server.Client().Post(server.URL+"/auth/token", "application/json",
		strings.NewReader(`{"password":"hunter2"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokenBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokenBody))
	require.NotEmpty(t, tokenBody.Token)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, server.URL+"/players",
		bytes.NewReader([]byte(`{"name":"Ada"}`)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokenBody.Token)
	created, err := server.Client().Do(req)
	require.NoError(t, err)
	created.Body.Close()
	assert.Equal(t, http.StatusCreated, created.StatusCode)

	bad, err := server.Client().Post(server.URL+"/auth/token", "application/json",
		strings.NewReader(`{"password":"wrong"}`))
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)

	for _, path := range []string{"/healthz", "/metrics", "/swagger/doc.json"} {
		resp, err := server.Client().Get(server.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hash-password", "s3cret"})
	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "cli-secret")
	for _, k := range []string{"DATABASE_URL", "ADMIN_PASSWORD_HASH", "SERVER_PORT", "LOG_LEVEL",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL", "EXPORT_INTERVAL"} {
		t.Setenv(k, "")
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--subject", "ops"})
	require.NoError(t, cmd.Execute())
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "."), 3)
}
