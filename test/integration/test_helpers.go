//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-api-starter/internal/config"
	"go-api-starter/internal/database"
	"go-api-starter/internal/handler"
	"go-api-starter/internal/middleware"
	"go-api-starter/internal/repository"
	"go-api-starter/internal/router"
	"go-api-starter/internal/service"
)

// newTestServer spins up the full HTTP stack over a throwaway SQLite file.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(context.Background(), "sqlite://"+dbPath, 1, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(context.Background()))

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	authService, err := service.NewAuthService("test-secret", 15*time.Minute, 24*time.Hour, userRepo, tokenRepo)
	require.NoError(t, err)
	studentService := service.NewStudentService(studentRepo)
	authMiddleware := middleware.NewAuthMiddleware(authService, authService)

	cfg := &config.Config{
		ServerPort:       "8000",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	server := httptest.NewServer(router.New(cfg, authMiddleware,
		handler.NewHealthHandler(db),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(authService),
		handler.NewStudentHandler(studentService),
	))
	t.Cleanup(server.Close)

	return server
}

type tokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// registerAndLogin creates an account through the API and signs it in.
func registerAndLogin(t *testing.T, server *httptest.Server, email string, password string, role string) tokenData {
	t.Helper()

	registerResp := postJSON(t, server.URL+"/api/v1/auth/register", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": "Test User",
		"role":      role,
	}, "")
	t.Cleanup(func() { _ = registerResp.Body.Close() })
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)

	return login(t, server, email, password)
}

func login(t *testing.T, server *httptest.Server, email string, password string) tokenData {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Success bool      `json:"success"`
		Data    tokenData `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.True(t, parsed.Success)
	require.NotEmpty(t, parsed.Data.AccessToken)
	require.NotEmpty(t, parsed.Data.RefreshToken)

	return parsed.Data
}

func postJSON(t *testing.T, url string, body any, accessToken string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func doAuthRequest(t *testing.T, method string, url string, body any, accessToken string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
