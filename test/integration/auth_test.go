//go:build integration

package integration

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			Status   string `json:"status"`
			Database string `json:"database"`
		} `json:"data"`
	}
	decodeBody(t, resp, &parsed)
	require.True(t, parsed.Success)
	require.Equal(t, "ok", parsed.Data.Status)
	require.Equal(t, "ok", parsed.Data.Database)
}

func TestAuthFlow(t *testing.T) {
	server := newTestServer(t)
	tokens := registerAndLogin(t, server, "alice@example.com", "Password123!", "user")

	meResp := doAuthRequest(t, http.MethodGet, server.URL+"/api/v1/users/me", nil, tokens.AccessToken)
	t.Cleanup(func() { _ = meResp.Body.Close() })
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var meParsed struct {
		Success bool `json:"success"`
		Data    struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	decodeBody(t, meResp, &meParsed)
	require.Equal(t, "alice@example.com", meParsed.Data.Email)
	require.Equal(t, "user", meParsed.Data.Role)

	// A token without the Bearer prefix or with no header at all is rejected.
	anonResp := doAuthRequest(t, http.MethodGet, server.URL+"/api/v1/users/me", nil, "")
	t.Cleanup(func() { _ = anonResp.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, anonResp.StatusCode)
}

func TestRefreshRotation(t *testing.T) {
	server := newTestServer(t)
	tokens := registerAndLogin(t, server, "bob@example.com", "Password123!", "user")

	refreshResp := postJSON(t, server.URL+"/api/v1/auth/refresh", map[string]string{
		"refresh_token": tokens.RefreshToken,
	}, "")
	t.Cleanup(func() { _ = refreshResp.Body.Close() })
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)

	// The spent token must not be accepted a second time.
	replayResp := postJSON(t, server.URL+"/api/v1/auth/refresh", map[string]string{
		"refresh_token": tokens.RefreshToken,
	}, "")
	t.Cleanup(func() { _ = replayResp.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, replayResp.StatusCode)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	server := newTestServer(t)
	tokens := registerAndLogin(t, server, "carol@example.com", "Password123!", "user")

	logoutResp := postJSON(t, server.URL+"/api/v1/auth/logout", map[string]string{
		"refresh_token": tokens.RefreshToken,
	}, tokens.AccessToken)
	t.Cleanup(func() { _ = logoutResp.Body.Close() })
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)

	refreshResp := postJSON(t, server.URL+"/api/v1/auth/refresh", map[string]string{
		"refresh_token": tokens.RefreshToken,
	}, "")
	t.Cleanup(func() { _ = refreshResp.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, refreshResp.StatusCode)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	server := newTestServer(t)
	registerAndLogin(t, server, "dave@example.com", "Password123!", "user")

	unknownResp := postJSON(t, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, "")
	t.Cleanup(func() { _ = unknownResp.Body.Close() })
	unknownBody, err := io.ReadAll(unknownResp.Body)
	require.NoError(t, err)

	wrongPassResp := postJSON(t, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    "dave@example.com",
		"password": "wrong-password",
	}, "")
	t.Cleanup(func() { _ = wrongPassResp.Body.Close() })
	wrongPassBody, err := io.ReadAll(wrongPassResp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, unknownResp.StatusCode)
	require.Equal(t, http.StatusUnauthorized, wrongPassResp.StatusCode)
	require.JSONEq(t, string(unknownBody), string(wrongPassBody))
}

func TestDeactivatedUserLosesAccessImmediately(t *testing.T) {
	server := newTestServer(t)
	admin := registerAndLogin(t, server, "admin@example.com", "Password123!", "admin")

	victimResp := postJSON(t, server.URL+"/api/v1/auth/register", map[string]string{
		"email":    "eve@example.com",
		"password": "Password123!",
		"role":     "user",
	}, "")
	t.Cleanup(func() { _ = victimResp.Body.Close() })
	require.Equal(t, http.StatusCreated, victimResp.StatusCode)

	var victimParsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, victimResp, &victimParsed)
	require.NotEmpty(t, victimParsed.Data.ID)

	victim := login(t, server, "eve@example.com", "Password123!")

	deactivateResp := doAuthRequest(t, http.MethodDelete, server.URL+"/api/v1/users/"+victimParsed.Data.ID, nil, admin.AccessToken)
	t.Cleanup(func() { _ = deactivateResp.Body.Close() })
	require.Equal(t, http.StatusOK, deactivateResp.StatusCode)

	// The still-valid access token no longer opens protected routes.
	meResp := doAuthRequest(t, http.MethodGet, server.URL+"/api/v1/users/me", nil, victim.AccessToken)
	t.Cleanup(func() { _ = meResp.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, meResp.StatusCode)

	// And logging back in fails with the same generic credentials error.
	reloginResp := postJSON(t, server.URL+"/api/v1/auth/login", map[string]string{
		"email":    "eve@example.com",
		"password": "Password123!",
	}, "")
	t.Cleanup(func() { _ = reloginResp.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, reloginResp.StatusCode)
}

func TestAdminOnlyRoutes(t *testing.T) {
	server := newTestServer(t)
	user := registerAndLogin(t, server, "frank@example.com", "Password123!", "user")

	listResp := doAuthRequest(t, http.MethodGet, server.URL+"/api/v1/users/", nil, user.AccessToken)
	t.Cleanup(func() { _ = listResp.Body.Close() })
	require.Equal(t, http.StatusForbidden, listResp.StatusCode)

	admin := registerAndLogin(t, server, "root@example.com", "Password123!", "admin")
	adminListResp := doAuthRequest(t, http.MethodGet, server.URL+"/api/v1/users/", nil, admin.AccessToken)
	t.Cleanup(func() { _ = adminListResp.Body.Close() })
	require.Equal(t, http.StatusOK, adminListResp.StatusCode)
}
