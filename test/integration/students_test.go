//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStudentCRUD(t *testing.T) {
	server := newTestServer(t)
	admin := registerAndLogin(t, server, "registrar@example.com", "Password123!", "admin")

	createResp := postJSON(t, server.URL+"/api/v1/students/", map[string]string{
		"student_number": "S-1001",
		"name":           "Grace Hopper",
		"grade":          "12",
		"major":          "Computer Science",
		"class_name":     "12-A",
	}, admin.AccessToken)
	t.Cleanup(func() { _ = createResp.Body.Close() })
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	var created struct {
		Data struct {
			ID            string `json:"id"`
			StudentNumber string `json:"student_number"`
			Name          string `json:"name"`
		} `json:"data"`
	}
	decodeBody(t, createResp, &created)
	require.NotEmpty(t, created.Data.ID)
	require.Equal(t, "S-1001", created.Data.StudentNumber)

	// Duplicate student number is a conflict.
	dupResp := postJSON(t, server.URL+"/api/v1/students/", map[string]string{
		"student_number": "S-1001",
		"name":           "Someone Else",
	}, admin.AccessToken)
	t.Cleanup(func() { _ = dupResp.Body.Close() })
	require.Equal(t, http.StatusConflict, dupResp.StatusCode)

	getResp := doAuthRequest(t, http.MethodGet, server.URL+"/api/v1/students/"+created.Data.ID, nil, admin.AccessToken)
	t.Cleanup(func() { _ = getResp.Body.Close() })
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	updateResp := doAuthRequest(t, http.MethodPut, server.URL+"/api/v1/students/"+created.Data.ID, map[string]string{
		"grade": "11",
	}, admin.AccessToken)
	t.Cleanup(func() { _ = updateResp.Body.Close() })
	require.Equal(t, http.StatusOK, updateResp.StatusCode)

	var updated struct {
		Data struct {
			Grade string `json:"grade"`
			Name  string `json:"name"`
		} `json:"data"`
	}
	decodeBody(t, updateResp, &updated)
	require.Equal(t, "11", updated.Data.Grade)
	require.Equal(t, "Grace Hopper", updated.Data.Name)

	listResp := doAuthRequest(t, http.MethodGet, server.URL+"/api/v1/students/?page=1&limit=10", nil, admin.AccessToken)
	t.Cleanup(func() { _ = listResp.Body.Close() })
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	decodeBody(t, listResp, &listed)
	require.Equal(t, 1, listed.Meta.Total)
	require.Len(t, listed.Data, 1)

	deleteResp := doAuthRequest(t, http.MethodDelete, server.URL+"/api/v1/students/"+created.Data.ID, nil, admin.AccessToken)
	t.Cleanup(func() { _ = deleteResp.Body.Close() })
	require.Equal(t, http.StatusOK, deleteResp.StatusCode)

	goneResp := doAuthRequest(t, http.MethodGet, server.URL+"/api/v1/students/"+created.Data.ID, nil, admin.AccessToken)
	t.Cleanup(func() { _ = goneResp.Body.Close() })
	require.Equal(t, http.StatusNotFound, goneResp.StatusCode)
}

func TestStudentDeleteRequiresAdmin(t *testing.T) {
	server := newTestServer(t)
	admin := registerAndLogin(t, server, "registrar@example.com", "Password123!", "admin")
	user := registerAndLogin(t, server, "viewer@example.com", "Password123!", "user")

	createResp := postJSON(t, server.URL+"/api/v1/students/", map[string]string{
		"student_number": "S-2001",
		"name":           "Alan Kay",
	}, admin.AccessToken)
	t.Cleanup(func() { _ = createResp.Body.Close() })
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, createResp, &created)

	deleteResp := doAuthRequest(t, http.MethodDelete, server.URL+"/api/v1/students/"+created.Data.ID, nil, user.AccessToken)
	t.Cleanup(func() { _ = deleteResp.Body.Close() })
	require.Equal(t, http.StatusForbidden, deleteResp.StatusCode)
}
