package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func postJSON(t *testing.T, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// signupAndLogin registers a fresh user and returns a valid token.
func signupAndLogin(t *testing.T, email string) string {
	t.Helper()
	w := postJSON(t, "/api/admin/auth/signup", "", map[string]string{
		"email":    email,
		"password": "testpassword",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignupLoginAndProfile(t *testing.T) {
	token := signupAndLogin(t, "auth-flow@example.com")

	// login with the same credentials
	w := postJSON(t, "/api/admin/auth/login", "", map[string]string{
		"email":    "auth-flow@example.com",
		"password": "testpassword",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// profile requires a token
	w = getJSON(t, "/api/admin/auth/current_profile", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getJSON(t, "/api/admin/auth/current_profile", token)
	assert.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Email string `json:"email"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "auth-flow@example.com", profile.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	signupAndLogin(t, "bad-creds@example.com")

	w := postJSON(t, "/api/admin/auth/login", "", map[string]string{
		"email":    "bad-creds@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDuplicateSignupConflicts(t *testing.T) {
	signupAndLogin(t, "dupe@example.com")

	w := postJSON(t, "/api/admin/auth/signup", "", map[string]string{
		"email":    "dupe@example.com",
		"password": "testpassword",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
