package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func putJSON(t *testing.T, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSettingsEndpoint(t *testing.T) {
	token := signupAndLogin(t, "settings-api@example.com")

	w := getJSON(t, "/api/admin/settings", token)
	assert.Equal(t, http.StatusOK, w.Code)

	// partial update touches only the provided fields
	w = putJSON(t, "/api/admin/settings", token, map[string]any{
		"offset_minutes": 3,
		"isha_enabled":   false,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		OffsetMinutes int    `json:"offset_minutes"`
		IshaEnabled   bool   `json:"isha_enabled"`
		Source        string `json:"source"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 3, updated.OffsetMinutes)
	assert.False(t, updated.IshaEnabled)
	assert.NotEmpty(t, updated.Source, "untouched fields survive a partial update")
}

func TestTargetEndpointsOwnership(t *testing.T) {
	owner := signupAndLogin(t, "target-owner-api@example.com")
	other := signupAndLogin(t, "target-other-api@example.com")

	w := postJSON(t, "/api/admin/targets", owner, map[string]any{
		"name": "Bedroom Speaker",
		"kind": "cast",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		ID int `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Greater(t, created.ID, 0)

	// kind is validated
	w = postJSON(t, "/api/admin/targets", owner, map[string]any{
		"name": "Bad Kind",
		"kind": "hologram",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// another account cannot read someone else's target
	w = getJSON(t, "/api/admin/targets/"+strconv.Itoa(created.ID), other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = getJSON(t, "/api/admin/targets/"+strconv.Itoa(created.ID), owner)
	assert.Equal(t, http.StatusOK, w.Code)
}
