package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	_, r := setupRouter(t)
	auth := registerUser(t, r, "Asha", "Asha@Example.com", "LocalityMember")
	assert.Equal(t, "asha@example.com", auth.User.Email)
	assert.Equal(t, "LocalityMember", auth.User.Role)
	assert.True(t, auth.User.IsActive)

	// Email comparison is case-insensitive at login.
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ASHA@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login authPayload
	decodeData(t, env, &login)
	assert.NotEmpty(t, login.Token)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	_, r := setupRouter(t)
	registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":        "Imposter",
		"email":       "ASHA@EXAMPLE.COM",
		"password":    "secret123",
		"phoneNumber": "9876543210",
		"address":     "42 Gandhi Road",
		"role":        "LocalityMember",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	_, r := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":        "Asha",
		"email":       "asha@example.com",
		"password":    "secret123",
		"phoneNumber": "9876543210",
		"address":     "42 Gandhi Road",
		"role":        "Mayor",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	_, r := setupRouter(t)
	auth := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")

	w, _ := doJSON(t, r, http.MethodPut, "/api/user/deactivate", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, env.Message, "deactivated")

	// The existing token still works, so the holder can reactivate.
	w, _ = doJSON(t, r, http.MethodPut, "/api/user/reactivate", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	db, r := setupRouter(t)
	auth := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")

	w, _ := doJSON(t, r, http.MethodGet, "/api/auth/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")

	var rows int64
	require.NoError(t, db.Model(&models.TokenBlacklist{}).Where("token = ?", auth.Token).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestChangePasswordRevokesOldTokens(t *testing.T) {
	_, r := setupRouter(t)
	auth := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")

	// A stale second session to be cut off.
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var second authPayload
	decodeData(t, env, &second)

	w, env = doJSON(t, r, http.MethodPut, "/api/auth/change-password", auth.Token, gin.H{
		"currentPassword": "secret123",
		"newPassword":     "rotated456",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var rotated struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &rotated)
	require.NotEmpty(t, rotated.Token)

	// Every pre-rotation token is dead; the fresh one works.
	w, _ = doJSON(t, r, http.MethodGet, "/api/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/api/auth/me", second.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/api/auth/me", rotated.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Old password no longer authenticates.
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "rotated456",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	_, r := setupRouter(t)
	auth := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")

	w, _ := doJSON(t, r, http.MethodPut, "/api/auth/change-password", auth.Token, gin.H{
		"currentPassword": "not-it",
		"newPassword":     "rotated456",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The session survives a failed attempt.
	w, _ = doJSON(t, r, http.MethodGet, "/api/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, r := setupRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/grievances", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
