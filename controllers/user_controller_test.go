package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfilePartial(t *testing.T) {
	_, r := setupRouter(t)
	auth := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")

	w, env := doJSON(t, r, http.MethodPut, "/api/user/profile", auth.Token, gin.H{
		"phoneNumber": "9000000000",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var u models.User
	decodeData(t, env, &u)
	assert.Equal(t, "9000000000", u.PhoneNumber)
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, "42 Gandhi Road", u.Address)
}

func TestDeactivateReactivateCycle(t *testing.T) {
	_, r := setupRouter(t)
	auth := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")

	w, _ := doJSON(t, r, http.MethodPut, "/api/user/deactivate", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Deactivating twice is a state conflict.
	w, _ = doJSON(t, r, http.MethodPut, "/api/user/deactivate", auth.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/api/user/reactivate", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/user/profile", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u models.User
	decodeData(t, env, &u)
	assert.True(t, u.IsActive)

	w, _ = doJSON(t, r, http.MethodPut, "/api/user/reactivate", auth.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetProfileHidesPasswordHash(t *testing.T) {
	_, r := setupRouter(t)
	auth := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")

	w, env := doJSON(t, r, http.MethodGet, "/api/user/profile", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), "passwordHash")
	assert.NotContains(t, string(env.Data), "tokenVersion")
}
