package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/models"
	"github.com/griev-ease/api-go/routes"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type authPayload struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func setupRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Grievance{}, &models.GrievanceUpvote{}, &models.TokenBlacklist{},
	))

	r := gin.New()
	routes.SetupRoutes(r, db)
	return db, r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeData(t *testing.T, env apiEnvelope, out interface{}) {
	t.Helper()
	require.NotNil(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func registerUser(t *testing.T, r *gin.Engine, name, email, role string) authPayload {
	t.Helper()

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":        name,
		"email":       email,
		"password":    "secret123",
		"phoneNumber": "9876543210",
		"address":     "42 Gandhi Road",
		"role":        role,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var auth authPayload
	decodeData(t, env, &auth)
	require.NotEmpty(t, auth.Token)
	return auth
}

func fileGrievance(t *testing.T, r *gin.Engine, token string, overrides gin.H) apiEnvelope {
	t.Helper()

	body := gin.H{
		"name":          "Broken water pipeline",
		"street":        "MG Road",
		"locality":      "Shivaji Nagar",
		"city":          "Pune",
		"state":         "Maharashtra",
		"department":    "Water-Works",
		"description":   "Main supply line leaking for a week",
		"phoneNumber":   "9876543210",
		"imageUrl":      "https://cdn.example.com/img/pipe.jpg",
		"imagePublicId": "grievances/u/pipe",
	}
	for k, v := range overrides {
		body[k] = v
	}

	w, env := doJSON(t, r, http.MethodPost, "/api/grievances", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	return env
}
