package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forkful/recipebox/config"
	"github.com/forkful/recipebox/internal/api"
	"github.com/forkful/recipebox/internal/database"
	"github.com/forkful/recipebox/internal/middleware"
	"github.com/forkful/recipebox/internal/router"
	"github.com/forkful/recipebox/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		RateLimit: config.RateLimitConfig{
			Enabled: false,
		},
		HTTP: config.HTTPConfig{
			CORSAllowOrigins: []string{"http://localhost:5173"},
		},
	}
}

// setupTestRouter builds the full engine on an in-memory database.
func setupTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	api.RegisterValidators()

	db, err := database.OpenTest()
	require.NoError(t, err)

	log := zap.NewNop()
	authService := service.NewAuthService(db, "test-secret", time.Hour, 24*time.Hour)
	recipeService := service.NewRecipeService(db)
	tagService := service.NewTagService(db)
	require.NoError(t, tagService.Seed(context.Background()))

	engine := router.New(router.Deps{
		Config:        cfg,
		Log:           log,
		AuthHandler:   api.NewAuthHandler(authService, log, int((24 * time.Hour).Seconds()), false),
		RecipeHandler: api.NewRecipeHandler(recipeService, tagService, log),
		Validator:     authService,
		CounterStore:  middleware.NewMemoryCounterStore(),
	})
	return engine, db
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates a user through the HTTP surface and returns a
// session token.
func registerAndLogin(t *testing.T, r *gin.Engine, username, email string) string {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/register", map[string]interface{}{
		"username":  username,
		"email":     email,
		"password":  "password123",
		"password2": "password123",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/login", map[string]interface{}{
		"email":    email,
		"password": "password123",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func authedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()
	req := jsonRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func testRecipeBody() map[string]interface{} {
	return map[string]interface{}{
		"title":             "Apple Pie",
		"description":       "A classic dessert",
		"instructions":      "Mix, fill, bake.",
		"prep_time_minutes": 30,
		"cook_time_minutes": 45,
		"servings":          8,
		"ingredients": []map[string]interface{}{
			{"name": "apples", "quantity": 6, "unit": "cup"},
			{"name": "sugar", "quantity": 1, "unit": "cup"},
		},
	}
}
