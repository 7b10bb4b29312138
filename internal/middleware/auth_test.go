package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeValidator struct {
	userID uuid.UUID
	err    error
}

func (f fakeValidator) ValidateToken(token string) (uuid.UUID, error) {
	return f.userID, f.err
}

func setupAuthRouter(v TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CurrentUser(v))
	r.GET("/home", RequireAuth(), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
	})
	return r
}

func TestRequireAuthRedirectsWithNext(t *testing.T) {
	r := setupAuthRouter(fakeValidator{err: errors.New("no token")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/home", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fhome", w.Header().Get("Location"))
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	userID := uuid.New()
	r := setupAuthRouter(fakeValidator{userID: userID})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/home", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRequireAuthAcceptsSessionCookie(t *testing.T) {
	userID := uuid.New()
	r := setupAuthRouter(fakeValidator{userID: userID})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/home", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "some-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/home", SafeNext("", "/home"))
	assert.Equal(t, "/recipe/new", SafeNext("/recipe/new", "/home"))
	assert.Equal(t, "/home", SafeNext("https://evil.example/phish", "/home"))
	assert.Equal(t, "/home", SafeNext("//evil.example", "/home"))
	assert.Equal(t, "/home", SafeNext("not-a-path", "/home"))
}
