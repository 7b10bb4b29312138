package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/forkful/recipebox/internal/database"
	"github.com/forkful/recipebox/internal/models"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := database.OpenTest()
	require.NoError(t, err)
	return NewAuthService(db, "test-secret", time.Hour, 24*time.Hour)
}

func TestRegister(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "testuser", "test@test.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "test@test.com", user.Email)

	// The stored credential verifies against the original plaintext only.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password124")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "testuser", "first@test.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "testuser", "second@test.com", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	var count int64
	svc.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "first", "test@test.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "second", "test@test.com", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	svc.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "testuser", "test@test.com", "password123")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "test@test.com", "password123", false)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestLoginGenericError(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "testuser", "test@test.com", "password123")
	require.NoError(t, err)

	// Wrong password and unknown email yield the same error.
	_, _, wrongPass := svc.Login(ctx, "test@test.com", "wrong", false)
	_, _, unknown := svc.Login(ctx, "nobody@test.com", "password123", false)

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	other := NewAuthService(svc.db, "other-secret", time.Hour, 24*time.Hour)
	token, _, err := func() (string, *models.User, error) {
		_, regErr := other.Register(context.Background(), "u2", "u2@test.com", "password123")
		require.NoError(t, regErr)
		return other.Login(context.Background(), "u2@test.com", "password123", false)
	}()
	require.NoError(t, err)

	// A token signed with a different secret does not validate.
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
