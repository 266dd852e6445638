package service

import (
	"testing"
	"time"

	"github.com/foodgram-team/foodgram-backend/config"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/db"
	"github.com/foodgram-team/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	jwtCfg := &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	return NewAuthService(repository.NewUserRepository(testDB), jwtCfg)
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Test",
		LastName:  "Cook",
		Password:  "password123",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := setupAuthServiceTest(t)

	user, err := svc.Register(registerInput())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.True(t, user.IsActive)
	// Password is stored hashed, never verbatim
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "password123"))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, err := svc.Register(registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Username = "othercook"
	_, err = svc.Register(input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, err := svc.Register(registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Email = "other@example.com"
	_, err = svc.Register(input)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, err := svc.Register(registerInput())
	require.NoError(t, err)

	tokens, user, err := svc.Login("cook@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "cook", user.Username)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, err := svc.Register(registerInput())
	require.NoError(t, err)

	_, _, err = svc.Login("cook@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, _, err := svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_SetPassword(t *testing.T) {
	svc := setupAuthServiceTest(t)

	user, err := svc.Register(registerInput())
	require.NoError(t, err)

	require.NoError(t, svc.SetPassword(user.ID, "password123", "newpassword456"))

	// Old password no longer works, new one does
	_, _, err = svc.Login("cook@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("cook@example.com", "newpassword456")
	assert.NoError(t, err)
}

func TestAuthService_SetPassword_WrongCurrent(t *testing.T) {
	svc := setupAuthServiceTest(t)

	user, err := svc.Register(registerInput())
	require.NoError(t, err)

	err = svc.SetPassword(user.ID, "wrongpassword", "newpassword456")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_IsTokenRevoked_NoRedis(t *testing.T) {
	svc := setupAuthServiceTest(t)

	// Without Redis the revocation list is empty
	assert.False(t, svc.IsTokenRevoked("some-token-id"))
}
