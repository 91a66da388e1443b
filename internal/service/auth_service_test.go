package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/models"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
)

func newAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := seededUserRepo(t)
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})
	return svc, repo
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@gympoint.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin@gympoint.com", res.User.Email)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.UserID)
	assert.Equal(t, "admin@gympoint.com", claims.Email)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@gympoint.com",
		Password: "secret123",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@gympoint.com",
		Password: "wrongpass",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "Password does not match", appErr.Message)
}

func TestAuthServiceLoginValidatesPayload(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@gympoint.com"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTokenRejectsOtherSecret(t *testing.T) {
	svc, repo := newAuthService(t)

	other := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "different-secret",
		Expiration: time.Hour,
	})
	res, err := other.Login(context.Background(), models.LoginRequest{
		Email:    "admin@gympoint.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token)
	require.Error(t, err)
}
