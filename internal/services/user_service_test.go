// internal/services/user_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"styleforge-backend/internal/models"
	apperrors "styleforge-backend/pkg/errors"
)

func TestRegisterUserGrantsStartingCredits(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	resp, err := svc.RegisterUser(context.Background(), &models.RegisterUserRequest{
		UserID: "user-1",
		Email:  "new@example.com",
		Name:   "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, models.InitialCredits, resp.Credits)
	assert.Equal(t, models.PlanFree, resp.User.Plan)
}

func TestRegisterUserIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	req := &models.RegisterUserRequest{UserID: "user-1", Email: "new@example.com"}
	_, err := svc.RegisterUser(context.Background(), req)
	require.NoError(t, err)

	// Spend a credit, then register again. The repeat must not reset the
	// balance to the starting grant.
	require.NoError(t, repo.ReserveCredits(context.Background(), "user-1", 1))

	resp, err := svc.RegisterUser(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "User already registered", resp.Message)
	assert.Equal(t, models.InitialCredits-1, resp.Credits)
}

func TestRegisterUserValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.RegisterUser(context.Background(), &models.RegisterUserRequest{Email: "x@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrValidation))

	_, err = svc.RegisterUser(context.Background(), &models.RegisterUserRequest{UserID: "user-1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrValidation))
}
