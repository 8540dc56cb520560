// internal/services/credits_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"styleforge-backend/internal/models"
	apperrors "styleforge-backend/pkg/errors"
)

func TestHasEnoughCredits(t *testing.T) {
	svc := NewCreditsService(newFakeUserRepo())

	tests := []struct {
		name     string
		balance  int
		required int
		want     bool
	}{
		{"exact balance", 1, 1, true},
		{"surplus", 5, 1, true},
		{"zero balance", 0, 1, false},
		{"short by one", 2, 3, false},
		{"zero required", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.HasEnoughCredits(tt.balance, tt.required))
		})
	}
}

func TestReserveDebitsBalance(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UserID: "user-1", Credits: 3})
	svc := NewCreditsService(repo)

	err := svc.Reserve(context.Background(), "user-1", 1)
	require.NoError(t, err)

	user, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, user.Credits)
	assert.Equal(t, 1, user.TotalCreditsUsed)
}

func TestReserveInsufficientBalance(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UserID: "user-1", Credits: 0})
	svc := NewCreditsService(repo)

	err := svc.Reserve(context.Background(), "user-1", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrInsufficientCredits))
	assert.Equal(t, 402, apperrors.GetStatusCode(err))

	// Balance untouched on a failed reservation.
	user, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.Credits)
}

func TestReleaseRefundsReservation(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UserID: "user-1", Credits: 3})
	svc := NewCreditsService(repo)

	require.NoError(t, svc.Reserve(context.Background(), "user-1", 1))
	require.NoError(t, svc.Release(context.Background(), "user-1", 1))

	user, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, user.Credits)
	assert.Equal(t, 0, user.TotalCreditsUsed)
}

func TestReserveRejectsNonPositiveAmount(t *testing.T) {
	svc := NewCreditsService(newFakeUserRepo(&models.User{UserID: "user-1", Credits: 3}))

	for _, amount := range []int{0, -1} {
		err := svc.Reserve(context.Background(), "user-1", amount)
		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrValidation))
	}
}

func TestAddCredits(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UserID: "user-1", Credits: 1})
	svc := NewCreditsService(repo)

	require.NoError(t, svc.Add(context.Background(), "user-1", 50))

	user, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 51, user.Credits)
}
