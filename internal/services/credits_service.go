// internal/services/credits_service.go
package services

import (
	"context"

	"styleforge-backend/internal/repository"
	apperrors "styleforge-backend/pkg/errors"
)

type CreditsService interface {
	// HasEnoughCredits is a pure balance check; Reserve is the authoritative,
	// atomic gate performed before work is submitted to the provider.
	HasEnoughCredits(balance, required int) bool
	Reserve(ctx context.Context, userID string, amount int) error
	Release(ctx context.Context, userID string, amount int) error
	Add(ctx context.Context, userID string, amount int) error
}

type creditsService struct {
	userRepo repository.UserRepository
}

func NewCreditsService(userRepo repository.UserRepository) CreditsService {
	return &creditsService{
		userRepo: userRepo,
	}
}

func (s *creditsService) HasEnoughCredits(balance, required int) bool {
	return balance >= required
}

// Reserve debits the user before the provider call. The repository performs
// a conditional decrement, so two concurrent submissions against a balance
// that covers only one cannot both succeed.
func (s *creditsService) Reserve(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return apperrors.NewAppError(apperrors.ErrValidation, 400, "amount must be positive")
	}
	return s.userRepo.ReserveCredits(ctx, userID, amount)
}

// Release is the compensating credit when a reserved job never completes.
func (s *creditsService) Release(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return apperrors.NewAppError(apperrors.ErrValidation, 400, "amount must be positive")
	}
	return s.userRepo.ReleaseCredits(ctx, userID, amount)
}

func (s *creditsService) Add(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return apperrors.NewAppError(apperrors.ErrValidation, 400, "amount must be positive")
	}
	return s.userRepo.AddCredits(ctx, userID, amount)
}
