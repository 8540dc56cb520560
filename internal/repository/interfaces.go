// internal/repository/interfaces.go
package repository

import (
	"context"

	"styleforge-backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, userID string) error

	// Credit ledger primitives. All mutations use the store's atomic $inc so
	// interleaved calls on the same user converge without lost updates.
	ReserveCredits(ctx context.Context, userID string, amount int) error
	ReleaseCredits(ctx context.Context, userID string, amount int) error
	AddCredits(ctx context.Context, userID string, amount int) error
	IncrementTransformationStats(ctx context.Context, userID string) error

	// ApplyPayment credits the user exactly once per (orderId, paymentId)
	// pair and appends the record to the payment history.
	ApplyPayment(ctx context.Context, userID string, record *models.PaymentRecord) (*models.User, error)
}

type TransformationRepository interface {
	Create(ctx context.Context, t *models.Transformation) error
	GetByID(ctx context.Context, id string) (*models.Transformation, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transformation, error)

	// MarkCompleted and MarkFailed transition a record out of "processing"
	// at most once; the bool result reports whether this call won.
	MarkCompleted(ctx context.Context, id string, imageURLs []string, apiResponse interface{}, processingTimeMs int64) (bool, error)
	MarkFailed(ctx context.Context, id string, errorMessage string) (bool, error)
}
