// internal/services/fakes_test.go
package services

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"styleforge-backend/internal/models"
	apperrors "styleforge-backend/pkg/errors"
)

// fakeUserRepo mirrors the store's atomic semantics in memory so the
// services can be exercised without a live database.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		copied := *u
		repo.users[u.UserID] = &copied
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.UserID]; ok {
		return apperrors.NewUserAlreadyExistsError()
	}
	copied := *user
	f.users[user.UserID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, apperrors.NewUserNotFoundError()
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.NewUserNotFoundError()
}

func (f *fakeUserRepo) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return apperrors.NewUserNotFoundError()
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeUserRepo) ReserveCredits(ctx context.Context, userID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok || user.Credits < amount {
		balance := 0
		if ok {
			balance = user.Credits
		}
		return apperrors.NewInsufficientCreditsError(balance, amount)
	}
	user.Credits -= amount
	user.TotalCreditsUsed += amount
	return nil
}

func (f *fakeUserRepo) ReleaseCredits(ctx context.Context, userID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return apperrors.NewUserNotFoundError()
	}
	user.Credits += amount
	user.TotalCreditsUsed -= amount
	return nil
}

func (f *fakeUserRepo) AddCredits(ctx context.Context, userID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return apperrors.NewUserNotFoundError()
	}
	user.Credits += amount
	return nil
}

func (f *fakeUserRepo) IncrementTransformationStats(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return apperrors.NewUserNotFoundError()
	}
	user.TotalTransformations++
	return nil
}

func (f *fakeUserRepo) ApplyPayment(ctx context.Context, userID string, record *models.PaymentRecord) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, apperrors.NewUserNotFoundError()
	}
	for _, p := range user.Payments {
		if p.OrderID == record.OrderID || p.PaymentID == record.PaymentID {
			return nil, apperrors.NewPaymentProcessedError()
		}
	}
	user.Credits += record.Credits
	user.Payments = append(user.Payments, *record)
	user.LastPayment = record
	copied := *user
	return &copied, nil
}

// fakeTransformRepo keeps transformation records in memory with the same
// at-most-once terminal transition the Mongo repository enforces.
type fakeTransformRepo struct {
	mu      sync.Mutex
	records map[string]*models.Transformation

	completedWins int
	failedWins    int
}

func newFakeTransformRepo() *fakeTransformRepo {
	return &fakeTransformRepo{records: make(map[string]*models.Transformation)}
}

func (f *fakeTransformRepo) Create(ctx context.Context, t *models.Transformation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = primitive.NewObjectID()
	copied := *t
	f.records[t.ID.Hex()] = &copied
	return nil
}

func (f *fakeTransformRepo) GetByID(ctx context.Context, id string) (*models.Transformation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, apperrors.NewTransformationNotFoundError()
	}
	copied := *record
	return &copied, nil
}

func (f *fakeTransformRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transformation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transformation
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeTransformRepo) MarkCompleted(ctx context.Context, id string, imageURLs []string, apiResponse interface{}, processingTimeMs int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok || record.Status != models.TransformationProcessing {
		return false, nil
	}
	record.Status = models.TransformationCompleted
	record.TransformedImageURLs = imageURLs
	record.APIResponse = apiResponse
	record.ProcessingTimeMs = processingTimeMs
	f.completedWins++
	return true, nil
}

func (f *fakeTransformRepo) MarkFailed(ctx context.Context, id string, errorMessage string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok || record.Status != models.TransformationProcessing {
		return false, nil
	}
	record.Status = models.TransformationFailed
	record.ErrorMessage = errorMessage
	f.failedWins++
	return true, nil
}

// fakeFalAPI stands in for the generation provider.
type fakeFalAPI struct {
	mu sync.Mutex

	uploadErr error
	submitErr error
	status    string
	statusErr error
	images    []models.JobImage

	uploads     int
	submissions []string
}

func (f *fakeFalAPI) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads++
	return "https://fal.media/files/test-upload.png", nil
}

func (f *fakeFalAPI) SubmitJob(ctx context.Context, prompt string, imageURLs []string, webhookURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submissions = append(f.submissions, webhookURL)
	return "req-123", nil
}

func (f *fakeFalAPI) JobStatus(ctx context.Context, requestID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return "", f.statusErr
	}
	if f.status == "" {
		return FalStatusInQueue, nil
	}
	return f.status, nil
}

func (f *fakeFalAPI) JobResult(ctx context.Context, requestID string) ([]models.JobImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images, nil
}
