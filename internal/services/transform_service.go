// internal/services/transform_service.go
package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"styleforge-backend/internal/jobs"
	"styleforge-backend/internal/models"
	"styleforge-backend/internal/repository"
	"styleforge-backend/internal/storage"
	apperrors "styleforge-backend/pkg/errors"
)

// MaxImageSize is the upload size cap (10MB).
const MaxImageSize = 10 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// TransformInput carries the multipart submission fields.
type TransformInput struct {
	UserID      string
	Style       string
	FileName    string
	ContentType string
	Data        []byte
}

type TransformService interface {
	Submit(ctx context.Context, in *TransformInput) (*models.TransformResponse, error)
	HandleWebhook(ctx context.Context, jobID string, payload *FalWebhookPayload) error
	JobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error)
}

type transformService struct {
	userRepo      repository.UserRepository
	transformRepo repository.TransformationRepository
	registry      jobs.Registry
	credits       CreditsService
	fal           FalAPIService
	images        storage.ImageStore
	baseURL       string
}

func NewTransformService(
	userRepo repository.UserRepository,
	transformRepo repository.TransformationRepository,
	registry jobs.Registry,
	credits CreditsService,
	fal FalAPIService,
	images storage.ImageStore,
	baseURL string,
) TransformService {
	return &transformService{
		userRepo:      userRepo,
		transformRepo: transformRepo,
		registry:      registry,
		credits:       credits,
		fal:           fal,
		images:        images,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
	}
}

// Submit validates the upload, reserves credits, pushes the image to the
// provider, enqueues the generation job, and records both the registry entry
// and the durable transformation record.
func (s *transformService) Submit(ctx context.Context, in *TransformInput) (*models.TransformResponse, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	style := models.StyleForKey(in.Style)

	user, err := s.userRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	required := models.CreditsPerTransformation
	if !s.credits.HasEnoughCredits(user.Credits, required) {
		return nil, apperrors.NewInsufficientCreditsError(user.Credits, required)
	}

	// Atomic reservation before the provider call. The pure check above only
	// produces a friendlier error with the observed balance; this is the gate.
	if err := s.credits.Reserve(ctx, in.UserID, required); err != nil {
		return nil, err
	}

	imageURL, err := s.fal.UploadImage(ctx, in.FileName, in.ContentType, in.Data)
	if err != nil {
		s.releaseReserved(ctx, in.UserID, required)
		return nil, apperrors.NewUpstreamError("failed to upload image: " + err.Error())
	}

	jobID := uuid.NewString()
	startedAt := time.Now().UnixMilli()

	if err := s.registry.Put(ctx, jobID, &models.JobState{
		Status:          models.JobQueued,
		UserID:          in.UserID,
		StartedAtUnixMs: startedAt,
	}); err != nil {
		s.releaseReserved(ctx, in.UserID, required)
		return nil, err
	}

	webhookURL := fmt.Sprintf("%s/api/fal/webhook?jobId=%s", s.baseURL, jobID)
	requestID, err := s.fal.SubmitJob(ctx, style.Prompt, []string{imageURL}, webhookURL)
	if err != nil {
		s.releaseReserved(ctx, in.UserID, required)
		return nil, apperrors.NewUpstreamError("failed to submit generation job: " + err.Error())
	}

	originalPath := s.persistOriginal(ctx, in, jobID)

	transformation := &models.Transformation{
		UserID:               in.UserID,
		Status:               models.TransformationProcessing,
		OriginalImageURL:     imageURL,
		OriginalImagePath:    originalPath,
		OriginalImageName:    in.FileName,
		OriginalImageSize:    int64(len(in.Data)),
		TransformationType:   style.Key,
		TransformationPrompt: style.Prompt,
		CreditsUsed:          required,
		ProviderRequestID:    requestID,
	}
	if err := s.transformRepo.Create(ctx, transformation); err != nil {
		s.releaseReserved(ctx, in.UserID, required)
		return nil, err
	}

	if err := s.registry.Put(ctx, jobID, &models.JobState{
		Status:           models.JobQueued,
		RequestID:        requestID,
		TransformationID: transformation.ID.Hex(),
		UserID:           in.UserID,
		StartedAtUnixMs:  startedAt,
	}); err != nil {
		zap.L().Error("Failed to update job registry after submit",
			zap.String("jobId", jobID),
			zap.Error(err))
	}

	zap.L().Info("Transformation submitted",
		zap.String("jobId", jobID),
		zap.String("requestId", requestID),
		zap.String("userId", in.UserID),
		zap.String("style", style.Key))

	return &models.TransformResponse{
		JobID:            jobID,
		RequestID:        requestID,
		TransformationID: transformation.ID.Hex(),
		Style:            style.Name,
	}, nil
}

func (s *transformService) validateInput(in *TransformInput) error {
	if strings.TrimSpace(in.UserID) == "" {
		return apperrors.NewAppError(apperrors.ErrValidation, 400, "User ID is required")
	}
	if len(in.Data) == 0 {
		return apperrors.NewAppError(apperrors.ErrValidation, 400, "Image file is required")
	}
	if len(in.Data) > MaxImageSize {
		return apperrors.NewAppError(apperrors.ErrValidation, 400, "File size too large. Maximum 10MB allowed.")
	}
	if !allowedImageTypes[in.ContentType] {
		return apperrors.NewAppError(apperrors.ErrValidation, 400, "Invalid file type. Only JPEG, PNG, and WebP are allowed.")
	}
	return nil
}

func (s *transformService) releaseReserved(ctx context.Context, userID string, amount int) {
	if err := s.credits.Release(ctx, userID, amount); err != nil {
		zap.L().Error("Failed to release reserved credits",
			zap.String("userId", userID),
			zap.Int("amount", amount),
			zap.Error(err))
	}
}

func (s *transformService) persistOriginal(ctx context.Context, in *TransformInput, jobID string) string {
	ext := path.Ext(in.FileName)
	if ext == "" {
		ext = ".png"
	}
	key := fmt.Sprintf("transformations/%s/%s/original%s", in.UserID, jobID, ext)
	if _, err := s.images.Save(ctx, key, in.ContentType, in.Data); err != nil {
		zap.L().Warn("Failed to persist original image",
			zap.String("key", key),
			zap.Error(err))
	}
	return key
}

// HandleWebhook applies a verified provider callback. An unknown job id is a
// 404 and must not touch any stored record.
func (s *transformService) HandleWebhook(ctx context.Context, jobID string, payload *FalWebhookPayload) error {
	state, err := s.registry.Get(ctx, jobID)
	if err != nil {
		return err
	}

	if payload.Status == "OK" {
		var images []models.JobImage
		if payload.Payload != nil {
			images = payload.Payload.Images
		}
		return s.completeJob(ctx, jobID, state, images, payload.Payload)
	}

	errorMessage := payload.Error
	if errorMessage == "" {
		errorMessage = "Unknown error"
	}
	return s.failJob(ctx, jobID, state, errorMessage)
}

// completeJob is shared by the webhook path and the polling fallback. The
// conditional MarkCompleted makes the benign race between them converge on a
// single terminal update.
func (s *transformService) completeJob(ctx context.Context, jobID string, state *models.JobState, images []models.JobImage, apiResponse interface{}) error {
	if err := s.registry.Put(ctx, jobID, &models.JobState{
		Status:           models.JobSucceeded,
		RequestID:        state.RequestID,
		TransformationID: state.TransformationID,
		UserID:           state.UserID,
		Images:           images,
		StartedAtUnixMs:  state.StartedAtUnixMs,
	}); err != nil {
		return err
	}

	if state.TransformationID == "" {
		return nil
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}

	elapsed := int64(0)
	if state.StartedAtUnixMs > 0 {
		elapsed = time.Now().UnixMilli() - state.StartedAtUnixMs
	}

	won, err := s.transformRepo.MarkCompleted(ctx, state.TransformationID, urls, apiResponse, elapsed)
	if err != nil {
		return err
	}
	if !won {
		// Duplicate delivery or the polling fallback got there first.
		zap.L().Debug("Transformation already finalized",
			zap.String("jobId", jobID),
			zap.String("transformationId", state.TransformationID))
		return nil
	}

	if state.UserID != "" {
		if err := s.userRepo.IncrementTransformationStats(ctx, state.UserID); err != nil {
			zap.L().Error("Failed to update transformation stats",
				zap.String("userId", state.UserID),
				zap.Error(err))
		}
	}

	zap.L().Info("Transformation completed",
		zap.String("jobId", jobID),
		zap.String("transformationId", state.TransformationID),
		zap.Int("images", len(urls)))
	return nil
}

func (s *transformService) failJob(ctx context.Context, jobID string, state *models.JobState, errorMessage string) error {
	if err := s.registry.Put(ctx, jobID, &models.JobState{
		Status:           models.JobFailed,
		RequestID:        state.RequestID,
		TransformationID: state.TransformationID,
		UserID:           state.UserID,
		Error:            errorMessage,
		StartedAtUnixMs:  state.StartedAtUnixMs,
	}); err != nil {
		return err
	}

	if state.TransformationID == "" {
		return nil
	}

	won, err := s.transformRepo.MarkFailed(ctx, state.TransformationID, errorMessage)
	if err != nil {
		return err
	}
	if won && state.UserID != "" {
		// Refund the reservation; the user got nothing for it.
		s.releaseReserved(ctx, state.UserID, models.CreditsPerTransformation)
	}

	zap.L().Warn("Transformation failed",
		zap.String("jobId", jobID),
		zap.String("error", errorMessage))
	return nil
}

// JobStatus serves the browser poller: registry first, then a direct
// provider status check for still-queued jobs, then the durable record.
func (s *transformService) JobStatus(ctx context.Context, jobID string) (*models.JobStatusResponse, error) {
	state, err := s.registry.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if state.Status == models.JobQueued && state.RequestID != "" {
		if resp, ok := s.pollProvider(ctx, jobID, state); ok {
			return resp, nil
		}
	}

	if state.TransformationID != "" {
		if t, err := s.transformRepo.GetByID(ctx, state.TransformationID); err == nil {
			return s.responseFromRecord(state, t), nil
		}
	}

	return &models.JobStatusResponse{
		Status:           state.Status,
		RequestID:        state.RequestID,
		TransformationID: state.TransformationID,
		UserID:           state.UserID,
		Images:           state.Images,
		Error:            state.Error,
	}, nil
}

func (s *transformService) pollProvider(ctx context.Context, jobID string, state *models.JobState) (*models.JobStatusResponse, bool) {
	status, err := s.fal.JobStatus(ctx, state.RequestID)
	if err != nil {
		zap.L().Debug("Direct provider status check failed",
			zap.String("jobId", jobID),
			zap.Error(err))
		return nil, false
	}
	if status != FalStatusCompleted {
		return nil, false
	}

	images, err := s.fal.JobResult(ctx, state.RequestID)
	if err != nil {
		zap.L().Debug("Direct provider result fetch failed",
			zap.String("jobId", jobID),
			zap.Error(err))
		return nil, false
	}

	if err := s.completeJob(ctx, jobID, state, images, &FalResultPayload{Images: images}); err != nil {
		zap.L().Error("Failed to finalize job from polling fallback",
			zap.String("jobId", jobID),
			zap.Error(err))
		return nil, false
	}

	return &models.JobStatusResponse{
		Status:           models.JobSucceeded,
		RequestID:        state.RequestID,
		TransformationID: state.TransformationID,
		UserID:           state.UserID,
		Images:           images,
	}, true
}

func (s *transformService) responseFromRecord(state *models.JobState, t *models.Transformation) *models.JobStatusResponse {
	status := models.JobQueued
	switch t.Status {
	case models.TransformationCompleted:
		status = models.JobSucceeded
	case models.TransformationFailed:
		status = models.JobFailed
	}

	images := state.Images
	if len(images) == 0 {
		for _, url := range t.TransformedImageURLs {
			images = append(images, models.JobImage{URL: url})
		}
	}

	return &models.JobStatusResponse{
		Status:           status,
		RequestID:        t.ProviderRequestID,
		TransformationID: t.ID.Hex(),
		UserID:           t.UserID,
		Images:           images,
		Error:            t.ErrorMessage,
		Transformation:   t,
	}
}
