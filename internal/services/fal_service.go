// internal/services/fal_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"styleforge-backend/internal/config"
	"styleforge-backend/internal/models"
)

// Queue status values reported by the generation provider.
const (
	FalStatusInQueue    = "IN_QUEUE"
	FalStatusInProgress = "IN_PROGRESS"
	FalStatusCompleted  = "COMPLETED"
)

// FalWebhookPayload is the body of the provider's completion callback.
type FalWebhookPayload struct {
	RequestID string            `json:"request_id"`
	Status    string            `json:"status"`
	Payload   *FalResultPayload `json:"payload,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type FalResultPayload struct {
	Images []models.JobImage `json:"images"`
}

type FalAPIService interface {
	UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error)
	SubmitJob(ctx context.Context, prompt string, imageURLs []string, webhookURL string) (string, error)
	JobStatus(ctx context.Context, requestID string) (string, error)
	JobResult(ctx context.Context, requestID string) ([]models.JobImage, error)
}

type falAPIService struct {
	httpClient *http.Client
	apiKey     string
	queueURL   string
	restURL    string
	model      string
}

func NewFalAPIService(cfg *config.Config) FalAPIService {
	return &falAPIService{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:   cfg.Fal.APIKey,
		queueURL: cfg.Fal.QueueURL,
		restURL:  cfg.Fal.RestURL,
		model:    cfg.Fal.Model,
	}
}

// UploadImage pushes the raw image bytes to the provider's hosted storage
// and returns the public URL referenced by the generation request.
func (s *falAPIService) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	uploadURL := s.restURL + "/storage/upload"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Key "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage upload returned status %d: %s", resp.StatusCode, string(body))
	}

	var uploadResp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploadResp.URL == "" {
		return "", fmt.Errorf("storage upload response missing url")
	}
	return uploadResp.URL, nil
}

// SubmitJob enqueues a generation request and returns the provider request
// id. Results are delivered to webhookURL.
func (s *falAPIService) SubmitJob(ctx context.Context, prompt string, imageURLs []string, webhookURL string) (string, error) {
	payload := map[string]interface{}{
		"prompt":        prompt,
		"image_urls":    imageURLs,
		"num_images":    1,
		"output_format": "png",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	submitURL := fmt.Sprintf("%s/%s?fal_webhook=%s", s.queueURL, s.model, url.QueryEscape(webhookURL))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, submitURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Key "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call generation API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("queue submit returned status %d: %s", resp.StatusCode, string(body))
	}

	var queueResp struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &queueResp); err != nil {
		return "", fmt.Errorf("failed to decode queue response: %w", err)
	}
	if queueResp.RequestID == "" {
		return "", fmt.Errorf("queue response missing request_id")
	}
	return queueResp.RequestID, nil
}

// JobStatus asks the queue for the state of an in-flight request. Used as a
// fallback when the webhook has not arrived yet.
func (s *falAPIService) JobStatus(ctx context.Context, requestID string) (string, error) {
	statusURL := fmt.Sprintf("%s/%s/requests/%s/status", s.queueURL, s.model, requestID)
	body, err := s.get(ctx, statusURL)
	if err != nil {
		return "", err
	}

	var statusResp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return "", fmt.Errorf("failed to decode status response: %w", err)
	}
	return statusResp.Status, nil
}

func (s *falAPIService) JobResult(ctx context.Context, requestID string) ([]models.JobImage, error) {
	resultURL := fmt.Sprintf("%s/%s/requests/%s", s.queueURL, s.model, requestID)
	body, err := s.get(ctx, resultURL)
	if err != nil {
		return nil, err
	}

	var resultResp FalResultPayload
	if err := json.Unmarshal(body, &resultResp); err != nil {
		return nil, fmt.Errorf("failed to decode result response: %w", err)
	}
	return resultResp.Images, nil
}

func (s *falAPIService) get(ctx context.Context, rawURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Key "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call generation API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation API returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
