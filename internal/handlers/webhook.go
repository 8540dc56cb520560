// internal/handlers/webhook.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"styleforge-backend/internal/models"
	"styleforge-backend/internal/services"
	apperrors "styleforge-backend/pkg/errors"
	"styleforge-backend/pkg/utils"
)

type WebhookHandler struct {
	verifier         *services.WebhookVerifier
	transformService services.TransformService
}

func NewWebhookHandler(verifier *services.WebhookVerifier, transformService services.TransformService) *WebhookHandler {
	return &WebhookHandler{
		verifier:         verifier,
		transformService: transformService,
	}
}

// HandleFalWebhook receives the generation provider's completion callback.
// The signature is verified over the raw body before anything is parsed.
func (h *WebhookHandler) HandleFalWebhook(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		jobID = "unknown"
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to read webhook body",
		))
		return
	}

	if err := h.verifier.Verify(r.Context(), services.WebhookHeadersFromRequest(r), raw); err != nil {
		zap.L().Warn("Webhook signature verification failed",
			zap.String("jobId", jobID),
			zap.Error(err))
		utils.SendErrorResponse(w, err)
		return
	}

	var payload services.FalWebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrBadRequest,
			http.StatusBadRequest,
			"invalid webhook payload",
		))
		return
	}

	zap.L().Info("Webhook received",
		zap.String("jobId", jobID),
		zap.String("status", payload.Status),
		zap.String("requestId", payload.RequestID))

	if err := h.transformService.HandleWebhook(r.Context(), jobID, &payload); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, models.WebhookAckResponse{OK: true})
}
