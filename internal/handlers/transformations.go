// internal/handlers/transformations.go
package handlers

import (
	"net/http"
	"strconv"

	"styleforge-backend/internal/models"
	"styleforge-backend/internal/repository"
	apperrors "styleforge-backend/pkg/errors"
	"styleforge-backend/pkg/utils"
)

type TransformationsHandler struct {
	transformRepo repository.TransformationRepository
}

func NewTransformationsHandler(transformRepo repository.TransformationRepository) *TransformationsHandler {
	return &TransformationsHandler{
		transformRepo: transformRepo,
	}
}

// ListTransformations returns a user's transformation history, newest first.
func (h *TransformationsHandler) ListTransformations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"User ID is required",
		))
		return
	}

	limit := int64(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	transformations, err := h.transformRepo.ListByUser(r.Context(), userID, limit)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, models.TransformationListResponse{
		Transformations: transformations,
	})
}
