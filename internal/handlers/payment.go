// internal/handlers/payment.go
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

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreateOrder opens a gateway order for a credit purchase.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	order, err := h.paymentService.CreateOrder(r.Context(), &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, models.CreateOrderResponse{
		Message: "success",
		Order:   order,
	})
}

// VerifyPayment checks the checkout signature and applies credits exactly
// once. Per-IP rate limiting is applied by the router.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	response, err := h.paymentService.Settle(r.Context(), &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}

// HandleGatewayWebhook verifies and logs gateway events. It deliberately
// never mutates credit state: the verify endpoint is the sole source of
// truth, which keeps webhook redelivery harmless.
func (h *PaymentHandler) HandleGatewayWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to read webhook body",
		))
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if signature == "" {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"Missing signature",
		))
		return
	}

	if !h.paymentService.VerifyWebhookSignature(body, signature) {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"Invalid signature",
		))
		return
	}

	var event struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrBadRequest,
			http.StatusBadRequest,
			"invalid webhook payload",
		))
		return
	}

	switch event.Event {
	case "payment.captured", "payment.failed", "order.paid":
		zap.L().Info("Payment gateway event",
			zap.String("event", event.Event),
			zap.Int("payloadBytes", len(event.Payload)))
	default:
		zap.L().Debug("Unhandled payment gateway event", zap.String("event", event.Event))
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{"status": "success"})
}
