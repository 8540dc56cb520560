// internal/services/payment_service.go
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"

	"styleforge-backend/internal/config"
	"styleforge-backend/internal/models"
	"styleforge-backend/internal/repository"
	apperrors "styleforge-backend/pkg/errors"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (map[string]interface{}, error)
	VerifyCheckoutSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
	Settle(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error)
}

type paymentService struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
	userRepo      repository.UserRepository
}

func NewPaymentService(cfg *config.Config, userRepo repository.UserRepository) PaymentService {
	return &paymentService{
		client:        razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		keySecret:     cfg.Razorpay.KeySecret,
		webhookSecret: cfg.Razorpay.WebhookSecret,
		userRepo:      userRepo,
	}
}

// CreateOrder opens a gateway order carrying the purchase details in its
// notes; the verify endpoint reads them back after checkout.
func (s *paymentService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (map[string]interface{}, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, err.Error())
	}

	planName := req.Detail.Name
	if planName == "" {
		planName = "Standard"
	}

	order, err := s.client.Order.Create(map[string]interface{}{
		"amount":          req.Detail.Amount * 100, // paise
		"currency":        "INR",
		"receipt":         uuid.NewString(),
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"email":    req.UserEmail,
			"credits":  req.Detail.Credits,
			"planName": planName,
			"amount":   req.Detail.Amount,
		},
	}, nil)
	if err != nil {
		zap.L().Error("Razorpay order creation failed",
			zap.String("email", req.UserEmail),
			zap.Error(err))
		return nil, apperrors.NewUpstreamError("Error creating order")
	}

	return order, nil
}

// VerifyCheckoutSignature checks the client-submitted confirmation:
// HMAC-SHA256(orderId + "|" + paymentId) under the key secret.
func (s *paymentService) VerifyCheckoutSignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the gateway webhook HMAC over the raw body.
func (s *paymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Settle applies credits for a verified payment exactly once per
// (orderId, paymentId) pair. A duplicate surfaces as 409, not a silent
// double-credit.
func (s *paymentService) Settle(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, err.Error())
	}

	if !s.VerifyCheckoutSignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, "Invalid payment signature")
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Notes.Email)
	if err != nil {
		return nil, err
	}

	planName := req.Notes.PlanName
	if planName == "" {
		planName = "Standard"
	}

	record := &models.PaymentRecord{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Credits:   req.Notes.Credits,
		PlanName:  planName,
		Amount:    req.Notes.Amount,
		Status:    "completed",
		Timestamp: time.Now().UTC(),
	}

	updated, err := s.userRepo.ApplyPayment(ctx, user.UserID, record)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Payment settled",
		zap.String("userId", user.UserID),
		zap.String("orderId", req.OrderID),
		zap.String("paymentId", req.PaymentID),
		zap.Int("credits", record.Credits))

	return &models.VerifyPaymentResponse{
		Success:  true,
		Message:  "success",
		Credits:  updated.Credits,
		PlanName: planName,
	}, nil
}
