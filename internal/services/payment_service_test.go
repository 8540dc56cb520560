// internal/services/payment_service_test.go
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"styleforge-backend/internal/models"
	apperrors "styleforge-backend/pkg/errors"
)

func newTestPaymentService(userRepo *fakeUserRepo) *paymentService {
	return &paymentService{
		keySecret:     "test-key-secret",
		webhookSecret: "test-webhook-secret",
		userRepo:      userRepo,
	}
}

func checkoutSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCheckoutSignature(t *testing.T) {
	svc := newTestPaymentService(newFakeUserRepo())

	valid := checkoutSignature("test-key-secret", "order_1", "pay_1")
	assert.True(t, svc.VerifyCheckoutSignature("order_1", "pay_1", valid))
	assert.False(t, svc.VerifyCheckoutSignature("order_1", "pay_2", valid))
	assert.False(t, svc.VerifyCheckoutSignature("order_1", "pay_1", "deadbeef"))
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := newTestPaymentService(newFakeUserRepo())

	body := []byte(`{"event":"payment.captured"}`)
	mac := hmac.New(sha256.New, []byte("test-webhook-secret"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, svc.VerifyWebhookSignature(body, valid))
	assert.False(t, svc.VerifyWebhookSignature([]byte(`{"event":"tampered"}`), valid))
}

func settleRequest(secret string) *models.VerifyPaymentRequest {
	req := &models.VerifyPaymentRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Notes: models.PaymentNotes{
			Email:    "buyer@example.com",
			Credits:  100,
			PlanName: "Pro",
			Amount:   499,
		},
	}
	req.Signature = checkoutSignature(secret, req.OrderID, req.PaymentID)
	return req
}

func TestSettleCreditsUserOnce(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UserID: "user-1", Email: "buyer@example.com", Credits: 3})
	svc := newTestPaymentService(repo)

	resp, err := svc.Settle(context.Background(), settleRequest("test-key-secret"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 103, resp.Credits)
	assert.Equal(t, "Pro", resp.PlanName)

	user, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 103, user.Credits)
	require.Len(t, user.Payments, 1)
	assert.Equal(t, "order_1", user.Payments[0].OrderID)
}

func TestSettleDuplicateIsConflict(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UserID: "user-1", Email: "buyer@example.com", Credits: 3})
	svc := newTestPaymentService(repo)

	_, err := svc.Settle(context.Background(), settleRequest("test-key-secret"))
	require.NoError(t, err)

	// Replaying the same confirmation must not credit twice.
	_, err = svc.Settle(context.Background(), settleRequest("test-key-secret"))
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrPaymentProcessed))
	assert.Equal(t, 409, apperrors.GetStatusCode(err))

	user, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 103, user.Credits)
	assert.Len(t, user.Payments, 1)
}

func TestSettleRejectsBadSignature(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UserID: "user-1", Email: "buyer@example.com", Credits: 3})
	svc := newTestPaymentService(repo)

	req := settleRequest("wrong-secret")
	_, err := svc.Settle(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.GetStatusCode(err))

	user, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, user.Credits)
}

func TestSettleUnknownEmail(t *testing.T) {
	svc := newTestPaymentService(newFakeUserRepo())

	_, err := svc.Settle(context.Background(), settleRequest("test-key-secret"))
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.GetStatusCode(err))
}

func TestSettleRejectsInvalidRequest(t *testing.T) {
	svc := newTestPaymentService(newFakeUserRepo())

	req := settleRequest("test-key-secret")
	req.Notes.Credits = 0
	_, err := svc.Settle(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrValidation))
}
