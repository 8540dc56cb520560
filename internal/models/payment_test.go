// internal/models/payment_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validVerifyRequest() VerifyPaymentRequest {
	return VerifyPaymentRequest{
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: "AbCdEf0123456789",
		Notes: PaymentNotes{
			Email:   "buyer@example.com",
			Credits: 100,
		},
	}
}

func TestVerifyPaymentRequestValidate(t *testing.T) {
	req := validVerifyRequest()
	assert.NoError(t, req.Validate())
}

func TestVerifyPaymentRequestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *VerifyPaymentRequest)
	}{
		{"missing order id", func(r *VerifyPaymentRequest) { r.OrderID = "" }},
		{"missing payment id", func(r *VerifyPaymentRequest) { r.PaymentID = "" }},
		{"missing signature", func(r *VerifyPaymentRequest) { r.Signature = "" }},
		{"non-hex signature", func(r *VerifyPaymentRequest) { r.Signature = "zzzz-not-hex" }},
		{"missing email", func(r *VerifyPaymentRequest) { r.Notes.Email = "" }},
		{"zero credits", func(r *VerifyPaymentRequest) { r.Notes.Credits = 0 }},
		{"negative credits", func(r *VerifyPaymentRequest) { r.Notes.Credits = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validVerifyRequest()
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	req := CreateOrderRequest{
		UserEmail: "buyer@example.com",
		Detail:    OrderDetail{Amount: 499, Credits: 100, Name: "Pro"},
	}
	assert.NoError(t, req.Validate())

	req.Detail.Amount = 2000000
	assert.Error(t, req.Validate(), "amount above the cap is rejected")

	req.Detail.Amount = 499
	req.Detail.Credits = 20000
	assert.Error(t, req.Validate(), "credits above the cap are rejected")

	req.Detail.Credits = 100
	req.UserEmail = ""
	assert.Error(t, req.Validate())
}
