// internal/models/payment.go
package models

import (
	"errors"
	"regexp"
	"time"
)

// PaymentRecord is appended to the user's payment history after a verified
// checkout. (OrderID, PaymentID) is the idempotency key: a given pair must
// appear at most once across the array.
type PaymentRecord struct {
	OrderID   string    `bson:"orderId" json:"orderId"`
	PaymentID string    `bson:"paymentId" json:"paymentId"`
	Credits   int       `bson:"credits" json:"credits"`
	PlanName  string    `bson:"planName" json:"planName"`
	Amount    int       `bson:"amount" json:"amount"`
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// CreateOrderRequest mirrors the checkout payload sent by the pricing page.
type CreateOrderRequest struct {
	UserEmail string      `json:"useremail"`
	Detail    OrderDetail `json:"detail"`
}

type OrderDetail struct {
	Amount  int    `json:"amount"`
	Credits int    `json:"credits"`
	Name    string `json:"name"`
}

func (r *CreateOrderRequest) Validate() error {
	if r.UserEmail == "" || r.Detail.Amount == 0 {
		return errors.New("invalid request data")
	}
	if !isValidEmail(r.UserEmail) {
		return errors.New("invalid email format")
	}
	if r.Detail.Amount <= 0 || r.Detail.Amount > 1000000 {
		return errors.New("invalid amount")
	}
	if r.Detail.Credits <= 0 || r.Detail.Credits > 10000 {
		return errors.New("invalid credits amount")
	}
	return nil
}

// VerifyPaymentRequest carries the gateway's checkout confirmation fields.
type VerifyPaymentRequest struct {
	OrderID   string       `json:"razorpay_order_id"`
	PaymentID string       `json:"razorpay_payment_id"`
	Signature string       `json:"razorpay_signature"`
	Notes     PaymentNotes `json:"notes"`
}

type PaymentNotes struct {
	Email    string `json:"email"`
	Credits  int    `json:"credits"`
	PlanName string `json:"planName"`
	Amount   int    `json:"amount"`
}

var hexSignaturePattern = regexp.MustCompile(`(?i)^[a-f0-9]+$`)

func (r *VerifyPaymentRequest) Validate() error {
	if r.OrderID == "" || r.PaymentID == "" || r.Signature == "" {
		return errors.New("missing required payment details")
	}
	if !hexSignaturePattern.MatchString(r.Signature) {
		return errors.New("invalid signature format")
	}
	if r.Notes.Email == "" {
		return errors.New("user email not found in payment notes")
	}
	if r.Notes.Credits <= 0 {
		return errors.New("invalid credits amount")
	}
	return nil
}
