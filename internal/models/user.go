// internal/models/user.go
package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan tiers
const (
	PlanFree     = "free"
	PlanStandard = "standard"
	PlanPro      = "pro"
)

// InitialCredits is the starting grant applied on first sign-in.
const InitialCredits = 3

type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID               string             `bson:"userId" json:"userId"`
	Email                string             `bson:"email" json:"email"`
	Name                 string             `bson:"name,omitempty" json:"name,omitempty"`
	Credits              int                `bson:"credits" json:"credits"`
	Plan                 string             `bson:"plan" json:"plan"`
	TotalTransformations int                `bson:"totalTransformations" json:"totalTransformations"`
	TotalCreditsUsed     int                `bson:"totalCreditsUsed" json:"totalCreditsUsed"`
	Payments             []PaymentRecord    `bson:"payments,omitempty" json:"payments,omitempty"`
	LastPayment          *PaymentRecord     `bson:"lastPayment,omitempty" json:"lastPayment,omitempty"`
	LastTransformationAt *time.Time         `bson:"lastTransformationAt,omitempty" json:"lastTransformationAt,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type RegisterUserRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

func (r *RegisterUserRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("userId is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if !isValidEmail(r.Email) {
		return errors.New("invalid email format")
	}
	return nil
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".") && !strings.ContainsAny(email, " \t")
}
