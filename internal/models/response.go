// internal/models/response.go
package models

import "time"

type RegisterUserResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Credits int    `json:"credits"`
}

type TransformResponse struct {
	JobID            string `json:"jobId"`
	RequestID        string `json:"requestId"`
	TransformationID string `json:"transformationId"`
	Style            string `json:"style"`
}

type JobStatusResponse struct {
	Status           string          `json:"status"`
	RequestID        string          `json:"requestId,omitempty"`
	TransformationID string          `json:"transformationId,omitempty"`
	UserID           string          `json:"userId,omitempty"`
	Images           []JobImage      `json:"images,omitempty"`
	Error            string          `json:"error,omitempty"`
	Transformation   *Transformation `json:"transformation,omitempty"`
}

type TransformationListResponse struct {
	Transformations []Transformation `json:"transformations"`
}

type CreateOrderResponse struct {
	Message string                 `json:"msg"`
	Order   map[string]interface{} `json:"order"`
}

type VerifyPaymentResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Credits  int    `json:"credits"`
	PlanName string `json:"planName"`
}

type WebhookAckResponse struct {
	OK bool `json:"ok"`
}

type HealthResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}
