// internal/models/transformation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transformation status values
const (
	TransformationProcessing = "processing"
	TransformationCompleted  = "completed"
	TransformationFailed     = "failed"
	TransformationCancelled  = "cancelled"
)

// CreditsPerTransformation is the cost of a single image transformation.
const CreditsPerTransformation = 1

// Transformation is the durable record of one image-generation attempt.
type Transformation struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID string             `bson:"userId" json:"userId"`
	Status string             `bson:"status" json:"status"`

	OriginalImageURL  string `bson:"originalImageUrl" json:"originalImageUrl"`
	OriginalImagePath string `bson:"originalImagePath" json:"originalImagePath"`
	OriginalImageName string `bson:"originalImageName" json:"originalImageName"`
	OriginalImageSize int64  `bson:"originalImageSize" json:"originalImageSize"`

	TransformedImageURLs  []string `bson:"transformedImageUrls" json:"transformedImageUrls"`
	TransformedImagePaths []string `bson:"transformedImagePaths" json:"transformedImagePaths"`

	TransformationType   string `bson:"transformationType" json:"transformationType"`
	TransformationPrompt string `bson:"transformationPrompt" json:"transformationPrompt"`
	CreditsUsed          int    `bson:"creditsUsed" json:"creditsUsed"`
	ProcessingTimeMs     int64  `bson:"processingTime" json:"processingTime"`

	ProviderRequestID string      `bson:"providerRequestId,omitempty" json:"providerRequestId,omitempty"`
	APIResponse       interface{} `bson:"apiResponse,omitempty" json:"apiResponse,omitempty"`

	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	StartedAt   *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	FailedAt    *time.Time `bson:"failedAt,omitempty" json:"failedAt,omitempty"`

	ErrorMessage string `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	RetryCount   int    `bson:"retryCount" json:"retryCount"`
}

// TransformationStyle describes one of the preset generation styles.
type TransformationStyle struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
}

// DefaultStyleKey is applied when the client does not pick a style.
const DefaultStyleKey = "studio-white"

var transformationStyles = map[string]TransformationStyle{
	"studio-white": {
		Key:         "studio-white",
		Name:        "Studio White Background",
		Prompt:      "professional studio white background, catalog photography, soft shadows, high key lighting, ecommerce product photo",
		Description: "Clean white background perfect for e-commerce",
	},
	"lifestyle": {
		Key:         "lifestyle",
		Name:        "Lifestyle Setting",
		Prompt:      "lifestyle product photography, natural setting, soft natural lighting, modern interior",
		Description: "Natural lifestyle environment",
	},
	"luxury": {
		Key:         "luxury",
		Name:        "Luxury Showcase",
		Prompt:      "luxury product photography, premium background, dramatic lighting, high-end commercial style",
		Description: "Premium luxury presentation",
	},
	"minimal": {
		Key:         "minimal",
		Name:        "Minimal Clean",
		Prompt:      "minimal clean background, soft gradient, modern aesthetic, product focus",
		Description: "Simple and clean minimal style",
	},
}

// StyleForKey returns the style for key, falling back to the default style
// for unknown keys.
func StyleForKey(key string) TransformationStyle {
	if style, ok := transformationStyles[key]; ok {
		return style
	}
	return transformationStyles[DefaultStyleKey]
}
