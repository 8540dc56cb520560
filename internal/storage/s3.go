// internal/storage/s3.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"styleforge-backend/internal/config"
)

// ImageStore persists image bytes to the object store. Persistence is
// best-effort: callers log failures and continue, the transformation flow
// never depends on it.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type s3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
}

// NewS3Store builds an object store client from the storage config. Static
// credentials via S3_ACCESS_KEY_ID/S3_SECRET_ACCESS_KEY override the default
// chain for S3-compatible deployments.
func NewS3Store(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.Region),
	}
	if accessKey := os.Getenv("S3_ACCESS_KEY_ID"); accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, os.Getenv("S3_SECRET_ACCESS_KEY"), "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Storage.Bucket,
	}, nil
}

func (s *s3Store) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", key, err)
	}

	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", key, err)
	}

	return resp.URL, nil
}

type nopStore struct{}

// NewNopStore is used when no object store is configured.
func NewNopStore() ImageStore {
	return nopStore{}
}

func (nopStore) Save(_ context.Context, key, _ string, _ []byte) (string, error) {
	zap.L().Debug("Object store disabled, skipping image persistence", zap.String("key", key))
	return "", nil
}
