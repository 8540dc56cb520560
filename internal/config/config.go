// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Fal      FalConfig
	Razorpay RazorpayConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	BaseURL string // public base URL used to build webhook callbacks
}

type DatabaseConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	IssuerURL string
	JWKSURI   string
}

type FalConfig struct {
	APIKey   string
	QueueURL string
	RestURL  string
	Model    string
	JWKSURL  string
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

type StorageConfig struct {
	Bucket   string
	Region   string
	Endpoint string // optional, for S3-compatible stores
}

func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			Host:    getEnvOrDefault("HOST", "0.0.0.0"),
			BaseURL: os.Getenv("PUBLIC_BASE_URL"),
		},
		Database: DatabaseConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnvOrDefault("MONGODB_DATABASE", "styleforge"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			IssuerURL: os.Getenv("AUTH_ISSUER_URL"),
			JWKSURI:   os.Getenv("AUTH_JWKS_URI"),
		},
		Fal: FalConfig{
			APIKey:   os.Getenv("FAL_KEY"),
			QueueURL: getEnvOrDefault("FAL_QUEUE_URL", "https://queue.fal.run"),
			RestURL:  getEnvOrDefault("FAL_REST_URL", "https://rest.alpha.fal.ai"),
			Model:    getEnvOrDefault("FAL_MODEL", "fal-ai/nano-banana/edit"),
			JWKSURL:  getEnvOrDefault("FAL_JWKS_URL", "https://rest.alpha.fal.ai/.well-known/jwks.json"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
			WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		},
		Storage: StorageConfig{
			Bucket:   os.Getenv("S3_BUCKET"),
			Region:   getEnvOrDefault("S3_REGION", "ap-south-1"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("PUBLIC_BASE_URL is required")
	}
	if c.Auth.IssuerURL == "" {
		return fmt.Errorf("AUTH_ISSUER_URL is required")
	}
	if c.Fal.APIKey == "" {
		return fmt.Errorf("FAL_KEY is required")
	}
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
