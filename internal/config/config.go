package config

import (
	"os"
	"strconv"
	"time"
)

// StorageConfig holds settings for the local image directory.
type StorageConfig struct {
	Dir string
}

// BedrockConfig holds settings for the Amazon Bedrock image model.
// Credentials are not part of it: the AWS SDK resolves them from the
// standard chain (env, shared config, instance role) on every call.
type BedrockConfig struct {
	Region  string
	ModelID string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost            string
	Port               string
	Timezone           string
	LogLevel           string
	BodyLimitBytes     int
	ShutdownTimeoutSec int
	SwaggerEnabled     bool
	Storage            StorageConfig
	Bedrock            BedrockConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:            getEnv("APP_HOST", "localhost:8080"),
		Port:               getEnv("PORT", "8080"), // default only for non-sensitive value
		Timezone:           getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		BodyLimitBytes:     getEnvInt("BODY_LIMIT_BYTES", 1<<20),
		ShutdownTimeoutSec: getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10),
		SwaggerEnabled:     getEnvBool("SWAGGER_ENABLED", true),
		Storage: StorageConfig{
			Dir: getEnv("IMAGE_DIR", "generated_images"),
		},
		Bedrock: BedrockConfig{
			Region:  getEnv("AWS_DEFAULT_REGION", "us-east-1"),
			ModelID: getEnv("BEDROCK_MODEL_ID", "stability.stable-diffusion-xl-v1"),
		},
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
