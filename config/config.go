package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     int
	JWTSecret      string
	AllowedOrigins []string

	Mongo       MongoConfig
	AWS         AWSConfig
	Storage     StorageConfig
	Minio       MinioConfig
	Notify      NotifyConfig
	Rekognition RekognitionConfig
	Cleanup     CleanupConfig
	Captcha     CaptchaConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// StorageConfig selects the object storage backend for cover uploads.
// Backend is "s3" or "minio".
type StorageConfig struct {
	Backend string
	Bucket  string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// NotifyConfig selects the registration notification backend.
// Backend is "ses", "amqp" or "" (disabled).
type NotifyConfig struct {
	Backend   string
	SESSender string
	AMQPURL   string
	AMQPQueue string
}

type RekognitionConfig struct {
	CollectionID string
}

type CleanupConfig struct {
	FunctionName string
}

type CaptchaConfig struct {
	TTL      time.Duration
	Capacity int
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort:     getEnvInt("SERVER_PORT", 4000),
		JWTSecret:      getEnv("SECRET", ""),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", "http://localhost:3000"),
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "lifestyleblend"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "s3"),
			Bucket:  getEnv("S3_BUCKET_NAME", ""),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Notify: NotifyConfig{
			Backend:   getEnv("NOTIFY_BACKEND", ""),
			SESSender: getEnv("SES_VERIFIED_EMAIL", ""),
			AMQPURL:   getEnv("AMQP_URL", ""),
			AMQPQueue: getEnv("AMQP_QUEUE", "registrations"),
		},
		Rekognition: RekognitionConfig{
			CollectionID: getEnv("REKOGNITION_COLLECTION_ID", "attendace"),
		},
		Cleanup: CleanupConfig{
			FunctionName: getEnv("CLEANUP_FUNCTION_NAME", "MyLambda"),
		},
		Captcha: CaptchaConfig{
			TTL:      getEnvDuration("CAPTCHA_TTL", 10*time.Minute),
			Capacity: getEnvInt("CAPTCHA_CAPACITY", 10000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return strings.EqualFold(valueStr, "true") || valueStr == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
