package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort             = "8080"
	defaultFaceThreshold    = 0.8
	defaultEmbeddingTimeout = 10 * time.Second
	defaultEmbeddingWorkers = 4
	defaultSMTPPort         = 587
)

// Config holds everything the process needs at startup. Load fails on
// missing required values so a misconfigured instance never comes up.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string

	EmbeddingURL     string
	EmbeddingTimeout time.Duration
	EmbeddingWorkers int
	FaceThreshold    float64

	SMTP SMTPConfig
}

// SMTPConfig configures the best-effort email notifier. Username and
// Password may be empty, in which case notifications are skipped.
type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
}

// Load reads configuration from the environment. Call godotenv.Load
// beforehand if a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("API_PORT", defaultPort),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDatabase:    os.Getenv("MONGO_DATABASE"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		EmbeddingURL:     os.Getenv("EMBEDDING_URL"),
		EmbeddingTimeout: defaultEmbeddingTimeout,
		EmbeddingWorkers: defaultEmbeddingWorkers,
		FaceThreshold:    defaultFaceThreshold,
		SMTP: SMTPConfig{
			Server:   os.Getenv("SMTP_SERVER"),
			Port:     defaultSMTPPort,
			Username: os.Getenv("EMAIL_USERNAME"),
			Password: os.Getenv("EMAIL_PASSWORD"),
		},
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI must be set")
	}
	if cfg.MongoDatabase == "" {
		return nil, fmt.Errorf("MONGO_DATABASE must be set")
	}
	if cfg.EmbeddingURL == "" {
		return nil, fmt.Errorf("EMBEDDING_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	if v := os.Getenv("FACE_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FACE_THRESHOLD %q: %w", v, err)
		}
		cfg.FaceThreshold = t
	}
	if cfg.FaceThreshold <= 0 || cfg.FaceThreshold > 1 {
		return nil, fmt.Errorf("FACE_THRESHOLD must be in (0, 1], got %v", cfg.FaceThreshold)
	}

	if v := os.Getenv("EMBEDDING_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid EMBEDDING_TIMEOUT %q", v)
		}
		cfg.EmbeddingTimeout = d
	}

	if v := os.Getenv("EMBEDDING_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid EMBEDDING_WORKERS %q", v)
		}
		cfg.EmbeddingWorkers = n
	}

	if v := os.Getenv("SMTP_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid SMTP_PORT %q", v)
		}
		cfg.SMTP.Port = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
