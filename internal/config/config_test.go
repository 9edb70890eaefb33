package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DATABASE", "waiting_room")
	t.Setenv("EMBEDDING_URL", "http://localhost:8000")
	t.Setenv("JWT_SECRET", "test-secret")
	// Clear optional overrides that may leak in from the environment.
	t.Setenv("API_PORT", "")
	t.Setenv("FACE_THRESHOLD", "")
	t.Setenv("EMBEDDING_TIMEOUT", "")
	t.Setenv("EMBEDDING_WORKERS", "")
	t.Setenv("SMTP_PORT", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.FaceThreshold != 0.8 {
		t.Errorf("FaceThreshold = %v, want 0.8", cfg.FaceThreshold)
	}
	if cfg.EmbeddingTimeout != 10*time.Second {
		t.Errorf("EmbeddingTimeout = %v, want 10s", cfg.EmbeddingTimeout)
	}
	if cfg.EmbeddingWorkers != 4 {
		t.Errorf("EmbeddingWorkers = %d, want 4", cfg.EmbeddingWorkers)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d, want 587", cfg.SMTP.Port)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "MONGO_DATABASE", "EMBEDDING_URL", "JWT_SECRET"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")
			if _, err := Load(); err == nil {
				t.Fatalf("expected Load to fail with %s unset", key)
			}
		})
	}
}

func TestLoadThresholdValidation(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"0.8", true},
		{"1", true},
		{"0.01", true},
		{"0", false},
		{"-0.5", false},
		{"1.5", false},
		{"abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv("FACE_THRESHOLD", tt.value)
			_, err := Load()
			if tt.valid && err != nil {
				t.Fatalf("Load failed for threshold %q: %v", tt.value, err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("expected Load to reject threshold %q", tt.value)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("FACE_THRESHOLD", "0.65")
	t.Setenv("EMBEDDING_TIMEOUT", "30s")
	t.Setenv("EMBEDDING_WORKERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.FaceThreshold != 0.65 || cfg.EmbeddingTimeout != 30*time.Second || cfg.EmbeddingWorkers != 8 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}
