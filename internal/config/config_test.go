package config

import (
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DBPath != "recipebox.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "recipebox.db")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.SessionTTL != 168*time.Hour {
		t.Errorf("SessionTTL = %v, want 168h", cfg.SessionTTL)
	}
	if !cfg.SecretGenerated || len(cfg.SessionSecret) != 32 {
		t.Errorf("expected a generated 32-byte secret, got %d bytes (generated=%v)", len(cfg.SessionSecret), cfg.SecretGenerated)
	}
	if cfg.S3.Enabled() {
		t.Error("S3 should be disabled without a bucket")
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should default to false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"RECIPEBOX_PORT":            "9090",
		"RECIPEBOX_SESSION_SECRET":  "s3cret",
		"RECIPEBOX_SESSION_TTL":     "2h",
		"RECIPEBOX_COOKIE_SECURE":   "true",
		"RECIPEBOX_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"RECIPEBOX_BASE_URL":        "https://recipes.example/",
		"RECIPEBOX_S3_BUCKET":       "photos",
		"RECIPEBOX_S3_ACCESS_KEY":   "key",
		"RECIPEBOX_S3_SECRET_KEY":   "secret",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if string(cfg.SessionSecret) != "s3cret" || cfg.SecretGenerated {
		t.Errorf("SessionSecret = %q (generated=%v)", cfg.SessionSecret, cfg.SecretGenerated)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure = false, want true")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.BaseURL != "https://recipes.example" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if !cfg.S3.Enabled() {
		t.Error("S3 should be enabled when a bucket is set")
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"RECIPEBOX_SESSION_TTL": "soon"}},
		{"negative ttl", map[string]string{"RECIPEBOX_SESSION_TTL": "-1h"}},
		{"bad secure flag", map[string]string{"RECIPEBOX_COOKIE_SECURE": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(envMap(tt.env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
