// Package config reads process settings from RECIPEBOX_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/recipebox/internal/imagestore"
)

const envPrefix = "RECIPEBOX_"

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string
	BaseURL   string

	SessionSecret []byte
	// SecretGenerated is true when no secret was configured and a random
	// one was made for this process; sessions won't survive a restart.
	SecretGenerated bool
	SessionTTL      time.Duration
	CookieSecure    bool

	ImageDir string
	S3       imagestore.S3Config

	AllowedOrigins []string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(envPrefix + key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:      get("PORT", "8080"),
		DBPath:    get("DB_PATH", "recipebox.db"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "text"),
		BaseURL:   strings.TrimRight(get("BASE_URL", ""), "/"),
		ImageDir:  get("IMAGE_DIR", "data/images"),
		S3: imagestore.S3Config{
			Endpoint:  get("S3_ENDPOINT", ""),
			Bucket:    get("S3_BUCKET", ""),
			Region:    get("S3_REGION", "us-east-1"),
			AccessKey: get("S3_ACCESS_KEY", ""),
			SecretKey: get("S3_SECRET_KEY", ""),
		},
	}

	ttl, err := time.ParseDuration(get("SESSION_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("parse %sSESSION_TTL: %w", envPrefix, err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%sSESSION_TTL must be positive", envPrefix)
	}
	cfg.SessionTTL = ttl

	if v := get("COOKIE_SECURE", ""); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse %sCOOKIE_SECURE: %w", envPrefix, err)
		}
		cfg.CookieSecure = secure
	}

	if origins := get("ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if secret := get("SESSION_SECRET", ""); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		cfg.SessionSecret = make([]byte, 32)
		if _, err := rand.Read(cfg.SessionSecret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SecretGenerated = true
	}

	return cfg, nil
}
