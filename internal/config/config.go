package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr string
	//Auth / Security
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	// Infrastructure
	DBAddr string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// One-time token flow (email verify)
	FrontendBaseURL     string
	BackendBaseURL      string
	VerifyEmailTokenTTL time.Duration

	// Email / SMTP
	EmailSender string // "smtp" / "fake"

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPTimeout  time.Duration
	SMTPInsecure bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "user-mgmt-service")

	// optional with defaults
	ttl, err := getDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = ttl

	vet, err := getDuration("VERIFY_EMAIL_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.VerifyEmailTokenTTL = vet

	cfg.BcryptCost = getInt("BCRYPT_COST", 12)

	// The database is required outside dev because the service cannot
	// operate correctly without its backing store. Fail fast to avoid
	// starting in a broken or partially-initialized state. In dev an
	// empty DB_ADDR selects the in-memory store.
	cfg.DBAddr = strings.TrimSpace(os.Getenv("DB_ADDR"))
	if cfg.DBAddr == "" && cfg.Env != "dev" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	if cfg.DBAddr != "" && !strings.HasPrefix(cfg.DBAddr, "postgres://") && !strings.HasPrefix(cfg.DBAddr, "postgresql://") {
		return nil, fmt.Errorf("DB_ADDR must be a postgres:// DSN, got %q", cfg.DBAddr)
	}

	// Verification links land on the backend (token consumption) and
	// redirect to the frontend (result pages).
	cfg.FrontendBaseURL = strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/")
	cfg.BackendBaseURL = strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8080"), "/")

	// Email / SMTP
	cfg.EmailSender = getEnv("EMAIL_SENDER", "fake")
	cfg.SMTPHost = getEnv("SMTP_HOST", "")
	cfg.SMTPPort = getInt("SMTP_PORT", 587)
	cfg.SMTPUsername = getEnv("SMTP_USERNAME", "")
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SMTPFrom = getEnv("SMTP_FROM", cfg.SMTPUsername)
	st, err := getDuration("SMTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.SMTPTimeout = st
	cfg.SMTPInsecure = getBool("SMTP_INSECURE", false)

	if cfg.EmailSender == "smtp" && cfg.SMTPHost == "" {
		return nil, fmt.Errorf("smtp sender selected but missing SMTP_HOST")
	}
	if cfg.EmailSender != "smtp" && cfg.EmailSender != "fake" {
		return nil, fmt.Errorf("unknown EMAIL_SENDER %q (want smtp or fake)", cfg.EmailSender)
	}

	// Timeout values are optional and have a default value if not set
	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

// VerifyEmailBaseURL is where verification links point. The token is
// appended by the sender, so it must end with `token=`.
func (c *Config) VerifyEmailBaseURL() string {
	return c.BackendBaseURL + "/verify-email?token="
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
