package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	HTTPAddr string
	BaseURL  string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	EmailAPIKey      string
	EmailFrom        string
	AdminNotifyEmail string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	UploadDir      string
	UploadMaxBytes int64

	CORSOrigins []string

	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Only safe behind a proxy that overwrites those headers.
	TrustProxyHeaders bool

	Payment PaymentConfig
}

// PaymentConfig holds the static instructions returned to sponsor applicants.
type PaymentConfig struct {
	PayableTo      string
	MailingAddress string
	OnlineURL      string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		AppEnv:   getEnvOrDefault("APP_ENV", "development"),
		HTTPAddr: getEnvOrDefault("HTTP_ADDR", ":8080"),
		BaseURL:  strings.TrimRight(getEnvOrDefault("BASE_URL", "http://localhost:8080"), "/"),

		DatabaseURL: databaseURL(),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getDurationOrDefault("JWT_TTL", 7*24*time.Hour),

		SMTPHost:         getEnvOrDefault("SMTP_HOST", "smtp.resend.com"),
		SMTPPort:         getIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:     getEnvOrDefault("SMTP_USERNAME", "resend"),
		EmailAPIKey:      os.Getenv("EMAIL_API_KEY"),
		EmailFrom:        getEnvOrDefault("EMAIL_FROM", "Riverbend Community Fund <noreply@riverbend.org>"),
		AdminNotifyEmail: getEnvOrDefault("ADMIN_NOTIFY_EMAIL", "admin@riverbend.org"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		UploadDir:      getEnvOrDefault("UPLOAD_DIR", "./data/uploads"),
		UploadMaxBytes: int64(getIntOrDefault("UPLOAD_MAX_BYTES", 10<<20)),

		CORSOrigins:       splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000")),
		TrustProxyHeaders: getBoolOrDefault("TRUST_PROXY_HEADERS", false),

		Payment: PaymentConfig{
			PayableTo:      getEnvOrDefault("PAYMENT_PAYABLE_TO", "Riverbend Community Fund"),
			MailingAddress: getEnvOrDefault("PAYMENT_MAILING_ADDRESS", "PO Box 118, Riverbend, CA 90001"),
			OnlineURL:      getEnvOrDefault("PAYMENT_ONLINE_URL", "https://riverbend.org/donate"),
		},
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.IsProduction() && c.EmailAPIKey == "" {
		missing = append(missing, "EMAIL_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// RedisEnabled is true when a Redis host is configured; otherwise the
// in-memory cache is used.
func (c *Config) RedisEnabled() bool { return c.RedisHost != "" }

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := os.Getenv("PG_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("PG_USER"),
		os.Getenv("PG_PASSWORD"),
		host,
		getEnvOrDefault("PG_PORT", "5432"),
		os.Getenv("PG_DB"),
	)
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
