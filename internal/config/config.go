package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	Port    int
	Debug   bool
	Version string

	DBURL string

	// process-wide secret used for both JWT signing and password hashing
	SecretKey       string
	TokenTTLMinutes int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint string

	AllowedOrigins []string
	MaxBodyBytes   int64

	// requests per window against the token endpoint, per client
	TokenRateLimit  int
	TokenRateWindow time.Duration

	// bootstrap user so a fresh database is not a lockout
	BootstrapUsername  string
	BootstrapPassword  string
	BootstrapEmail     string
	BootstrapFirstName string
	BootstrapLastName  string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	return Config{
		Env:     getEnv("APP_ENV", "dev"),
		Port:    getEnvInt("PORT", 8080),
		Debug:   getEnvBool("DEBUG", false),
		Version: getEnv("APP_VERSION", "0.0.0"),

		DBURL: buildDBURL(),

		SecretKey:       getEnv("SECRET_KEY", ""),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 30),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		AllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS"),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		TokenRateLimit:  getEnvInt("TOKEN_RATE_LIMIT", 10),
		TokenRateWindow: time.Duration(getEnvInt("TOKEN_RATE_WINDOW_SECONDS", 60)) * time.Second,

		BootstrapUsername:  getEnv("BOOTSTRAP_USERNAME", ""),
		BootstrapPassword:  getEnv("BOOTSTRAP_PASSWORD", ""),
		BootstrapEmail:     getEnv("BOOTSTRAP_EMAIL", ""),
		BootstrapFirstName: getEnv("BOOTSTRAP_FIRST_NAME", "System"),
		BootstrapLastName:  getEnv("BOOTSTRAP_LAST_NAME", "Admin"),
	}
}

// Validate catches startup misconfiguration before anything binds a port.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must be set")
	}

	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", c.TokenTTLMinutes)
	}

	return nil
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "opengym")
	pass := getEnv("DB_PASSWORD", "opengym")
	name := getEnv("DB_NAME", "opengym")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fallback
		}

		return b
	}
	return fallback
}

func splitEnv(key string) []string {
	v := os.Getenv(key)

	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
