package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverSQLite    = "sqlite"
	StoreDriverFirestore = "firestore"

	minSecretKeyLength = 32
)

var ErrMissingParameter = errors.New("missing required configuration parameter")

type Config struct {
	// Application
	AppID           string
	AppEnv          string
	Port            string
	Location        *time.Location
	DefaultLanguage string

	// Security
	SecretKey        string
	InitialAuthToken string
	CookieSecure     bool

	// Storage
	StoreDriver        string
	DBPath             string
	FirestoreProjectID string
	FirestoreCredsFile string

	// Realtime
	RedisAddr    string
	RedisChannel string

	// Observability
	SentryDSN string

	// Export archive (optional, S3-compatible)
	ArchiveBucket    string
	ArchiveRegion    string
	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	env := envReader{lookup: lookup}

	cfg := &Config{
		AppID:            env.String("APP_ID", ""),
		AppEnv:           env.String("APP_ENV", "development"),
		Port:             resolvePort(env.String("PORT", "")),
		Location:         loadLocation(env.String("TZ", "UTC")),
		DefaultLanguage:  env.String("DEFAULT_LANGUAGE", "es"),
		SecretKey:        env.String("SECRET_KEY", ""),
		InitialAuthToken: env.String("INITIAL_AUTH_TOKEN", ""),
		CookieSecure:     env.Bool("COOKIE_SECURE", false),

		StoreDriver:        strings.ToLower(env.String("STORE_DRIVER", StoreDriverSQLite)),
		DBPath:             env.String("DB_PATH", "data/registro.db"),
		FirestoreProjectID: env.String("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredsFile: env.String("GOOGLE_APPLICATION_CREDENTIALS", ""),

		RedisAddr:    env.String("REDIS_ADDR", ""),
		RedisChannel: env.String("REDIS_CHANNEL", "registro:records"),

		SentryDSN: env.String("SENTRY_DSN", ""),

		ArchiveBucket:    env.String("EXPORT_ARCHIVE_BUCKET", ""),
		ArchiveRegion:    env.String("EXPORT_ARCHIVE_REGION", "us-east-1"),
		ArchiveEndpoint:  env.String("EXPORT_ARCHIVE_ENDPOINT", ""),
		ArchiveAccessKey: env.String("EXPORT_ARCHIVE_ACCESS_KEY", ""),
		ArchiveSecretKey: env.String("EXPORT_ARCHIVE_SECRET_KEY", ""),
	}

	if cfg.AppID == "" {
		return nil, fmt.Errorf("%w: APP_ID", ErrMissingParameter)
	}
	secretKey, err := resolveSecretKey(cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	cfg.SecretKey = secretKey

	switch cfg.StoreDriver {
	case StoreDriverSQLite:
	case StoreDriverFirestore:
		if cfg.FirestoreProjectID == "" {
			return nil, fmt.Errorf("%w: FIRESTORE_PROJECT_ID", ErrMissingParameter)
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func (cfg *Config) IsDevelopment() bool {
	return cfg.AppEnv != "production"
}

func (cfg *Config) ArchiveEnabled() bool {
	return cfg.ArchiveBucket != ""
}

func resolveSecretKey(raw string) (string, error) {
	secretKey := strings.TrimSpace(raw)
	if secretKey == "" {
		return "", fmt.Errorf("%w: SECRET_KEY", ErrMissingParameter)
	}
	switch strings.ToLower(secretKey) {
	case "change_me_in_production", "changeme", "secret":
		return "", errors.New("SECRET_KEY uses a placeholder value")
	}
	if len(secretKey) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func resolvePort(raw string) string {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080"
	}
	if value, err := strconv.Atoi(port); err != nil || value <= 0 || value > 65535 {
		slog.Warn("invalid PORT, falling back to 8080", "port", port)
		return "8080"
	}
	return port
}

func loadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("invalid TZ, falling back to UTC", "tz", name)
		return time.UTC
	}
	return location
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (env envReader) String(key string, def string) string {
	if value, ok := env.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return def
}

func (env envReader) Bool(key string, def bool) bool {
	value, ok := env.lookup(key)
	if !ok || value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
