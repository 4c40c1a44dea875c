package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	AppName string
	AppPort string

	// Database
	DBDriver        string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // minutes

	// Sessions
	SessionSecret string
	SessionSecure bool
	SessionMaxAge int // seconds

	// File storage
	StorageBackend string
	UploadDir      string
	AccountID      string
	AccessKeyID    string
	AccessSecret   string
	BucketName     string
	PublicURL      string
	S3Endpoint     string

	// Google sign-in, disabled when the key is empty
	GoogleKey         string
	GoogleSecret      string
	GoogleCallbackURL string

	RateLimitPerMin    int
	CORSAllowedOrigins []string
	ImageMaxWidth      int
	LogLevel           string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		AppName:            getEnv("APP_NAME", "renovation-portal"),
		AppPort:            getEnv("APP_PORT", "3000"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DSN:                getEnv("DATABASE_URL", os.Getenv("DSN")),
		MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifeTime:    getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
		SessionSecret:      getEnv("SESSION_SECRET", "dev-secret-key"),
		SessionSecure:      getEnvBool("SESSION_SECURE", false),
		SessionMaxAge:      getEnvInt("SESSION_MAX_AGE", 86400*30),
		StorageBackend:     strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		UploadDir:          getEnv("UPLOAD_DIR", "static"),
		AccountID:          os.Getenv("ACCOUNT_ID"),
		AccessKeyID:        os.Getenv("ACCESS_KEY_ID"),
		AccessSecret:       os.Getenv("ACCESS_KEY_SECRET"),
		BucketName:         os.Getenv("BUCKET_NAME"),
		PublicURL:          os.Getenv("PUBLIC_URL"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		GoogleKey:          os.Getenv("GOOGLE_KEY"),
		GoogleSecret:       os.Getenv("GOOGLE_SECRET"),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:3000/auth/google/callback"),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MIN", 20),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		ImageMaxWidth:      getEnvInt("IMAGE_MAX_WIDTH", 0),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DBDriver == DriverSQLite && cfg.DSN == "" {
		cfg.DSN = "local.db"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid config: DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}
	if c.DSN == "" {
		return fmt.Errorf("invalid config: DATABASE_URL must not be empty")
	}

	switch c.StorageBackend {
	case StorageLocal:
		if c.UploadDir == "" {
			return fmt.Errorf("invalid config: UPLOAD_DIR must not be empty")
		}
	case StorageS3:
		if c.BucketName == "" || c.AccessKeyID == "" || c.AccessSecret == "" {
			return fmt.Errorf("invalid config: s3 storage needs BUCKET_NAME, ACCESS_KEY_ID and ACCESS_KEY_SECRET")
		}
		if c.AccountID == "" && c.S3Endpoint == "" {
			return fmt.Errorf("invalid config: s3 storage needs ACCOUNT_ID or S3_ENDPOINT")
		}
	default:
		return fmt.Errorf("invalid config: STORAGE_BACKEND must be %q or %q, got %q", StorageLocal, StorageS3, c.StorageBackend)
	}
	return nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleKey != "" && c.GoogleSecret != ""
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
