package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DSN", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("GOOGLE_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "local.db", cfg.DSN)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, 20, cfg.RateLimitPerMin)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("RATE_LIMIT_PER_MIN", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("BUCKET_NAME", "portal")
	t.Setenv("ACCESS_KEY_ID", "key")
	t.Setenv("ACCESS_KEY_SECRET", "secret")
	t.Setenv("ACCOUNT_ID", "acct")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.True(t, cfg.SessionSecure)
	assert.Equal(t, 20, cfg.RateLimitPerMin)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{DBDriver: DriverSQLite, DSN: "x.db", StorageBackend: StorageLocal, UploadDir: "static"}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"unknown driver":    func(c *Config) { c.DBDriver = "mysql" },
		"empty dsn":         func(c *Config) { c.DSN = "" },
		"unknown storage":   func(c *Config) { c.StorageBackend = "ftp" },
		"s3 without creds":  func(c *Config) { c.StorageBackend = StorageS3 },
		"local without dir": func(c *Config) { c.UploadDir = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
