package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		configPathEnv, "APP_ENV", "HTTP_ADDR", "DATABASE_URL", "JWT_SECRET", "JWT_TTL",
		"CORS_ALLOWED_ORIGINS", "UPLOAD_MAX_BYTES", "STORAGE_BACKEND", "STORAGE_DIR",
		"S3_BUCKET", "S3_PATH_STYLE", "AGE_RECIPIENTS_FILE", "AGE_IDENTITY_FILE", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "jobtracker.db", cfg.DatabaseURL)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, "filesystem", cfg.Storage.Backend)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Empty(t, cfg.Transitions)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "attachments")
	t.Setenv("S3_PATH_STYLE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "attachments", cfg.Storage.S3Bucket)
	assert.True(t, cfg.Storage.S3PathStyle)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid JWT_TTL")
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "jobtracker.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr = ":7000"
jwt_ttl = "30m"

[storage]
backend = "memory"

[transitions]
created = ["applied", "rejected"]
applied = ["rejected"]
`), 0o644))
	t.Setenv(configPathEnv, path)
	t.Setenv("HTTP_ADDR", ":7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7001", cfg.HTTPAddr, "env wins over file")
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, []string{"applied", "rejected"}, cfg.Transitions["created"])
	assert.Equal(t, "./uploads", cfg.Storage.Dir, "defaults survive partial files")
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "jobtracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_url: postgres://localhost/jobs
upload:
  max_bytes: 2048
transitions:
  offer: [accepted, rejected]
`), 0o644))
	t.Setenv(configPathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/jobs", cfg.DatabaseURL)
	assert.Equal(t, int64(2048), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"accepted", "rejected"}, cfg.Transitions["offer"])
}

func TestLoad_UnsupportedFileType(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "jobtracker.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o644))
	t.Setenv(configPathEnv, path)

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "ftp" }, "STORAGE_BACKEND"},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = "s3" }, "S3_BUCKET"},
		{"age half configured", func(c *Config) { c.Storage.AgeIdentityFile = "id.txt" }, "set together"},
		{"prod default secret", func(c *Config) { c.AppEnv = "production" }, "JWT_SECRET"},
		{"zero upload limit", func(c *Config) { c.Upload.MaxBytes = 0 }, "UPLOAD_MAX_BYTES"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}

	assert.NoError(t, Default().Validate())
}
