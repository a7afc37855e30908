package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "JOBTRACKER_CONFIG"

	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "jobtracker.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = 24 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
	defaultStorageDir      = "./uploads"
	defaultUploadMaxBytes  = 5 * 1024 * 1024 // 5 MB
)

// Config is the full runtime configuration. It is built once in cmd and
// handed to every component at construction time.
type Config struct {
	AppEnv             string        `toml:"app_env" yaml:"app_env"`
	HTTPAddr           string        `toml:"http_addr" yaml:"http_addr"`
	DatabaseURL        string        `toml:"database_url" yaml:"database_url"`
	DBLogLevel         string        `toml:"db_log_level" yaml:"db_log_level"`
	JWTSecret          string        `toml:"jwt_secret" yaml:"jwt_secret"`
	JWTTTL             time.Duration `toml:"jwt_ttl" yaml:"jwt_ttl"`
	CORSAllowedOrigins []string      `toml:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	LogLevel           string        `toml:"log_level" yaml:"log_level"`
	LogFormat          string        `toml:"log_format" yaml:"log_format"`
	ShutdownTimeout    time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`

	Upload  UploadConfig  `toml:"upload" yaml:"upload"`
	Storage StorageConfig `toml:"storage" yaml:"storage"`

	// Transitions replaces the default application status transition table
	// when non-empty: status -> statuses it may move to.
	Transitions map[string][]string `toml:"transitions" yaml:"transitions"`
}

type UploadConfig struct {
	MaxBytes int64 `toml:"max_bytes" yaml:"max_bytes"`
}

// StorageConfig selects the blob backend for uploaded files.
// Backend is "filesystem" (default), "memory" or "s3".
type StorageConfig struct {
	Backend string `toml:"backend" yaml:"backend"`
	Dir     string `toml:"dir" yaml:"dir"`

	S3Bucket          string `toml:"s3_bucket" yaml:"s3_bucket"`
	S3Prefix          string `toml:"s3_prefix" yaml:"s3_prefix"`
	S3Region          string `toml:"s3_region" yaml:"s3_region"`
	S3Endpoint        string `toml:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKeyID     string `toml:"s3_access_key_id" yaml:"s3_access_key_id"`
	S3SecretAccessKey string `toml:"s3_secret_access_key" yaml:"s3_secret_access_key"`
	S3PathStyle       bool   `toml:"s3_path_style" yaml:"s3_path_style"`

	// Optional at-rest encryption with age. Both files must be set together.
	AgeRecipientsFile string `toml:"age_recipients_file" yaml:"age_recipients_file"`
	AgeIdentityFile   string `toml:"age_identity_file" yaml:"age_identity_file"`
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		AppEnv:          "dev",
		HTTPAddr:        defaultHTTPAddr,
		DatabaseURL:     defaultDatabaseURL,
		DBLogLevel:      "warn",
		JWTSecret:       defaultJWTSecret,
		JWTTTL:          defaultJWTTTL,
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: defaultShutdownTimeout,
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		Upload: UploadConfig{MaxBytes: defaultUploadMaxBytes},
		Storage: StorageConfig{
			Backend: "filesystem",
			Dir:     defaultStorageDir,
		},
	}
}

// Load builds the configuration from defaults, the optional file named by
// JOBTRACKER_CONFIG and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(raw), c); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, c); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported file type %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		c.AppEnv = strings.ToLower(v)
	}
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.DBLogLevel, "DB_LOG_LEVEL")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}

	var err error
	if c.JWTTTL, err = parseDurationEnv("JWT_TTL", c.JWTTTL); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	if c.Upload.MaxBytes, err = parseInt64Env("UPLOAD_MAX_BYTES", c.Upload.MaxBytes); err != nil {
		return err
	}

	setString(&c.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Storage.Dir, "STORAGE_DIR")
	setString(&c.Storage.S3Bucket, "S3_BUCKET")
	setString(&c.Storage.S3Prefix, "S3_PREFIX")
	setString(&c.Storage.S3Region, "S3_REGION")
	setString(&c.Storage.S3Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.S3AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&c.Storage.S3SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	if v := os.Getenv("S3_PATH_STYLE"); v != "" {
		c.Storage.S3PathStyle = parseBool(v)
	}
	setString(&c.Storage.AgeRecipientsFile, "AGE_RECIPIENTS_FILE")
	setString(&c.Storage.AgeIdentityFile, "AGE_IDENTITY_FILE")
	return nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be > 0")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}

	switch c.Storage.Backend {
	case "filesystem":
		if strings.TrimSpace(c.Storage.Dir) == "" {
			return fmt.Errorf("STORAGE_DIR must be set for the filesystem backend")
		}
	case "memory":
	case "s3":
		if strings.TrimSpace(c.Storage.S3Bucket) == "" {
			return fmt.Errorf("S3_BUCKET must be set for the s3 backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: filesystem, memory, s3 (got %q)", c.Storage.Backend)
	}

	if (c.Storage.AgeRecipientsFile == "") != (c.Storage.AgeIdentityFile == "") {
		return fmt.Errorf("AGE_RECIPIENTS_FILE and AGE_IDENTITY_FILE must be set together")
	}

	if c.IsProdLike() {
		if isEmptyOrDefault(c.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if c.Storage.Backend == "memory" {
			return fmt.Errorf("in prod/release STORAGE_BACKEND must not be memory")
		}
	}
	return nil
}

// IsProdLike reports whether the app runs in a production environment.
func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func parseDurationEnv(name string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
