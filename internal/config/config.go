package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSecretKey is only acceptable in development.
const DefaultSecretKey = "default-outreach-secret-key-change-it"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Host           string        `yaml:"host" env:"HOST"`
	Port           string        `yaml:"port" env:"PORT"`
	Env            string        `yaml:"env" env:"APP_ENV"`
	ServiceName    string        `yaml:"service_name" env:"SERVICE_NAME"`
	SecretKey      string        `yaml:"secret_key" env:"SECRET_KEY"`
	JWTSecret      string        `yaml:"jwt_secret" env:"JWT_SECRET_KEY"`
	DatabaseURL    string        `yaml:"database_url" env:"DATABASE_URL"`
	UploadDir      string        `yaml:"upload_dir" env:"UPLOAD_DIR"`
	MaxUploadSize  int64         `yaml:"max_upload_size" env:"MAX_UPLOAD_SIZE"`
	APITimeout     time.Duration `yaml:"timeout" env:"API_TIMEOUT"`
	UploadTimeout  time.Duration `yaml:"upload_timeout" env:"UPLOAD_TIMEOUT"`
	TokenDuration  time.Duration `yaml:"token_duration" env:"TOKEN_DURATION"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL"`
	MigrateOnStart bool          `yaml:"migrate_on_start" env:"MIGRATE_ON_START"`
	Auth           AuthConfig    `yaml:"auth"`
}

type AuthConfig struct {
	// ProtectGallery requires an admin bearer token on gallery mutations.
	ProtectGallery bool `yaml:"protect_gallery" env:"PROTECT_GALLERY"`
	BcryptCost     int  `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

func defaults() *Config {
	return &Config{
		Host:           "0.0.0.0",
		Port:           "5000",
		Env:            EnvDevelopment,
		ServiceName:    "Outreach",
		SecretKey:      DefaultSecretKey,
		DatabaseURL:    "sqlite:///outreach.db",
		UploadDir:      "static/uploads",
		MaxUploadSize:  64 << 20,
		APITimeout:     15 * time.Second,
		UploadTimeout:  10 * time.Minute,
		TokenDuration:  24 * time.Hour,
		LogLevel:       "info",
		MigrateOnStart: true,
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file at
// path and finally the process environment, each layer overriding the last.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing files
// are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// TokenSecret is the key used to sign bearer tokens. It falls back to SecretKey.
func (c *Config) TokenSecret() string {
	if c.JWTSecret != "" {
		return c.JWTSecret
	}
	return c.SecretKey
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// DatabasePath converts DatabaseURL into a SQLite DSN. Both bare paths and
// sqlite:/// URLs are accepted.
func (c *Config) DatabasePath() (string, error) {
	u := strings.TrimSpace(c.DatabaseURL)
	if u == "" {
		return "", errors.New("database_url is empty")
	}
	if rest, ok := strings.CutPrefix(u, "sqlite:///"); ok {
		if rest == "" {
			return "", fmt.Errorf("database_url %q has no path", u)
		}
		return rest, nil
	}
	if strings.Contains(u, "://") {
		return "", fmt.Errorf("unsupported database_url %q: only sqlite is supported", u)
	}
	return u, nil
}

func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.TokenSecret() == "" {
		return errors.New("secret_key is required")
	}
	if !c.IsDevelopment() && (c.SecretKey == DefaultSecretKey || c.TokenSecret() == DefaultSecretKey) {
		return fmt.Errorf("insecure default secret_key is not allowed in %q environment", c.Env)
	}
	if _, err := c.DatabasePath(); err != nil {
		return err
	}
	if c.UploadDir == "" {
		return errors.New("upload_dir is required")
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("max_upload_size must be positive")
	}
	if c.APITimeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.UploadTimeout < c.APITimeout {
		return errors.New("upload_timeout must be at least timeout")
	}
	if c.TokenDuration <= 0 {
		return errors.New("token_duration must be positive")
	}
	if cost := c.Auth.BcryptCost; cost != 0 && (cost < 4 || cost > 31) {
		return fmt.Errorf("auth.bcrypt_cost %d out of range [4,31]", cost)
	}

	return nil
}
