// Package config locates taxis data on disk and loads runtime configuration
// from defaults, an optional YAML file, a .env file and TAXIS_* variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	BaseURL     string        `yaml:"baseURL" validate:"required,url"`
	Addr        string        `yaml:"addr" validate:"required"`
	DBPath      string        `yaml:"dbPath"`
	LogLevel    string        `yaml:"logLevel" validate:"oneof=debug info warn error"`
	LogFormat   string        `yaml:"logFormat" validate:"oneof=text json"`
	HTTPTimeout time.Duration `yaml:"httpTimeout" validate:"gt=0"`
}

// Default is the configuration used when nothing overrides it.
var Default = Config{
	BaseURL:     "http://localhost:8080/",
	Addr:        ":8080",
	LogLevel:    "info",
	LogFormat:   "text",
	HTTPTimeout: 10 * time.Second,
}

// NewFromReader reads YAML over Default and validates the result.
func NewFromReader(r io.Reader) (*Config, error) {
	c, err := decode(r)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// decode reads YAML over Default without validating.
func decode(r io.Reader) (*Config, error) {
	c := Default

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return &c, nil
}

// Load builds the configuration. path names a YAML file; when empty the
// default config path is used if it exists. A .env file in the working
// directory is loaded without overriding variables already set, then
// TAXIS_* variables override file values. The result is validated once, after
// every source has been applied.
func Load(path string) (*Config, error) {
	c := Default
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	f, err := os.Open(path)
	switch {
	case err == nil:
		fc, err := decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		c = *fc
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("open config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// ResolveDBPath returns DBPath or the default database path.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return DBPath()
}

func (c *Config) applyEnv() {
	c.BaseURL = getEnv("TAXIS_BASE_URL", c.BaseURL)
	c.Addr = getEnv("TAXIS_ADDR", c.Addr)
	c.DBPath = getEnv(EnvDB, c.DBPath)
	c.LogLevel = getEnv("TAXIS_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("TAXIS_LOG_FORMAT", c.LogFormat)
	c.HTTPTimeout = getDurationEnv("TAXIS_HTTP_TIMEOUT_SECONDS", c.HTTPTimeout)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
