// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Media backends.
const (
	BackendDisk       = "disk"
	BackendCloudinary = "cloudinary"
)

// Config holds everything main needs to wire the server.
type Config struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`

	MediaBackend  string `yaml:"media_backend"`
	MediaRoot     string `yaml:"media_root"`
	CloudinaryURL string `yaml:"cloudinary_url"`

	JWTSecret    string `yaml:"jwt_secret"`
	BcryptCost   int    `yaml:"bcrypt_cost"`
	CookieSecure bool   `yaml:"cookie_secure"`

	// Login attempts allowed per client IP, refilled per minute.
	LoginRatePerMinute float64 `yaml:"login_rate_per_minute"`
	LoginBurst         float64 `yaml:"login_burst"`
}

func defaults() *Config {
	return &Config{
		Port:               "8080",
		DatabasePath:       "tripora.db",
		MediaBackend:       BackendDisk,
		MediaRoot:          "media",
		BcryptCost:         12,
		CookieSecure:       true,
		LoginRatePerMinute: 10,
		LoginBurst:         20,
	}
}

// Load reads the YAML file at path when it exists, applies environment
// overrides, and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("open config file: %w", err)
			}
		} else {
			defer file.Close()
			if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
				return nil, fmt.Errorf("decode config file: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PORT", &cfg.Port)
	setString("DATABASE_PATH", &cfg.DatabasePath)
	setString("MEDIA_BACKEND", &cfg.MediaBackend)
	setString("MEDIA_ROOT", &cfg.MediaRoot)
	setString("CLOUDINARY_URL", &cfg.CloudinaryURL)
	setString("JWT_SECRET", &cfg.JWTSecret)

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.BcryptCost = parsed
		}
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = v != "false"
	}
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost must be between 4 and 14, got %d", c.BcryptCost)
	}
	switch c.MediaBackend {
	case BackendDisk:
		if c.MediaRoot == "" {
			return fmt.Errorf("media root is required for the disk backend")
		}
	case BackendCloudinary:
		if c.CloudinaryURL == "" {
			return fmt.Errorf("cloudinary url is required for the cloudinary backend")
		}
	default:
		return fmt.Errorf("unknown media backend %q", c.MediaBackend)
	}
	return nil
}
