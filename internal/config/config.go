package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds all configuration for the content service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Site     SiteConfig     `yaml:"site"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Research ResearchConfig `yaml:"research"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `yaml:"port" env:"CONTENT_PORT"`
	Debug           bool          `yaml:"debug" env:"CONTENT_DEBUG"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SiteConfig holds the static organizational facts interpolated into
// SEO metadata and structured data.
type SiteConfig struct {
	Name         string `yaml:"name" env:"SITE_NAME"`
	BaseURL      string `yaml:"base_url" env:"SITE_BASE_URL"`
	Organization string `yaml:"organization"`
	LogoURL      string `yaml:"logo_url"`
}

// RedisConfig holds Redis connection configuration for the profile store.
type RedisConfig struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

// DatabaseConfig holds PostgreSQL configuration for consultation history.
// When Host is empty the service runs with the in-memory demo repository.
type DatabaseConfig struct {
	Host            string        `yaml:"host" env:"DATABASE_HOST"`
	Port            int           `yaml:"port" env:"DATABASE_PORT"`
	User            string        `yaml:"user" env:"DATABASE_USER"`
	Password        string        `yaml:"password" env:"DATABASE_PASSWORD"`
	Database        string        `yaml:"database" env:"DATABASE_NAME"`
	SSLMode         string        `yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Enabled reports whether a database host has been configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// ResearchConfig holds configuration for the outbound medical research endpoint.
type ResearchConfig struct {
	URL        string        `yaml:"url" env:"RESEARCH_URL"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// AuthConfig holds JWT validation configuration.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins" env:"CORS_ORIGINS"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// ErrMissingBaseURL is returned when the site base URL is not configured.
var ErrMissingBaseURL = errors.New("site base_url is required")

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := LoadFileWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// Validate checks that required fields are present and well-formed.
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		return fmt.Errorf("site base_url must be an absolute URL, got %q", c.Site.BaseURL)
	}
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("service port out of range: %d", c.Service.Port)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "content-service"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8094
	}
	if cfg.Service.ReadTimeout == 0 {
		cfg.Service.ReadTimeout = 30 * time.Second
	}
	if cfg.Service.WriteTimeout == 0 {
		cfg.Service.WriteTimeout = 60 * time.Second
	}
	if cfg.Service.IdleTimeout == 0 {
		cfg.Service.IdleTimeout = 120 * time.Second
	}
	if cfg.Service.ShutdownTimeout == 0 {
		cfg.Service.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Site.Name == "" {
		cfg.Site.Name = "ClinicFlow"
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "https://clinicflow.ca"
	}
	if cfg.Site.Organization == "" {
		cfg.Site.Organization = "ClinicFlow Inc."
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}

	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConnections == 0 {
		cfg.Database.MaxConnections = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5 * time.Minute
	}

	if cfg.Research.Timeout == 0 {
		cfg.Research.Timeout = 20 * time.Second
	}
	if cfg.Research.MaxRetries == 0 {
		cfg.Research.MaxRetries = 2
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
