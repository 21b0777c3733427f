package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Media backends.
const (
	MediaBackendLocal  = "local"
	MediaBackendRemote = "remote"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Database DatabaseConfig    `yaml:"database"`
	Media    MediaConfig       `yaml:"media"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Media.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatabaseConfig holds the posts database configuration. DSN is typically
// set through the environment (config values are env-expanded), e.g.
// dsn: ${DATABASE_URL}.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In("sqlite3", "postgres")),
		validation.Field(&c.DSN, validation.Required),
	)
}

// MediaConfig selects and configures the image storage backend.
//
// Backend controls where post images live:
//   - "local" (default): files under Root, served by this process.
//   - "remote": uploaded to an external image service; Endpoint must be set.
type MediaConfig struct {
	Backend  string `yaml:"backend"`
	Root     string `yaml:"root"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	MaxWidth int    `yaml:"max_width"`
}

// Validate validates the media configuration.
func (c *MediaConfig) Validate() error {
	// An empty backend means local.
	if c.Backend == "" {
		c.Backend = MediaBackendLocal
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(MediaBackendLocal, MediaBackendRemote)),
		validation.Field(&c.MaxWidth, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Backend == MediaBackendLocal && c.Root == "" {
		return fmt.Errorf("media: backend is %q but root is empty", MediaBackendLocal)
	}
	if c.Backend == MediaBackendRemote && c.Endpoint == "" {
		return fmt.Errorf("media: backend is %q but endpoint is empty", MediaBackendRemote)
	}
	return nil
}

// AuthConfig holds the shared login secret. There is no per-user identity:
// one secret gates the whole board. Usually supplied via the environment,
// e.g. secret: ${BOARD_SECRET}.
type AuthConfig struct {
	Secret string `yaml:"secret"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Secret, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "./board.db",
		},
		Media: MediaConfig{
			Backend: MediaBackendLocal,
			Root:    "./uploads",
		},
	}
}
