package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for the gateway server and the tt client
type Config struct {
	Gateway     GatewayConfig
	Server      ServerConfig
	Session     SessionConfig
	Client      ClientConfig
	Logging     LoggingConfig
	Application ApplicationConfig
}

// GatewayConfig describes the hosted GraphQL endpoint.
type GatewayConfig struct {
	// URL is used by the server. An empty value is tolerated here and reported
	// when a request actually needs the endpoint.
	URL string `env:"NHOST_GRAPHQL_URL"`
	// ClientURL is used by client-side queries that go straight to the gateway.
	ClientURL   string `env:"VITE_NHOST_GRAPHQL_URL"`
	AdminSecret string `env:"NHOST_ADMIN_SECRET"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string        `env:"TT_SERVER_ADDR"`
	ShutdownTimeout time.Duration `env:"TT_SERVER_SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `env:"TT_SERVER_MAX_BODY_BYTES"`
}

// SessionConfig locates the local session database
type SessionConfig struct {
	Dir            string `env:"TT_SESSION_DIR"`
	Filename       string `env:"TT_SESSION_FILENAME"`
	DirPermissions uint32 `env:"TT_SESSION_DIR_PERMISSIONS"`
}

// ClientConfig holds settings for the tt client commands
type ClientConfig struct {
	APIURL string `env:"TT_API_URL"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level      string `env:"TT_LOG_LEVEL"`
	Format     string `env:"TT_LOG_FORMAT"`
	File       string `env:"TT_LOG_FILE"`
	MaxSizeMB  int    `env:"TT_LOG_MAX_SIZE_MB"`
	MaxBackups int    `env:"TT_LOG_MAX_BACKUPS"`
	MaxAgeDays int    `env:"TT_LOG_MAX_AGE_DAYS"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TT_APP_TIMEOUT"`
	Verbose bool          `env:"TT_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Session: SessionConfig{
			Dir:            DefaultDir(),
			Filename:       "session.db",
			DirPermissions: 0700,
		},
		Client: ClientConfig{
			APIURL: "http://localhost:8080",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// DefaultDir returns ~/.tt, falling back to the working directory.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tt"
	}
	return filepath.Join(homeDir, ".tt")
}

// GetSessionPath returns the full path to the session database file
func (c *Config) GetSessionPath() string {
	return filepath.Join(c.Session.Dir, c.Session.Filename)
}

// GetClientGraphQLURL returns the endpoint used for direct client queries.
func (c *Config) GetClientGraphQLURL() string {
	if c.Gateway.ClientURL != "" {
		return c.Gateway.ClientURL
	}
	return c.Gateway.URL
}

// Validate validates the configuration and returns any errors.
// The gateway URL is deliberately not checked.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}
	if c.Server.MaxBodyBytes <= 0 {
		return &ConfigError{Field: "server.max_body_bytes", Message: "max body size must be positive"}
	}

	if c.Session.Dir == "" {
		return &ConfigError{Field: "session.dir", Message: "session directory cannot be empty"}
	}
	if c.Session.Filename == "" {
		return &ConfigError{Field: "session.filename", Message: "session filename cannot be empty"}
	}

	if c.Client.APIURL == "" {
		return &ConfigError{Field: "client.api_url", Message: "API URL cannot be empty"}
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "log format must be text or json"}
	}
	if c.Logging.MaxSizeMB <= 0 {
		return &ConfigError{Field: "logging.max_size_mb", Message: "log max size must be positive"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
