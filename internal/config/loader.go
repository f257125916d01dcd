package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	v           *viper.Viper
	configPaths []string
}

// NewLoader creates a loader that looks for config.yaml in ~/.tt
func NewLoader() *Loader {
	return NewLoaderWithPaths(DefaultDir())
}

// NewLoaderWithPaths creates a loader that searches the given directories for
// config.yaml. No paths means environment and defaults only.
func NewLoaderWithPaths(paths ...string) *Loader {
	return &Loader{
		v:           viper.New(),
		configPaths: paths,
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the optional config file
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	defaults := NewConfig()
	l.setDefaults(defaults)

	if err := l.bindEnv(); err != nil {
		return nil, err
	}

	if len(l.configPaths) > 0 {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		for _, p := range l.configPaths {
			l.v.AddConfigPath(p)
		}
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, &ConfigError{Field: "config_file", Message: err.Error()}
			}
		}
	}

	cfg := l.build()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.Apply(config)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (l *Loader) setDefaults(d *Config) {
	l.v.SetDefault("server.addr", d.Server.Addr)
	l.v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	l.v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	l.v.SetDefault("session.dir", d.Session.Dir)
	l.v.SetDefault("session.filename", d.Session.Filename)
	l.v.SetDefault("session.dir_permissions", d.Session.DirPermissions)
	l.v.SetDefault("client.api_url", d.Client.APIURL)
	l.v.SetDefault("logging.level", d.Logging.Level)
	l.v.SetDefault("logging.format", d.Logging.Format)
	l.v.SetDefault("logging.file", d.Logging.File)
	l.v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	l.v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	l.v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	l.v.SetDefault("application.timeout", d.Application.Timeout)
	l.v.SetDefault("application.verbose", d.Application.Verbose)
}

// envBindings maps config keys to environment variables in precedence order.
var envBindings = map[string][]string{
	"gateway.url":             {"NHOST_GRAPHQL_URL", "VITE_NHOST_GRAPHQL_URL"},
	"gateway.client_url":      {"VITE_NHOST_GRAPHQL_URL", "NHOST_GRAPHQL_URL"},
	"gateway.admin_secret":    {"NHOST_ADMIN_SECRET", "HASURA_ADMIN_SECRET"},
	"server.addr":             {"TT_SERVER_ADDR"},
	"server.shutdown_timeout": {"TT_SERVER_SHUTDOWN_TIMEOUT"},
	"server.max_body_bytes":   {"TT_SERVER_MAX_BODY_BYTES"},
	"session.dir":             {"TT_SESSION_DIR"},
	"session.filename":        {"TT_SESSION_FILENAME"},
	"session.dir_permissions": {"TT_SESSION_DIR_PERMISSIONS"},
	"client.api_url":          {"TT_API_URL"},
	"logging.level":           {"TT_LOG_LEVEL"},
	"logging.format":          {"TT_LOG_FORMAT"},
	"logging.file":            {"TT_LOG_FILE"},
	"logging.max_size_mb":     {"TT_LOG_MAX_SIZE_MB"},
	"logging.max_backups":     {"TT_LOG_MAX_BACKUPS"},
	"logging.max_age_days":    {"TT_LOG_MAX_AGE_DAYS"},
	"application.timeout":     {"TT_APP_TIMEOUT"},
	"application.verbose":     {"TT_APP_VERBOSE"},
}

func (l *Loader) bindEnv() error {
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := l.v.BindEnv(args...); err != nil {
			return &ConfigError{Field: key, Message: err.Error()}
		}
	}
	return nil
}

func (l *Loader) build() *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:         l.v.GetString("gateway.url"),
			ClientURL:   l.v.GetString("gateway.client_url"),
			AdminSecret: l.v.GetString("gateway.admin_secret"),
		},
		Server: ServerConfig{
			Addr:            l.v.GetString("server.addr"),
			ShutdownTimeout: l.v.GetDuration("server.shutdown_timeout"),
			MaxBodyBytes:    l.v.GetInt64("server.max_body_bytes"),
		},
		Session: SessionConfig{
			Dir:            l.v.GetString("session.dir"),
			Filename:       l.v.GetString("session.filename"),
			DirPermissions: l.v.GetUint32("session.dir_permissions"),
		},
		Client: ClientConfig{
			APIURL: l.v.GetString("client.api_url"),
		},
		Logging: LoggingConfig{
			Level:      l.v.GetString("logging.level"),
			Format:     l.v.GetString("logging.format"),
			File:       l.v.GetString("logging.file"),
			MaxSizeMB:  l.v.GetInt("logging.max_size_mb"),
			MaxBackups: l.v.GetInt("logging.max_backups"),
			MaxAgeDays: l.v.GetInt("logging.max_age_days"),
		},
		Application: ApplicationConfig{
			Timeout: l.v.GetDuration("application.timeout"),
			Verbose: l.v.GetBool("application.verbose"),
		},
	}
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Gateway overrides
	GraphQLURL *string

	// Server overrides
	Addr *string

	// Session overrides
	SessionDir *string

	// Client overrides
	APIURL *string

	// Logging overrides
	LogLevel  *string
	LogFormat *string
	LogFile   *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
}

// Apply copies every non-nil override onto config
func (o *ConfigOverrides) Apply(config *Config) {
	if o.GraphQLURL != nil {
		config.Gateway.URL = *o.GraphQLURL
		config.Gateway.ClientURL = *o.GraphQLURL
	}
	if o.Addr != nil {
		config.Server.Addr = *o.Addr
	}
	if o.SessionDir != nil {
		config.Session.Dir = *o.SessionDir
	}
	if o.APIURL != nil {
		config.Client.APIURL = *o.APIURL
	}
	if o.LogLevel != nil {
		config.Logging.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		config.Logging.Format = *o.LogFormat
	}
	if o.LogFile != nil {
		config.Logging.File = *o.LogFile
	}
	if o.Timeout != nil {
		config.Application.Timeout = *o.Timeout
	}
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
	}
}
