package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearGatewayEnv unsets every variable the loader reads so host settings do
// not leak into assertions.
func clearGatewayEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, name := range envs {
			t.Setenv(name, "")
		}
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "session.db", cfg.Session.Filename)
	assert.Equal(t, "http://localhost:8080", cfg.Client.APIURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 60*time.Second, cfg.Application.Timeout)
	assert.Empty(t, cfg.Gateway.URL)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "server.max_body_bytes"},
		{"missing session dir", func(c *Config) { c.Session.Dir = "" }, "session.dir"},
		{"missing session filename", func(c *Config) { c.Session.Filename = "" }, "session.filename"},
		{"missing api url", func(c *Config) { c.Client.APIURL = "" }, "client.api_url"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb"},
		{"zero timeout", func(c *Config) { c.Application.Timeout = 0 }, "application.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			configErr, ok := err.(*ConfigError)
			require.True(t, ok)
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestConfig_ValidateAllowsMissingGatewayURL(t *testing.T) {
	cfg := NewConfig()
	cfg.Gateway.URL = ""
	cfg.Gateway.AdminSecret = ""

	assert.NoError(t, cfg.Validate())
}

func TestConfig_GetSessionPath(t *testing.T) {
	cfg := NewConfig()
	cfg.Session.Dir = "/tmp/tt"
	cfg.Session.Filename = "s.db"

	assert.Equal(t, filepath.Join("/tmp/tt", "s.db"), cfg.GetSessionPath())
}

func TestConfig_GetClientGraphQLURL(t *testing.T) {
	cfg := NewConfig()
	cfg.Gateway.URL = "https://server.example/v1/graphql"
	assert.Equal(t, "https://server.example/v1/graphql", cfg.GetClientGraphQLURL())

	cfg.Gateway.ClientURL = "https://client.example/v1/graphql"
	assert.Equal(t, "https://client.example/v1/graphql", cfg.GetClientGraphQLURL())
}

func TestLoader_EnvironmentFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		url         string
		clientURL   string
		adminSecret string
	}{
		{
			name:        "nothing set",
			env:         map[string]string{},
			url:         "",
			clientURL:   "",
			adminSecret: "",
		},
		{
			name: "primary names",
			env: map[string]string{
				"NHOST_GRAPHQL_URL":  "https://primary/v1/graphql",
				"NHOST_ADMIN_SECRET": "primary-secret",
			},
			url:         "https://primary/v1/graphql",
			clientURL:   "https://primary/v1/graphql",
			adminSecret: "primary-secret",
		},
		{
			name: "fallback names",
			env: map[string]string{
				"VITE_NHOST_GRAPHQL_URL": "https://fallback/v1/graphql",
				"HASURA_ADMIN_SECRET":    "fallback-secret",
			},
			url:         "https://fallback/v1/graphql",
			clientURL:   "https://fallback/v1/graphql",
			adminSecret: "fallback-secret",
		},
		{
			name: "server and client prefer different names",
			env: map[string]string{
				"NHOST_GRAPHQL_URL":      "https://server/v1/graphql",
				"VITE_NHOST_GRAPHQL_URL": "https://client/v1/graphql",
				"NHOST_ADMIN_SECRET":     "primary-secret",
				"HASURA_ADMIN_SECRET":    "fallback-secret",
			},
			url:         "https://server/v1/graphql",
			clientURL:   "https://client/v1/graphql",
			adminSecret: "primary-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearGatewayEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := NewLoaderWithPaths().Load()
			require.NoError(t, err)
			assert.Equal(t, tt.url, cfg.Gateway.URL)
			assert.Equal(t, tt.clientURL, cfg.Gateway.ClientURL)
			assert.Equal(t, tt.adminSecret, cfg.Gateway.AdminSecret)
		})
	}
}

func TestLoader_TypedEnvironment(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("TT_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("TT_APP_TIMEOUT", "15s")
	t.Setenv("TT_APP_VERBOSE", "true")
	t.Setenv("TT_LOG_FORMAT", "json")

	cfg, err := NewLoaderWithPaths().Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Application.Timeout)
	assert.True(t, cfg.Application.Verbose)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoader_InvalidEnvironmentFailsValidation(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("TT_LOG_FORMAT", "xml")

	_, err := NewLoaderWithPaths().Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestLoader_ConfigFile(t *testing.T) {
	clearGatewayEnv(t)
	dir := t.TempDir()
	content := "gateway:\n  url: https://file/v1/graphql\nclient:\n  api_url: http://file:8080\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := NewLoaderWithPaths(dir).Load()
		require.NoError(t, err)
		assert.Equal(t, "https://file/v1/graphql", cfg.Gateway.URL)
		assert.Equal(t, "http://file:8080", cfg.Client.APIURL)
	})

	t.Run("environment beats file", func(t *testing.T) {
		t.Setenv("NHOST_GRAPHQL_URL", "https://env/v1/graphql")

		cfg, err := NewLoaderWithPaths(dir).Load()
		require.NoError(t, err)
		assert.Equal(t, "https://env/v1/graphql", cfg.Gateway.URL)
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		cfg, err := NewLoaderWithPaths(t.TempDir()).Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.Gateway.URL)
	})
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("TT_API_URL", "http://env:8080")

	apiURL := "http://flag:9090"
	timeout := 5 * time.Second
	graphqlURL := "https://flag/v1/graphql"

	cfg, err := NewLoaderWithPaths().LoadWithOverrides(&ConfigOverrides{
		APIURL:     &apiURL,
		Timeout:    &timeout,
		GraphQLURL: &graphqlURL,
	})
	require.NoError(t, err)
	assert.Equal(t, apiURL, cfg.Client.APIURL)
	assert.Equal(t, timeout, cfg.Application.Timeout)
	assert.Equal(t, graphqlURL, cfg.Gateway.URL)
	assert.Equal(t, graphqlURL, cfg.Gateway.ClientURL)

	empty := ""
	_, err = NewLoaderWithPaths().LoadWithOverrides(&ConfigOverrides{Addr: &empty})
	assert.Error(t, err)
}
