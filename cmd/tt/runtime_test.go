package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-tracker-gateway/internal/config"
	"time-tracker-gateway/internal/errors"
	"time-tracker-gateway/internal/gateway/gatewaytest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Session.Dir = filepath.Join(t.TempDir(), "session")
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Logging.Level = "error"
	cfg.Application.Timeout = 5 * time.Second
	return cfg
}

// startServer runs Serve in the background and returns its base URL.
func startServer(t *testing.T, cfg *config.Config) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	addrCh := make(chan string, 1)
	rt := newRuntime()
	rt.ready = func(addr string) { addrCh <- addr }

	done := make(chan error, 1)
	go func() { done <- rt.Serve(ctx, cfg) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})

	select {
	case addr := <-addrCh:
		return "http://" + addr
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	return ""
}

func TestRuntime_ServeForwardsToGateway(t *testing.T) {
	backend := gatewaytest.NewServer(t)
	backend.RequireAdminSecret("secret")
	backend.AddProfile("alice", "pw")

	cfg := testConfig(t)
	cfg.Gateway.URL = backend.URL
	cfg.Gateway.AdminSecret = "secret"
	baseURL := startServer(t, cfg)

	resp, err := http.Get(baseURL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(baseURL+"/api/login", "application/json", strings.NewReader(`{"name":"alice","password":"pw"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alice", body.Profile.Name)
}

func TestRuntime_ServeWithoutGatewayURL(t *testing.T) {
	baseURL := startServer(t, testConfig(t))

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("x-user-id", "u1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "GraphQL URL not configured", body["error"])
}

func TestRuntime_ServeWaitsForSlowGateway(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(400 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"tasks":[]}}`))
	}))
	t.Cleanup(backend.Close)

	cfg := testConfig(t)
	cfg.Gateway.URL = backend.URL
	// The command timeout belongs to the CLI client and must not cut off
	// server-side gateway calls.
	cfg.Application.Timeout = 100 * time.Millisecond
	baseURL := startServer(t, cfg)

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("x-user-id", "u1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Tasks []map[string]any `json:"tasks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Tasks)
	assert.Empty(t, body.Tasks)
}

func TestRuntime_ServeBadAddress(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Addr = "not-an-address"

	err := newRuntime().Serve(context.Background(), cfg)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConfiguration))
}

func TestRuntime_OpenAPIPersistsSession(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	rt := newRuntime()

	client, closeFn, err := rt.OpenAPI(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, client.CurrentProfile())

	_, err = client.ListTasks(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeAuth))

	require.NoError(t, client.SetToken(ctx, "stored-token"))
	require.NoError(t, closeFn())

	_, err = os.Stat(cfg.GetSessionPath())
	require.NoError(t, err)

	reopened, closeFn, err := rt.OpenAPI(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()

	// The token survived the restart; it is just not a JWT.
	_, err = reopened.TokenClaims()
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}
