package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/config"
	"time-tracker-gateway/internal/credentials"
	apperrors "time-tracker-gateway/internal/errors"
	"time-tracker-gateway/internal/gateway"
	"time-tracker-gateway/internal/httpapi"
	"time-tracker-gateway/internal/logging"
	"time-tracker-gateway/internal/repository/hasura"
	"time-tracker-gateway/internal/repository/sqlite"
	"time-tracker-gateway/internal/services"
	"time-tracker-gateway/internal/session"
)

// runtime builds the server stack and the client session from configuration
type runtime struct {
	// listen is replaced in tests to learn the bound address.
	listen func(network, addr string) (net.Listener, error)
	// ready, when set, receives the address the server is listening on.
	ready func(addr string)
}

func newRuntime() *runtime {
	return &runtime{listen: net.Listen}
}

func (rt *runtime) logger(cfg *config.Config) *logrus.Logger {
	logger := logging.New(cfg.Logging)
	if cfg.Application.Verbose && logger.GetLevel() < logrus.DebugLevel {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// newHandler wires repository, services and router over the gateway client.
func newHandler(cfg *config.Config, client *gateway.Client, resolver *credentials.Resolver, logger logrus.FieldLogger) http.Handler {
	repo := hasura.New(client, resolver)
	svc := services.NewServiceContainer(repo, nil)
	return httpapi.NewHandler(svc, logger, httpapi.Options{MaxBodyBytes: cfg.Server.MaxBodyBytes})
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to the shutdown timeout.
func (rt *runtime) Serve(ctx context.Context, cfg *config.Config) error {
	logger := rt.logger(cfg)

	// Gateway calls are bounded only by the inbound request's context.
	client := gateway.NewClient(cfg.Gateway.URL, &http.Client{}, logger)
	resolver := credentials.NewResolver(cfg.Gateway.AdminSecret, nil)

	if client.Endpoint() == "" {
		logger.Warn("NHOST_GRAPHQL_URL is not set; requests that reach the gateway will fail")
	}
	if !resolver.HasAdminSecret() {
		logger.Warn("NHOST_ADMIN_SECRET is not set; gateway requests are sent without credentials")
	}

	listener, err := rt.listen("tcp", cfg.Server.Addr)
	if err != nil {
		return apperrors.NewConfigurationError("server.addr", err.Error())
	}

	srv := &http.Server{
		Handler:           newHandler(cfg, client, resolver, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	addr := listener.Addr().String()
	logger.WithField("addr", addr).Info("tt server listening")
	if rt.ready != nil {
		rt.ready(addr)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// OpenAPI opens the session database and returns a client API over it. The
// returned function closes the database.
func (rt *runtime) OpenAPI(ctx context.Context, cfg *config.Config) (api.API, func() error, error) {
	logger := rt.logger(cfg)
	if !cfg.Application.Verbose && !logging.DebugEnabled() && logger.GetLevel() > logrus.WarnLevel {
		logger.SetLevel(logrus.WarnLevel)
	}

	if err := os.MkdirAll(cfg.Session.Dir, os.FileMode(cfg.Session.DirPermissions)); err != nil {
		return nil, nil, apperrors.NewDatabaseError("create session directory", err)
	}

	store, err := sqlite.New(cfg.GetSessionPath())
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.Open(ctx, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Application.Timeout}
	gw := gateway.NewClient(cfg.GetClientGraphQLURL(), httpClient, logger)
	return api.NewHTTPAPI(cfg.Client.APIURL, httpClient, sess, gw, logger), store.Close, nil
}
