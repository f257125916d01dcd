// Package httpapi exposes the task and time-log services over HTTP. Every
// request is answered with JSON; failures carry an "error" member and, when
// the backend reported GraphQL errors, a "details" member.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"time-tracker-gateway/internal/logging"
	"time-tracker-gateway/internal/services"
	"time-tracker-gateway/internal/validation"
)

// Options tunes the handler. Zero values are replaced by defaults.
type Options struct {
	MaxBodyBytes int64
}

// Handler serves the /api routes.
type Handler struct {
	services     *services.ServiceContainer
	logger       logrus.FieldLogger
	maxBodyBytes int64
	router       *mux.Router
}

// NewHandler wires the services into a handler
func NewHandler(svc *services.ServiceContainer, logger logrus.FieldLogger, opts Options) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	h := &Handler{
		services:     svc,
		logger:       logger,
		maxBodyBytes: opts.MaxBodyBytes,
	}
	h.router = h.routes()
	return h
}

// Router returns the mux router with middleware and routes attached.
func (h *Handler) Router() *mux.Router {
	return h.router
}

func (h *Handler) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware, requestIDMiddleware, h.accessLogMiddleware, h.recoverMiddleware)

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", h.login).Methods(http.MethodPost, http.MethodOptions)

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(requireUser)
	tasks.HandleFunc("", h.listTasks).Methods(http.MethodGet, http.MethodOptions)
	tasks.HandleFunc("", h.createTask).Methods(http.MethodPost, http.MethodOptions)
	tasks.HandleFunc("/{id}", h.updateTask).Methods(http.MethodPut, http.MethodOptions)
	tasks.HandleFunc("/{id}", h.deleteTask).Methods(http.MethodDelete, http.MethodOptions)
	tasks.HandleFunc("/{id}/start", h.startTimer).Methods(http.MethodPost, http.MethodOptions)
	tasks.HandleFunc("/{id}/stop", h.stopTimer).Methods(http.MethodPost, http.MethodOptions)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})
	return r
}

// ServeHTTP lets the handler be mounted directly.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID reads the trusted acting-user header.
func userID(r *http.Request) string {
	return r.Header.Get(validation.UserIDHeader)
}

func taskID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
