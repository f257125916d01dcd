package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"time-tracker-gateway/internal/credentials"
	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/errors"
	"time-tracker-gateway/internal/gateway"
	"time-tracker-gateway/internal/logging"
	"time-tracker-gateway/internal/session"
	"time-tracker-gateway/internal/validation"
)

// HTTPAPI implements API against a running tt server.
type HTTPAPI struct {
	baseURL  string
	doer     gateway.HTTPDoer
	session  *session.Session
	gateway  *gateway.Client
	resolver *credentials.Resolver
	logger   logrus.FieldLogger
}

// NewHTTPAPI creates a client for the server at baseURL. gw is used for raw
// queries only and may have an empty endpoint.
func NewHTTPAPI(baseURL string, doer gateway.HTTPDoer, sess *session.Session, gw *gateway.Client, logger logrus.FieldLogger) *HTTPAPI {
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPAPI{
		baseURL:  strings.TrimRight(baseURL, "/"),
		doer:     doer,
		session:  sess,
		gateway:  gw,
		resolver: credentials.NewResolver("", sess),
		logger:   logger,
	}
}

type serverError struct {
	Error   json.RawMessage `json:"error"`
	Details json.RawMessage `json:"details"`
}

// message returns the error member as text whether the server sent a string
// or something structured.
func (e serverError) message() string {
	var s string
	if err := json.Unmarshal(e.Error, &s); err == nil {
		return s
	}
	return string(e.Error)
}

func (a *HTTPAPI) userID() (string, error) {
	profile := a.session.CurrentProfile()
	if profile == nil {
		return "", errors.NewAuthError("not logged in; run 'tt login' first")
	}
	return profile.ID, nil
}

// call performs one request. asUser attaches x-user-id from the session and
// fails without a network call when nobody is signed in.
func (a *HTTPAPI) call(ctx context.Context, method, path string, asUser bool, body, out any) error {
	var userID string
	if asUser {
		id, err := a.userID()
		if err != nil {
			return err
		}
		userID = id
	}
	if a.baseURL == "" {
		return errors.NewConfigurationError("client.api_url", "server URL not configured")
	}
	if a.doer == nil {
		return errors.NewEnvironmentError("no HTTP client available")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.NewValidationError("request could not be encoded", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return errors.NewConfigurationError("client.api_url", "invalid server URL: "+err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(validation.UserIDHeader, userID)
	}

	resp, err := a.doer.Do(req)
	if err != nil {
		return errors.NewTransportError(0, "server request failed", nil, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewTransportError(resp.StatusCode, "reading server response failed", nil, err)
	}

	a.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
		"rid":    resp.Header.Get("X-Request-Id"),
	}).Debug("server round trip")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewTransportError(resp.StatusCode, "server response is not valid JSON", raw, err)
	}
	return nil
}

// statusError maps a failed response back onto the error taxonomy.
func statusError(status int, raw []byte) error {
	var body serverError
	message := http.StatusText(status)
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Error) > 0 {
		message = body.message()
	}

	switch status {
	case http.StatusBadRequest:
		return errors.NewValidationError(message, nil)
	case http.StatusUnauthorized:
		return errors.NewAuthError(message)
	case http.StatusNotFound:
		return errors.WrapError(nil, errors.ErrorTypeNotFound, message)
	}

	appErr := errors.NewTransportError(status, message, raw, nil)
	if len(body.Details) > 0 {
		var details []gateway.GraphQLError
		if err := json.Unmarshal(body.Details, &details); err == nil {
			appErr.WithContext(errors.ContextGraphQLErrors, details)
		}
	}
	return appErr
}

// Login checks the credentials with the server and stores the profile.
func (a *HTTPAPI) Login(ctx context.Context, name, password string) (*domain.Profile, error) {
	var out struct {
		Profile *domain.Profile `json:"profile"`
	}
	body := map[string]string{"name": name, "password": password}
	if err := a.call(ctx, http.MethodPost, "/api/login", false, body, &out); err != nil {
		return nil, err
	}
	if out.Profile == nil {
		return nil, errors.NewAuthError("invalid credentials")
	}
	if err := a.session.SetProfile(ctx, *out.Profile); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// Logout forgets the profile and the token.
func (a *HTTPAPI) Logout(ctx context.Context) error {
	if err := a.session.ClearProfile(ctx); err != nil {
		return err
	}
	return a.session.ClearToken(ctx)
}

// CurrentProfile returns the signed-in profile, or nil.
func (a *HTTPAPI) CurrentProfile() *domain.Profile {
	return a.session.CurrentProfile()
}

// SetToken stores the bearer token used by Query.
func (a *HTTPAPI) SetToken(ctx context.Context, token string) error {
	return a.session.SetToken(ctx, token)
}

// ClearToken removes the bearer token.
func (a *HTTPAPI) ClearToken(ctx context.Context) error {
	return a.session.ClearToken(ctx)
}

// TokenClaims decodes the stored token.
func (a *HTTPAPI) TokenClaims() (*session.Claims, error) {
	token, ok := a.session.Token()
	if !ok {
		return nil, errors.NewAuthError("no token stored; run 'tt token set' first")
	}
	return session.TokenClaims(token)
}

func (a *HTTPAPI) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var out struct {
		Tasks []domain.Task `json:"tasks"`
	}
	if err := a.call(ctx, http.MethodGet, "/api/tasks", true, nil, &out); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []domain.Task{}
	}
	return out.Tasks, nil
}

func (a *HTTPAPI) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	var out struct {
		Task *domain.Task `json:"task"`
	}
	body := struct {
		Title       string  `json:"title"`
		Description *string `json:"description,omitempty"`
	}{title, description}
	if err := a.call(ctx, http.MethodPost, "/api/tasks", true, body, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

// UpdateTask sends only the fields set in patch.
func (a *HTTPAPI) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var out struct {
		Task *domain.Task `json:"task"`
	}
	if err := a.call(ctx, http.MethodPut, taskPath(id, ""), true, patch.Fields(), &out); err != nil {
		return nil, err
	}
	if out.Task == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	return out.Task, nil
}

func (a *HTTPAPI) DeleteTask(ctx context.Context, id string) (*domain.TaskRef, error) {
	var out struct {
		Deleted *domain.TaskRef `json:"deleted"`
	}
	if err := a.call(ctx, http.MethodDelete, taskPath(id, ""), true, nil, &out); err != nil {
		return nil, err
	}
	if out.Deleted == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	return out.Deleted, nil
}

func (a *HTTPAPI) StartTimer(ctx context.Context, taskID string) (*domain.TimeLog, error) {
	var out struct {
		TimeLog *domain.TimeLog `json:"time_log"`
	}
	if err := a.call(ctx, http.MethodPost, taskPath(taskID, "/start"), true, nil, &out); err != nil {
		return nil, err
	}
	return out.TimeLog, nil
}

func (a *HTTPAPI) StopTimer(ctx context.Context, taskID string) (*domain.MutationResult, error) {
	var out struct {
		Result *domain.MutationResult `json:"result"`
	}
	if err := a.call(ctx, http.MethodPost, taskPath(taskID, "/stop"), true, nil, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		out.Result = &domain.MutationResult{}
	}
	return out.Result, nil
}

// Query returns the envelope as the gateway sent it, GraphQL errors included.
func (a *HTTPAPI) Query(ctx context.Context, document string, variables map[string]any) (*gateway.Envelope, error) {
	if a.gateway == nil {
		return nil, errors.NewConfigurationError("gateway.client_url", "GraphQL URL not configured")
	}
	var vars any
	if variables != nil {
		vars = variables
	}
	return a.gateway.Send(ctx, gateway.Request{Query: document, Variables: vars}, a.resolver.ForClient())
}

func taskPath(id, suffix string) string {
	return "/api/tasks/" + url.PathEscape(id) + suffix
}
