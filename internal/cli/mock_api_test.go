package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/config"
	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/errors"
	"time-tracker-gateway/internal/gateway"
	"time-tracker-gateway/internal/session"
)

// mockAPI implements api.API in memory for testing
type mockAPI struct {
	profiles  map[string]string // name -> password
	profile   *domain.Profile
	token     string
	claims    *session.Claims
	tasks     []domain.Task
	nextID    int
	err       error
	calls     []string
	lastPatch domain.TaskPatch
	lastQuery string
	lastVars  map[string]any
	envelope  *gateway.Envelope
}

var _ api.API = (*mockAPI)(nil)

func newMockAPI() *mockAPI {
	return &mockAPI{profiles: map[string]string{"alice": "pw"}}
}

func (m *mockAPI) record(name string) error {
	m.calls = append(m.calls, name)
	return m.err
}

func (m *mockAPI) requireProfile() error {
	if m.profile == nil {
		return errors.NewAuthError("not logged in; run 'tt login' first")
	}
	return nil
}

func (m *mockAPI) findTask(id string) int {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// addTask seeds a task, newest first like the server listing.
func (m *mockAPI) addTask(title string, logs ...domain.TimeLog) string {
	m.nextID++
	id := fmt.Sprintf("t%d", m.nextID)
	m.tasks = append([]domain.Task{{ID: id, Title: title, Status: "todo", TimeLogs: logs}}, m.tasks...)
	return id
}

func (m *mockAPI) Login(ctx context.Context, name, password string) (*domain.Profile, error) {
	if err := m.record("Login"); err != nil {
		return nil, err
	}
	if name == "" || password == "" {
		return nil, errors.NewValidationError("name and password required", nil)
	}
	if m.profiles[name] != password {
		return nil, errors.NewAuthError("invalid credentials")
	}
	m.profile = &domain.Profile{ID: "u-" + name, Name: name}
	return m.profile, nil
}

func (m *mockAPI) Logout(ctx context.Context) error {
	if err := m.record("Logout"); err != nil {
		return err
	}
	m.profile = nil
	m.token = ""
	return nil
}

func (m *mockAPI) CurrentProfile() *domain.Profile {
	return m.profile
}

func (m *mockAPI) SetToken(ctx context.Context, token string) error {
	if err := m.record("SetToken"); err != nil {
		return err
	}
	m.token = token
	return nil
}

func (m *mockAPI) ClearToken(ctx context.Context) error {
	if err := m.record("ClearToken"); err != nil {
		return err
	}
	m.token = ""
	return nil
}

func (m *mockAPI) TokenClaims() (*session.Claims, error) {
	if m.token == "" {
		return nil, errors.NewAuthError("no token stored; run 'tt token set' first")
	}
	if m.claims == nil {
		return session.TokenClaims(m.token)
	}
	return m.claims, nil
}

func (m *mockAPI) ListTasks(ctx context.Context) ([]domain.Task, error) {
	if err := m.record("ListTasks"); err != nil {
		return nil, err
	}
	if err := m.requireProfile(); err != nil {
		return nil, err
	}
	return append([]domain.Task{}, m.tasks...), nil
}

func (m *mockAPI) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	if err := m.record("CreateTask"); err != nil {
		return nil, err
	}
	if err := m.requireProfile(); err != nil {
		return nil, err
	}
	m.addTask(title)
	m.tasks[0].Description = description
	task := m.tasks[0]
	return &task, nil
}

func (m *mockAPI) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := m.record("UpdateTask"); err != nil {
		return nil, err
	}
	m.lastPatch = patch
	i := m.findTask(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("task", id)
	}
	if patch.Title.Set && patch.Title.Value != nil {
		m.tasks[i].Title = *patch.Title.Value
	}
	if patch.Status.Set && patch.Status.Value != nil {
		m.tasks[i].Status = *patch.Status.Value
	}
	if patch.Description.Set {
		m.tasks[i].Description = patch.Description.Value
	}
	task := m.tasks[i]
	return &task, nil
}

func (m *mockAPI) DeleteTask(ctx context.Context, id string) (*domain.TaskRef, error) {
	if err := m.record("DeleteTask"); err != nil {
		return nil, err
	}
	i := m.findTask(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("task", id)
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return &domain.TaskRef{ID: id}, nil
}

func (m *mockAPI) StartTimer(ctx context.Context, taskID string) (*domain.TimeLog, error) {
	if err := m.record("StartTimer"); err != nil {
		return nil, err
	}
	i := m.findTask(taskID)
	if i < 0 {
		return nil, errors.NewTransportError(500, "Foreign key violation", nil, nil)
	}
	log := domain.TimeLog{ID: fmt.Sprintf("l%d", len(m.tasks[i].TimeLogs)+1), TaskID: taskID, StartTime: timeNow()}
	m.tasks[i].TimeLogs = append([]domain.TimeLog{log}, m.tasks[i].TimeLogs...)
	return &log, nil
}

func (m *mockAPI) StopTimer(ctx context.Context, taskID string) (*domain.MutationResult, error) {
	if err := m.record("StopTimer"); err != nil {
		return nil, err
	}
	result := &domain.MutationResult{}
	i := m.findTask(taskID)
	if i < 0 {
		return result, nil
	}
	now := timeNow()
	for j := range m.tasks[i].TimeLogs {
		if m.tasks[i].TimeLogs[j].IsOpen() {
			m.tasks[i].TimeLogs[j].EndTime = &now
			result.AffectedRows++
		}
	}
	return result, nil
}

func (m *mockAPI) Query(ctx context.Context, document string, variables map[string]any) (*gateway.Envelope, error) {
	if err := m.record("Query"); err != nil {
		return nil, err
	}
	m.lastQuery = document
	m.lastVars = variables
	if m.envelope != nil {
		return m.envelope, nil
	}
	return &gateway.Envelope{Data: json.RawMessage(`{"tasks":[]}`), Status: 200}, nil
}

// setupTestApp returns an app over a fresh mock writing into a buffer.
func setupTestApp(t *testing.T) (*App, *mockAPI, *bytes.Buffer) {
	t.Helper()
	mock := newMockAPI()
	out := &bytes.Buffer{}
	app := NewApp(mock, out).WithInput(strings.NewReader(""))
	return app, mock, out
}

// freezeTime pins timeNow for the duration of the test.
func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	original := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = original })
}

// stubLoader returns a fixed configuration with overrides applied.
type stubLoader struct {
	cfg       *config.Config
	overrides *config.ConfigOverrides
}

func (s *stubLoader) LoadWithOverrides(overrides *config.ConfigOverrides) (*config.Config, error) {
	s.overrides = overrides
	cfg := *s.cfg
	overrides.Apply(&cfg)
	return &cfg, nil
}

// stubRuntime hands every command the same mock.
type stubRuntime struct {
	api     *mockAPI
	openErr error
	opened  int
	closed  int
	served  *config.Config
}

func (s *stubRuntime) OpenAPI(ctx context.Context, cfg *config.Config) (api.API, func() error, error) {
	if s.openErr != nil {
		return nil, nil, s.openErr
	}
	s.opened++
	return s.api, func() error { s.closed++; return nil }, nil
}

func (s *stubRuntime) Serve(ctx context.Context, cfg *config.Config) error {
	s.served = cfg
	return nil
}

// runRoot executes the cobra tree with args and returns what it printed.
func runRoot(t *testing.T, runtime *stubRuntime, in io.Reader, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := NewRootCommand(&stubLoader{cfg: config.NewConfig()}, runtime, out)
	if in != nil {
		root.WithInput(in)
	}
	err := root.Execute(context.Background(), args)
	return out.String(), err
}
