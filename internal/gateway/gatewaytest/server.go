// Package gatewaytest runs an in-memory GraphQL backend shaped like the hosted
// Hasura schema (profiles, tasks, time_logs). Documents are parsed, validated
// and executed by graphql-go, so a typo in a document fails here the same way
// it would against the real service.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// Request is one recorded call.
type Request struct {
	Operation string
	Query     string
	Variables map[string]any
	RawBody   []byte
	Header    http.Header
}

type failure struct {
	status int
	body   string
}

// Server is a fake GraphQL endpoint. All methods are safe for concurrent use.
type Server struct {
	URL string

	srv    *httptest.Server
	schema graphql.Schema

	mu          sync.Mutex
	profiles    []row
	tasks       []row
	timeLogs    []row
	requests    []Request
	fail        *failure
	adminSecret string
	clock       time.Time
}

type row = map[string]any

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		clock: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	schema, err := s.buildSchema()
	if err != nil {
		t.Fatalf("gatewaytest: build schema: %v", err)
	}
	s.schema = schema
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Client returns an HTTP client wired to the server.
func (s *Server) Client() *http.Client {
	return s.srv.Client()
}

// RequireAdminSecret rejects requests whose admin header does not match.
func (s *Server) RequireAdminSecret(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminSecret = secret
}

// FailWith makes every following request answer with status and body.
func (s *Server) FailWith(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = &failure{status: status, body: body}
}

// Recover undoes FailWith.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = nil
}

// AddProfile seeds a profile and returns its id.
func (s *Server) AddProfile(name, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.profiles = append(s.profiles, row{"id": id, "name": name, "password": password})
	return id
}

// AddTask seeds a task and returns its id.
func (s *Server) AddTask(userID, title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertTask(userID, title, nil)["id"].(string)
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or false if none was made.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// RequestCount returns how many requests reached the server.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// OpenTimeLogs counts logs without an end time for the pair.
func (s *Server) OpenTimeLogs(taskID, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.timeLogs {
		if l["task_id"] == taskID && l["user_id"] == userID && l["end_time"] == nil {
			n++
		}
	}
	return n
}

// Task returns a copy of the stored task row.
func (s *Server) Task(id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t["id"] == id {
			cp := make(map[string]any, len(t))
			for k, v := range t {
				cp[k] = v
			}
			return cp, true
		}
	}
	return nil, false
}

type graphQLBody struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw json.RawMessage
	_ = json.NewDecoder(r.Body).Decode(&raw)
	var body graphQLBody
	_ = json.Unmarshal(raw, &body)

	s.requests = append(s.requests, Request{
		Operation: operationName(body.Query),
		Query:     body.Query,
		Variables: body.Variables,
		RawBody:   raw,
		Header:    r.Header.Clone(),
	})

	w.Header().Set("Content-Type", "application/json")

	if s.fail != nil {
		w.WriteHeader(s.fail.status)
		_, _ = w.Write([]byte(s.fail.body))
		return
	}

	if r.Method != http.MethodPost {
		writeErrors(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}
	if s.adminSecret != "" && r.Header.Get("x-hasura-admin-secret") != s.adminSecret {
		writeErrors(w, http.StatusUnauthorized, "invalid x-hasura-admin-secret/x-hasura-access-key")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
		OperationName:  body.OperationName,
		Context:        r.Context(),
	})
	_ = json.NewEncoder(w).Encode(result)
}

func writeErrors(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{"message": message}},
	})
}

func operationName(document string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: document})
	if err != nil {
		return ""
	}
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok && op.Name != nil {
			return op.Name.Value
		}
	}
	return ""
}

// tick returns a strictly increasing timestamp so ordering is deterministic.
func (s *Server) tick() string {
	s.clock = s.clock.Add(time.Second)
	return s.clock.Format("2006-01-02T15:04:05.000Z07:00")
}

func (s *Server) insertTask(userID, title string, description any) row {
	now := s.tick()
	t := row{
		"id":          uuid.NewString(),
		"user_id":     userID,
		"title":       title,
		"description": description,
		"status":      "todo",
		"created_at":  now,
		"updated_at":  now,
	}
	s.tasks = append(s.tasks, t)
	return t
}
