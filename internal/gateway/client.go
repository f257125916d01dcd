// Package gateway posts GraphQL documents to the hosted backend and decodes
// the response envelope. It performs exactly one round trip per call and never
// retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/errors"
)

// AdminSecretHeader carries the privileged credential.
const AdminSecretHeader = "x-hasura-admin-secret"

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Validator is implemented by typed variable sets that check themselves before
// being serialized.
type Validator interface {
	Validate() error
}

// Client sends documents to a single endpoint.
type Client struct {
	endpoint string
	doer     HTTPDoer
	logger   logrus.FieldLogger
}

// NewClient creates a client. An empty endpoint or nil doer is accepted here
// and reported by Send.
func NewClient(endpoint string, doer HTTPDoer, logger logrus.FieldLogger) *Client {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Client{
		endpoint: endpoint,
		doer:     doer,
		logger:   logger,
	}
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts req with the given credential and returns the decoded envelope.
// A 2xx response is returned as-is even when it carries GraphQL errors; a
// non-2xx response becomes a transport error.
func (c *Client) Send(ctx context.Context, req Request, cred domain.Credential) (*Envelope, error) {
	if c.endpoint == "" {
		return nil, errors.NewConfigurationError("gateway.url", "GraphQL URL not configured")
	}
	if c.doer == nil {
		return nil, errors.NewEnvironmentError("no HTTP client available")
	}

	op, err := ParseOperation(req.Query)
	if err != nil {
		return nil, err
	}

	if v, ok := req.Variables.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	variables := req.Variables
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(Request{Query: req.Query, Variables: variables})
	if err != nil {
		return nil, errors.NewValidationError("GraphQL variables could not be encoded", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewConfigurationError("gateway.url", fmt.Sprintf("invalid GraphQL URL: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	applyCredential(httpReq.Header, cred)

	log := c.logger.WithFields(logrus.Fields{
		"operation":  op.Name,
		"kind":       op.Kind,
		"credential": cred.String(),
	})

	start := time.Now()
	resp, err := c.doer.Do(httpReq)
	if err != nil {
		log.WithError(err).Warn("graphql request failed")
		return nil, errors.NewTransportError(0, "GraphQL request failed", nil, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError(resp.StatusCode, "reading GraphQL response failed", nil, err)
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("graphql round trip")

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)
	env.Status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := http.StatusText(resp.StatusCode)
		if decodeErr == nil && env.FirstMessage() != "" {
			message = env.FirstMessage()
		}
		appErr := errors.NewTransportError(resp.StatusCode, message, raw, nil)
		if decodeErr == nil && env.HasErrors() {
			appErr.WithContext(errors.ContextGraphQLErrors, env.Errors)
		}
		return nil, appErr
	}

	if decodeErr != nil {
		return nil, errors.NewTransportError(resp.StatusCode, "GraphQL response is not valid JSON", raw, decodeErr)
	}

	return &env, nil
}

// Execute sends req and decodes the data member into out. GraphQL errors and a
// missing data member are reported as transport errors.
func (c *Client) Execute(ctx context.Context, req Request, cred domain.Credential, out any) error {
	env, err := c.Send(ctx, req, cred)
	if err != nil {
		return err
	}

	if env.HasErrors() {
		return errors.NewTransportError(env.Status, env.FirstMessage(), nil, nil).
			WithContext(errors.ContextGraphQLErrors, env.Errors)
	}
	if !env.HasData() {
		return errors.NewTransportError(env.Status, "GraphQL response contained no data", nil, nil)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.NewTransportError(env.Status, "GraphQL data has an unexpected shape", env.Data, err)
	}
	return nil
}

func applyCredential(h http.Header, cred domain.Credential) {
	if cred.IsZero() {
		return
	}
	switch cred.Kind {
	case domain.CredentialBearer:
		h.Set("Authorization", "Bearer "+cred.Value)
	case domain.CredentialAdmin:
		h.Set(AdminSecretHeader, cred.Value)
	}
}
