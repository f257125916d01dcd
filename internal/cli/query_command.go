package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/errors"
)

// QueryCommand sends a raw GraphQL document straight to the gateway
type QueryCommand struct {
	app          *App
	api          api.API
	vars         []string
	errorHandler *ErrorHandler
}

// NewQueryCommand creates a query handler. vars are "name=value" pairs.
func NewQueryCommand(app *App, vars []string) *QueryCommand {
	return &QueryCommand{app: app, api: app.api, vars: vars, errorHandler: NewErrorHandler()}
}

// Execute runs the query command. GraphQL errors in the response are printed
// and reported as a failure.
func (c *QueryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.NewValidationError("usage: tt query DOCUMENT [--var name=value ...]", nil)
	}

	variables, err := ParseVariables(c.vars)
	if err != nil {
		return err
	}

	envelope, err := c.api.Query(ctx, args[0], variables)
	if err != nil {
		return c.errorHandler.Handle("run query", err)
	}

	if envelope.HasData() {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, envelope.Data, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(envelope.Data)
		}
		c.app.printf("%s\n", pretty.String())
	}

	if envelope.HasErrors() {
		for _, gqlErr := range envelope.Errors {
			c.app.printf("%s %s\n", c.app.styles.Warning.Render("error:"), gqlErr.Message)
		}
		return errors.NewTransportError(envelope.Status, envelope.FirstMessage(), nil, nil)
	}
	return nil
}

// ParseVariables turns name=value pairs into query variables. Values that are
// valid JSON (numbers, booleans, null, objects) keep their type; anything else
// is sent as a string.
func ParseVariables(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	variables := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, errors.NewValidationError("variables must look like name=value: "+pair, nil)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		variables[name] = value
	}
	return variables, nil
}
