package cli

import (
	"context"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app          *App
	api          api.API
	errorHandler *ErrorHandler
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app, api: app.api, errorHandler: NewErrorHandler()}
}

// Execute deletes the task with the given id. The backend removes its time
// logs with it.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewValidationError("usage: tt delete ID", nil)
	}

	deleted, err := c.api.DeleteTask(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("delete task", err)
	}

	c.app.printf("%s %s\n", c.app.styles.Success.Render("Deleted task"), deleted.ID)
	return nil
}
