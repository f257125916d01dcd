package cli

import (
	"context"
	"strings"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/errors"
)

// AddCommand handles the add command
type AddCommand struct {
	app          *App
	api          api.API
	description  *string
	errorHandler *ErrorHandler
}

// NewAddCommand creates an add handler. A nil description is left out of the
// request.
func NewAddCommand(app *App, description *string) *AddCommand {
	return &AddCommand{app: app, api: app.api, description: description, errorHandler: NewErrorHandler()}
}

// Execute creates a task titled with the joined arguments
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewValidationError("usage: tt add TITLE [--description TEXT]", nil)
	}
	title := strings.Join(args, " ")

	task, err := c.api.CreateTask(ctx, title, c.description)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}
	if task == nil {
		c.app.printf("Task not created\n")
		return nil
	}

	c.app.printf("%s %s %s\n",
		c.app.styles.Success.Render("Added task"),
		c.app.styles.Title.Render(task.Title),
		c.app.styles.Muted.Render("("+task.ID+")"))
	return nil
}

// UpdateCommand handles the update command
type UpdateCommand struct {
	app          *App
	api          api.API
	patch        domain.TaskPatch
	errorHandler *ErrorHandler
}

// NewUpdateCommand creates an update handler that sends exactly the fields
// set in patch.
func NewUpdateCommand(app *App, patch domain.TaskPatch) *UpdateCommand {
	return &UpdateCommand{app: app, api: app.api, patch: patch, errorHandler: NewErrorHandler()}
}

// Execute runs the update command
func (c *UpdateCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewValidationError("usage: tt update ID [--title T] [--description D] [--status S]", nil)
	}
	if c.patch.IsEmpty() {
		return errors.NewValidationError("nothing to update; pass --title, --description or --status", nil)
	}

	task, err := c.api.UpdateTask(ctx, args[0], c.patch)
	if err != nil {
		return c.errorHandler.Handle("update task", err)
	}

	c.app.printf("%s %s (%s)\n",
		c.app.styles.Success.Render("Updated task"),
		c.app.styles.Title.Render(task.Title),
		task.Status)
	return nil
}
