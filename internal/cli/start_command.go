package cli

import (
	"context"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/errors"
)

// StartCommand handles the start command
type StartCommand struct {
	app          *App
	api          api.API
	errorHandler *ErrorHandler
}

// NewStartCommand creates a new start command handler
func NewStartCommand(app *App) *StartCommand {
	return &StartCommand{
		app:          app,
		api:          app.api,
		errorHandler: NewErrorHandler(),
	}
}

// Execute opens a time log on the task. A log that is already open stays
// open; both are closed by the next stop.
func (c *StartCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewValidationError("usage: tt start ID", nil)
	}

	log, err := c.api.StartTimer(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("start timer", err)
	}

	c.app.printf("%s %s at %s\n",
		c.app.styles.Running.Render("Started timer"),
		c.app.styles.Muted.Render(log.ID),
		log.StartTime.Local().Format("2006-01-02 15:04:05"))
	return nil
}
