package cli

import (
	"context"
	"fmt"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/errors"
)

// StopCommand handles the stop command
type StopCommand struct {
	app          *App
	api          api.API
	errorHandler *ErrorHandler
}

// NewStopCommand creates a new stop command handler
func NewStopCommand(app *App) *StopCommand {
	return &StopCommand{app: app, api: app.api, errorHandler: NewErrorHandler()}
}

// Execute closes every open time log on the task
func (c *StopCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewValidationError("usage: tt stop ID", nil)
	}

	result, err := c.api.StopTimer(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("stop timer", err)
	}

	switch result.AffectedRows {
	case 0:
		c.app.printf("No running timer on task %s\n", args[0])
	case 1:
		c.app.printf("%s\n", c.app.styles.Success.Render("Stopped 1 time log"))
	default:
		c.app.printf("%s\n", c.app.styles.Success.Render(
			fmt.Sprintf("Stopped %d time logs", result.AffectedRows)))
	}
	return nil
}
