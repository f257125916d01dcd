package cli

import (
	"context"
	"fmt"
	"strings"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/services"
)

// ListCommand handles the list command
type ListCommand struct {
	app          *App
	api          api.API
	runningOnly  bool
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App, runningOnly bool) *ListCommand {
	return &ListCommand{app: app, api: app.api, runningOnly: runningOnly, errorHandler: NewErrorHandler()}
}

// Execute runs the list command. Arguments are joined into a text filter
// matched against titles and descriptions.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.api.ListTasks(ctx)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}

	filter := services.TaskFilter{Text: strings.Join(args, " "), RunningOnly: c.runningOnly}
	tasks = services.FilterTasks(tasks, filter)
	if err := c.printTasks(tasks); err != nil {
		return err
	}
	if len(tasks) > 0 {
		c.printSummary(services.SummarizeTasks(tasks, timeNow()))
	}
	return nil
}

// printSummary prints a one-line footer under the listing
func (c *ListCommand) printSummary(summary services.TaskSummary) {
	line := fmt.Sprintf("%d tasks, %d running, %s total", summary.TaskCount, summary.RunningCount,
		domain.FormatDuration(summary.TotalDuration))
	if summary.LastWorked != nil {
		line += ", last started " + summary.LastWorked.Local().Format("2006-01-02 15:04")
	}
	c.app.printf("%s\n", c.app.styles.Muted.Render(line))
}

// printTasks prints one line per task in the order the server returned them,
// newest first:
// [running] title (status) total: id
func (c *ListCommand) printTasks(tasks []domain.Task) error {
	if len(tasks) == 0 {
		c.app.printf("No tasks found\n")
		return nil
	}

	now := timeNow()
	for _, task := range tasks {
		marker := "         "
		if task.IsRunning() {
			marker = c.app.styles.Running.Render("[running]")
		}

		line := fmt.Sprintf("%s %s (%s) %s: %s",
			marker,
			c.app.styles.Title.Render(task.Title),
			task.Status,
			domain.FormatDuration(task.TotalDuration(now)),
			c.app.styles.Muted.Render(task.ID))
		c.app.printf("%s\n", strings.TrimRight(line, " "))

		if task.Description != nil && *task.Description != "" {
			c.app.printf("          %s\n", c.app.styles.Muted.Render(*task.Description))
		}

		// Starting twice without a stop leaves several logs open; the next stop
		// closes all of them.
		if open := len(task.OpenTimeLogs()); open > 1 {
			c.app.printf("          %s\n", c.app.styles.Warning.Render(
				fmt.Sprintf("warning: %d open time logs; 'tt stop %s' closes them all", open, task.ID)))
		}
	}
	return nil
}
