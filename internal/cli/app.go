package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"time-tracker-gateway/internal/api"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries what every command handler needs
type App struct {
	api    api.API
	out    io.Writer
	in     io.Reader
	styles Styles
}

// NewApp creates a new CLI application instance with dependency injection.
// A nil out writes to stdout.
func NewApp(apiInstance api.API, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	return &App{
		api:    apiInstance,
		out:    out,
		in:     os.Stdin,
		styles: DefaultStyles(),
	}
}

// WithInput replaces the reader prompts are answered from.
func (a *App) WithInput(in io.Reader) *App {
	a.in = in
	return a
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// readLine reads one line from the app's input, without the newline.
func (a *App) readLine() (string, error) {
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Styles groups the lipgloss styles used for terminal output
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
}

// DefaultStyles returns the styles used for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
}
