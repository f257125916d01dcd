package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/config"
	"time-tracker-gateway/internal/domain"
)

// ConfigLoader resolves configuration once flags are parsed
type ConfigLoader interface {
	LoadWithOverrides(overrides *config.ConfigOverrides) (*config.Config, error)
}

// Runtime builds what the commands run against. main supplies the real one;
// tests supply fakes.
type Runtime interface {
	// OpenAPI returns the client API and a function releasing its resources.
	OpenAPI(ctx context.Context, cfg *config.Config) (api.API, func() error, error)
	// Serve runs the HTTP server until ctx is cancelled.
	Serve(ctx context.Context, cfg *config.Config) error
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  ConfigLoader
	runtime Runtime
	config  *config.Config
	out     io.Writer
	in      io.Reader
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader ConfigLoader, runtime Runtime, out io.Writer) *RootCommand {
	if out == nil {
		out = os.Stdout
	}
	root := &RootCommand{
		loader:  loader,
		runtime: runtime,
		out:     out,
		in:      os.Stdin,
	}

	root.cmd = &cobra.Command{
		Use:   "tt",
		Short: "Task and time tracking over a hosted GraphQL backend",
		Long: `tt runs the task and time-log HTTP server and is also its command-line client.

EXAMPLES:
  tt serve                                 # Run the HTTP server
  tt login alice                           # Log in (prompts for the password)
  tt add "Write report" --description Q3   # Create a task
  tt list                                  # List tasks, newest first
  tt start TASK_ID                         # Open a time log
  tt stop TASK_ID                          # Close every open time log on the task
  tt update TASK_ID --status done          # Change only the given fields
  tt query '{ tasks { id title } }'        # Send a document straight to the gateway

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults
  The config file is read from ~/.tt/config.yaml when present.

  Gateway:
    NHOST_GRAPHQL_URL                      GraphQL endpoint used by the server
    VITE_NHOST_GRAPHQL_URL                 GraphQL endpoint used by 'tt query'
    NHOST_ADMIN_SECRET                     Admin secret sent by the server

  Server:
    TT_SERVER_ADDR                         Listen address (default: :8080)
    TT_SERVER_SHUTDOWN_TIMEOUT             Graceful shutdown timeout (default: 10s)
    TT_SERVER_MAX_BODY_BYTES               Request body limit (default: 1048576)

  Client:
    TT_API_URL                             Server URL (default: http://localhost:8080)
    TT_SESSION_DIR                         Session directory (default: ~/.tt)
    TT_SESSION_FILENAME                    Session database (default: session.db)

  Logging:
    TT_LOG_LEVEL, TT_LOG_FORMAT, TT_LOG_FILE, TT_DEBUG

  Application:
    TT_APP_TIMEOUT                         Per-command timeout (default: 60s)
    TT_APP_VERBOSE                         Enable verbose output (default: false)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd.Flags())
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the underlying cobra command.
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Config returns the configuration resolved for the last run.
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// WithInput replaces the reader password prompts are answered from.
func (r *RootCommand) WithInput(in io.Reader) *RootCommand {
	r.in = in
	return r
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	r.cmd.SetOut(r.out)
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("graphql-url", "", "GraphQL endpoint (overrides NHOST_GRAPHQL_URL and VITE_NHOST_GRAPHQL_URL)")
	flags.String("api-url", "", "Server URL used by client commands (overrides TT_API_URL)")
	flags.String("session-dir", "", "Session directory (overrides TT_SESSION_DIR)")

	flags.String("log-level", "", "Log level (overrides TT_LOG_LEVEL)")
	flags.String("log-format", "", "Log format, text or json (overrides TT_LOG_FORMAT)")
	flags.String("log-file", "", "Also write logs to this rotated file (overrides TT_LOG_FILE)")

	flags.Duration("timeout", 0, "Per-command timeout (overrides TT_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TT_APP_VERBOSE)")
}

// overridesFromFlags maps explicitly given flags onto configuration overrides.
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetString(name)
		return &value
	}

	overrides.GraphQLURL = stringFlag("graphql-url")
	overrides.APIURL = stringFlag("api-url")
	overrides.SessionDir = stringFlag("session-dir")
	overrides.LogLevel = stringFlag("log-level")
	overrides.LogFormat = stringFlag("log-format")
	overrides.LogFile = stringFlag("log-file")
	if flags.Lookup("addr") != nil {
		overrides.Addr = stringFlag("addr")
	}

	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		overrides.Timeout = &timeout
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		overrides.Verbose = &verbose
	}
	return overrides
}

func (r *RootCommand) loadConfig(flags *pflag.FlagSet) error {
	if r.loader == nil {
		return fmt.Errorf("configuration loader not initialized")
	}
	cfg, err := r.loader.LoadWithOverrides(overridesFromFlags(flags))
	if err != nil {
		return err
	}
	r.config = cfg
	return nil
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// handler is the shape shared by every command handler.
type handler interface {
	Execute(ctx context.Context, args []string) error
}

// run opens the client API, builds the handler and executes it under the
// application timeout.
func (r *RootCommand) run(cmd *cobra.Command, args []string, build func(app *App) handler) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()

	apiInstance, closeFn, err := r.runtime.OpenAPI(ctx, r.config)
	if err != nil {
		return NewErrorHandler().Handle("open session", err)
	}
	if closeFn != nil {
		defer closeFn()
	}

	app := NewApp(apiInstance, cmd.OutOrStdout()).WithInput(r.in)
	return build(app).Execute(ctx, args)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server that forwards task and time-log requests to the GraphQL gateway.

A missing NHOST_GRAPHQL_URL does not stop the server from starting; requests
that need the gateway fail with "GraphQL URL not configured" instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runtime.Serve(cmd.Context(), r.config)
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides TT_SERVER_ADDR)")

	var password string
	loginCmd := &cobra.Command{
		Use:   "login NAME",
		Short: "Log in as a profile",
		Long:  "Look up the profile by name and password and remember it for later commands. The password is prompted for when --password is not given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) handler { return NewLoginCommand(app, password) })
		},
	}
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted for when omitted)")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored profile and token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) handler { return NewLogoutCommand(app) })
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored profile and token claims",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) handler { return NewWhoamiCommand(app) })
		},
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the bearer token used by query",
	}
	tokenCmd.AddCommand(
		&cobra.Command{
			Use:   "set TOKEN",
			Short: "Store a bearer token",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, append([]string{"set"}, args...), func(app *App) handler { return NewTokenCommand(app) })
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, []string{"clear"}, func(app *App) handler { return NewTokenCommand(app) })
			},
		},
	)

	var runningOnly bool
	listCmd := &cobra.Command{
		Use:   "list [TEXT]",
		Short: "List your tasks",
		Long: `List your tasks with their time logs, newest first. Running tasks are marked.

TEXT filters titles and descriptions (case-insensitive partial matching).

Examples:
  tt list                    # List every task
  tt list report             # Tasks mentioning "report"
  tt list --running          # Tasks with a running timer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) handler { return NewListCommand(app, runningOnly) })
		},
	}
	listCmd.Flags().BoolVarP(&runningOnly, "running", "r", false, "Only tasks with a running timer")

	addCmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var description *string
			if cmd.Flags().Changed("description") {
				value, _ := cmd.Flags().GetString("description")
				description = &value
			}
			return r.run(cmd, args, func(app *App) handler { return NewAddCommand(app, description) })
		},
	}
	addCmd.Flags().StringP("description", "d", "", "Task description")

	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a task",
		Long: `Change fields of a task. Only the flags you pass are sent; everything else is left alone.

Examples:
  tt update TASK_ID --status done
  tt update TASK_ID --title "New title" --description ""
  tt update TASK_ID --clear-description`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := patchFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			return r.run(cmd, args, func(app *App) handler { return NewUpdateCommand(app, patch) })
		},
	}
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().Bool("clear-description", false, "Set the description to null")
	updateCmd.Flags().String("status", "", "New status")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task and its time logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) handler { return NewDeleteCommand(app) })
		},
	}

	startCmd := &cobra.Command{
		Use:   "start ID",
		Short: "Start a timer on a task",
		Long:  "Open a new time log on the task. Timers already running on it are not stopped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) handler { return NewStartCommand(app) })
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop ID",
		Short: "Stop every running timer on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) handler { return NewStopCommand(app) })
		},
	}

	var vars []string
	queryCmd := &cobra.Command{
		Use:   "query DOCUMENT",
		Short: "Send a GraphQL document straight to the gateway",
		Long: `Send a GraphQL document straight to the gateway, authenticated with the stored token.

Examples:
  tt query '{ tasks { id title } }'
  tt query 'query Get($id: uuid!) { tasks_by_pk(id: $id) { title } }' --var id=TASK_ID`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) handler { return NewQueryCommand(app, vars) })
		},
	}
	queryCmd.Flags().StringArrayVar(&vars, "var", nil, "Variable as name=value (repeatable)")

	r.cmd.AddCommand(
		serveCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		tokenCmd,
		listCmd,
		addCmd,
		updateCmd,
		deleteCmd,
		startCmd,
		stopCmd,
		queryCmd,
	)
}

// patchFromFlags builds a patch from the update flags that were given.
func patchFromFlags(flags *pflag.FlagSet) (domain.TaskPatch, error) {
	var patch domain.TaskPatch

	if flags.Changed("title") {
		value, _ := flags.GetString("title")
		patch.Title = domain.SomeString(value)
	}
	if flags.Changed("status") {
		value, _ := flags.GetString("status")
		patch.Status = domain.SomeString(value)
	}

	clearDescription, _ := flags.GetBool("clear-description")
	if clearDescription && flags.Changed("description") {
		return patch, fmt.Errorf("--description and --clear-description cannot be combined")
	}
	if flags.Changed("description") {
		value, _ := flags.GetString("description")
		patch.Description = domain.SomeString(value)
	}
	if clearDescription {
		patch.Description = domain.NullString()
	}
	return patch, nil
}
