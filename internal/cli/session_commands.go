package cli

import (
	"context"
	"strings"

	"time-tracker-gateway/internal/api"
	"time-tracker-gateway/internal/errors"
)

// LoginCommand handles the login command
type LoginCommand struct {
	app      *App
	api      api.API
	password string
}

// NewLoginCommand creates a login handler. An empty password is read from the
// app's input instead.
func NewLoginCommand(app *App, password string) *LoginCommand {
	return &LoginCommand{app: app, api: app.api, password: password}
}

// Execute runs the login command
func (c *LoginCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewValidationError("usage: tt login NAME [--password PASSWORD]", nil)
	}

	password := c.password
	if password == "" {
		c.app.printf("Password: ")
		line, err := c.app.readLine()
		if err != nil {
			return NewErrorHandler().Handle("read password", err)
		}
		c.app.printf("\n")
		password = line
	}

	profile, err := c.api.Login(ctx, args[0], password)
	if err != nil {
		return NewErrorHandler().Handle("log in", err)
	}

	c.app.printf("%s %s %s\n",
		c.app.styles.Success.Render("Logged in as"),
		c.app.styles.Title.Render(profile.Name),
		c.app.styles.Muted.Render("("+profile.ID+")"))
	return nil
}

// LogoutCommand handles the logout command
type LogoutCommand struct {
	app *App
	api api.API
}

// NewLogoutCommand creates a new logout command handler
func NewLogoutCommand(app *App) *LogoutCommand {
	return &LogoutCommand{app: app, api: app.api}
}

// Execute forgets the stored profile and token
func (c *LogoutCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.NewValidationError("usage: tt logout", nil)
	}
	if err := c.api.Logout(ctx); err != nil {
		return NewErrorHandler().Handle("log out", err)
	}
	c.app.printf("Logged out\n")
	return nil
}

// WhoamiCommand shows the stored profile and token
type WhoamiCommand struct {
	app *App
	api api.API
}

// NewWhoamiCommand creates a new whoami command handler
func NewWhoamiCommand(app *App) *WhoamiCommand {
	return &WhoamiCommand{app: app, api: app.api}
}

// Execute runs the whoami command
func (c *WhoamiCommand) Execute(ctx context.Context, args []string) error {
	profile := c.api.CurrentProfile()
	if profile == nil {
		c.app.printf("Not logged in\n")
	} else {
		c.app.printf("%s %s\n", c.app.styles.Title.Render(profile.Name), c.app.styles.Muted.Render("("+profile.ID+")"))
	}

	claims, err := c.api.TokenClaims()
	if err != nil {
		if NewErrorHandler().IsAuthError(err) {
			c.app.printf("No token stored\n")
			return nil
		}
		return NewErrorHandler().Handle("read token", err)
	}

	if claims.Subject != "" {
		c.app.printf("Token subject: %s\n", claims.Subject)
	}
	if claims.Hasura.UserID != "" {
		c.app.printf("Hasura user:   %s\n", claims.Hasura.UserID)
	}
	if claims.Hasura.DefaultRole != "" {
		c.app.printf("Default role:  %s\n", claims.Hasura.DefaultRole)
	}
	if len(claims.Hasura.AllowedRoles) > 0 {
		c.app.printf("Allowed roles: %s\n", strings.Join(claims.Hasura.AllowedRoles, ", "))
	}
	if claims.ExpiresAt != nil {
		expiry := claims.ExpiresAt.Time.Local().Format("2006-01-02 15:04:05")
		if claims.Expired(timeNow()) {
			c.app.printf("Token expired: %s\n", c.app.styles.Warning.Render(expiry))
		} else {
			c.app.printf("Token expires: %s\n", expiry)
		}
	}
	return nil
}

// TokenCommand stores or clears the bearer token used by query
type TokenCommand struct {
	app *App
	api api.API
}

// NewTokenCommand creates a new token command handler
func NewTokenCommand(app *App) *TokenCommand {
	return &TokenCommand{app: app, api: app.api}
}

// Execute handles "set TOKEN" and "clear".
func (c *TokenCommand) Execute(ctx context.Context, args []string) error {
	switch {
	case len(args) == 2 && args[0] == "set":
		if strings.TrimSpace(args[1]) == "" {
			return errors.NewValidationError("token cannot be empty", nil)
		}
		if err := c.api.SetToken(ctx, args[1]); err != nil {
			return NewErrorHandler().Handle("store token", err)
		}
		c.app.printf("Token stored\n")
		return nil
	case len(args) == 1 && args[0] == "clear":
		if err := c.api.ClearToken(ctx); err != nil {
			return NewErrorHandler().Handle("clear token", err)
		}
		c.app.printf("Token cleared\n")
		return nil
	default:
		return errors.NewValidationError("usage: tt token set TOKEN | tt token clear", nil)
	}
}
