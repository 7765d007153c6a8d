// Package token provides CLI commands definitions and execution logic.

package token

import (
	"fmt"
	"time"

	"nbgrader-validate/internal/auth"
	"nbgrader-validate/internal/command/errors"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// CreateCommand defines a new command struct and sets its attributes.
type CreateCommand struct {
	log  *zerolog.Logger
	auth *auth.Authenticator
}

// NewCreateCommand creates a new command instance.
func NewCreateCommand(logger *zerolog.Logger, authenticator *auth.Authenticator) *CreateCommand {
	logger.Debug().Msg("calling initializer of token:create command")
	return &CreateCommand{
		log:  logger,
		auth: authenticator,
	}
}

// Describe handles command description when invoked.
func (t *CreateCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "token",
		Name:     "token:create",
		Usage:    "Issue a signed access token for the validate endpoint",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Usage:    "User name stored in the token",
				Aliases:  []string{"u"},
				Required: true,
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *CreateCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "token:create"
		handlerKey = "cli_command"
	)
	user := ctx.String("user")

	t.log.Info().Str(handlerKey, handler).Str("user", user).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	token, expiresAt, err := t.auth.CreateToken(user, time.Now())
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.TokenCreationError)
		return err
	}

	t.log.Info().Str(handlerKey, handler).Time("expires_at", expiresAt).Msg("token created")
	fmt.Fprintln(ctx.App.Writer, token)
	return nil
}
