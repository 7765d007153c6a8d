// Package messenger provides CLI commands definitions and execution logic.

package messenger

import (
	"context"
	"fmt"
	"time"

	busamqp "nbgrader-validate/internal/bus/amqp"
	"nbgrader-validate/internal/bus/modelbus"
	"nbgrader-validate/internal/command/errors"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/syncutils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// CreateCommand defines a new command struct and sets its attributes.
type CreateCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	amqp      *busamqp.AMQP
	syncUtils *syncutils.SyncUtils
}

// NewCreateCommand creates a new command instance.
func NewCreateCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	amqp *busamqp.AMQP,
	syncUtils *syncutils.SyncUtils,
) *CreateCommand {
	logger.Debug().Msg("calling initializer of messenger:create command")
	return &CreateCommand{
		log:       logger,
		cfg:       cfg,
		amqp:      amqp,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *CreateCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "messenger",
		Name:     "messenger:create",
		Usage:    "Publish a notebook validation request to the input exchange",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Notebook path relative to the server root directory",
				Aliases:  []string{"n"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "request-id",
				Usage:   "Request identifier, generated when omitted",
				Aliases: []string{"r"},
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *CreateCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "messenger:create"
		handlerKey = "cli_command"
	)

	var (
		name      = ctx.String("name")
		requestID = ctx.String("request-id")
	)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 5*time.Second)
	defer func() {
		cancel()
		t.syncUtils.Shutdown()
	}()

	t.log.Info().Str(handlerKey, handler).Str("request_id", requestID).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	msg := modelbus.MsgValidate{RequestID: requestID, Name: &name}
	if err := t.amqp.PublishValidationRequest(ctxMain, msg); err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.MessagePublishingError)
		return err
	}

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("AMQP: message was published to %s", t.cfg.AMQP.ValidationExchangeInputName))
	fmt.Fprintln(ctx.App.Writer, requestID)
	return nil
}
