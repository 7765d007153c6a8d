// Package notebook provides CLI commands definitions and execution logic.

package notebook

import (
	"context"
	"fmt"
	"strconv"

	"nbgrader-validate/internal/agent/agent"
	"nbgrader-validate/internal/command/errors"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/syncutils"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// ValidateCommand defines a new command struct and sets its attributes.
type ValidateCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	syncUtils *syncutils.SyncUtils
	agent     *agent.Agent
}

// NewValidateCommand creates a new command instance.
func NewValidateCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	syncUtils *syncutils.SyncUtils,
	agent *agent.Agent,
) *ValidateCommand {
	logger.Debug().Msg("calling initializer of notebook:validate command")
	return &ValidateCommand{
		log:       logger,
		cfg:       cfg,
		syncUtils: syncUtils,
		agent:     agent,
	}
}

// Describe handles command description when invoked.
func (t *ValidateCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "notebook",
		Name:     "notebook:validate",
		Usage:    "Run nbgrader validate on a notebook relative to SERVER_ROOT_DIR and print its output",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Notebook path relative to the server root directory",
				Aliases:  []string{"n"},
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "Print a summary table after the validator output",
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *ValidateCommand) Execute(ctx *cli.Context) error {
	const (
		handler      = "notebook:validate"
		handlerKey   = "cli_command"
		requestIDKey = "request_id"
	)

	var (
		name      = ctx.String("name")
		requestID = uuid.New().String()
	)

	t.log.Info().Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithCancel(t.syncUtils.Ctx)
	defer func() {
		cancel()
		t.syncUtils.Shutdown()
	}()

	data, err := t.agent.Validate(ctxMain, requestID, name, handler)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(errors.ValidationRunError)
		return err
	}

	fmt.Fprint(ctx.App.Writer, data.Output)
	if ctx.Bool("summary") {
		table := tablewriter.NewWriter(ctx.App.Writer)
		table.SetHeader([]string{"Request ID", "Notebook", "Status", "Exit Code", "Duration"})
		table.Append([]string{requestID, data.Path, data.Status, strconv.Itoa(data.ExitCode), data.Duration.String()})
		table.Render()
	}

	t.log.Info().Str(handlerKey, handler).Str(requestIDKey, requestID).Dict("validation_data", zerolog.Dict().
		Str("path", data.Path).Str("status", data.Status).Int("exit_code", data.ExitCode)).Msg("validation is complete")
	return nil
}
