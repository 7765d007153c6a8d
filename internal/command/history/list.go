// Package history provides CLI commands definitions and execution logic.

package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nbgrader-validate/internal/command/errors"
	"nbgrader-validate/internal/storage/v1/psql"
	"nbgrader-validate/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const defaultLimit = 20

// ListCommand defines a new command struct and sets its attributes.
type ListCommand struct {
	log       *zerolog.Logger
	storage   *psql.Storage
	syncUtils *syncutils.SyncUtils
}

// NewListCommand creates a new command instance.
func NewListCommand(
	logger *zerolog.Logger,
	storage *psql.Storage,
	syncUtils *syncutils.SyncUtils,
) *ListCommand {
	logger.Debug().Msg("calling initializer of history:list command")
	return &ListCommand{
		log:       logger,
		storage:   storage,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *ListCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "history",
		Name:     "history:list",
		Usage:    "Show the latest recorded validation runs",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Usage:   "Maximum number of runs to show",
				Aliases: []string{"l"},
				Value:   defaultLimit,
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *ListCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "history:list"
		handlerKey = "cli_command"
	)

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 5*time.Second)
	defer func() {
		cancel()
		t.syncUtils.Shutdown()
	}()

	runs, err := t.storage.GetRecentValidationRuns(ctxMain, ctx.Int("limit"))
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.HistoryReadingError)
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{
		"Created At",
		"Request ID",
		"Notebook",
		"Status",
		"Exit Code",
		"Duration",
	})
	for _, run := range runs {
		table.Append([]string{
			run.CreatedAt.UTC().Format(time.RFC3339),
			run.RequestID,
			run.NotebookPath,
			run.Status,
			strconv.Itoa(run.ExitCode),
			run.Duration.String(),
		})
	}
	table.Render()

	return nil
}
