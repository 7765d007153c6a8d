// Package storage provides CLI commands definitions and execution logic.

package storage

import (
	"fmt"

	"nbgrader-validate/internal/command/errors"
	storageErrors "nbgrader-validate/internal/storage/errors"
	"nbgrader-validate/internal/storage/v1/psql"
	"nbgrader-validate/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// ResetCommand defines a new command struct and sets its attributes.
type ResetCommand struct {
	log       *zerolog.Logger
	storage   *psql.Storage
	syncUtils *syncutils.SyncUtils
}

// NewResetCommand creates a new command instance.
func NewResetCommand(
	logger *zerolog.Logger,
	storage *psql.Storage,
	syncUtils *syncutils.SyncUtils,
) *ResetCommand {
	logger.Debug().Msg("calling initializer of storage:reset command")
	return &ResetCommand{
		log:       logger,
		storage:   storage,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *ResetCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "storage",
		Name:     "storage:reset",
		Usage:    "Drop the validation history table",
		Action:   t.Execute,
	}
}

// Execute runs the command-associated execution logic.
func (t *ResetCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "storage:reset"
		handlerKey = "cli_command"
	)

	defer t.syncUtils.Shutdown()

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	if !t.storage.Enabled() {
		t.log.Error().Str(handlerKey, handler).Msg(errors.StorageDisabledError)
		return &storageErrors.DisabledError{}
	}
	if err := t.storage.DropAll(); err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg("could not perform DB drop")
		return err
	}

	t.log.Info().Str(handlerKey, handler).Msg("validation history dropped")
	return nil
}
