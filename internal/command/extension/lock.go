// Package extension provides CLI commands definitions and execution logic.

package extension

import (
	"fmt"

	"nbgrader-validate/internal/command/errors"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/processor/v1/processor"
	"nbgrader-validate/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// LockCommand defines a new command struct and sets its attributes.
type LockCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	proc      *processor.Processor
	syncUtils *syncutils.SyncUtils
}

// NewLockCommand creates a new command instance.
func NewLockCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	proc *processor.Processor,
	syncUtils *syncutils.SyncUtils,
) *LockCommand {
	logger.Debug().Msg("calling initializer of extension:lock command")
	return &LockCommand{
		log:       logger,
		cfg:       cfg,
		proc:      proc,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *LockCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "extension",
		Name:     "extension:lock",
		Usage:    "Lock the competing nbgrader validate labextension",
		Action:   t.Execute,
	}
}

// Execute runs the command-associated execution logic. Unlike the server bootstrap it
// reports a failed lock as an error.
func (t *LockCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "extension:lock"
		handlerKey = "cli_command"
	)

	defer t.syncUtils.Shutdown()

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	if err := t.proc.LockExtension(t.syncUtils.Ctx); err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Str("extension", t.cfg.Jupyter.CompetingExtension).Msg(errors.ExtensionLockError)
		return err
	}

	t.log.Info().Str(handlerKey, handler).Str("extension", t.cfg.Jupyter.CompetingExtension).Msg("competing labextension locked")
	return nil
}
