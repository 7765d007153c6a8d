// Package dig implements logic for dependency injection using uber-go/dig.

package dig

import (
	"fmt"

	"nbgrader-validate/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

type App struct {
	Kernel *Kernel
	args   []string
}

func (t *App) Boot() error {
	if err := t.Kernel.Build(); err != nil {
		return fmt.Errorf("failed to build kernel: %w", err)
	}

	return nil
}

// Run boots the kernel and runs the command named in args. Background routines are
// stopped when the command fails.
func (t *App) Run() error {
	if err := t.Boot(); err != nil {
		return err
	}

	return t.Kernel.Invoke(func(
		app *cli.App,
		logger *zerolog.Logger,
		syncUtils *syncutils.SyncUtils,
	) error {
		if err := app.Run(t.args); err != nil {
			logger.Error().Err(err).Strs("args", t.args).Msg("command failed")
			syncUtils.Shutdown()
			return fmt.Errorf("failed to run application: %w", err)
		}

		return nil
	})
}

func NewApp(kernel *Kernel, args []string) *App {
	return &App{
		Kernel: kernel,
		args:   args,
	}
}
