// Package processor provides functionality for running nbgrader and jupyter commands and catching their output.

package processor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
	"unicode/utf8"

	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/constants"
	procErrors "nbgrader-validate/internal/processor/errors"
	"nbgrader-validate/internal/processor/v1/models"

	"github.com/rs/zerolog"
)

// waitDelay bounds how long Run waits for output pipes after the process was killed.
const waitDelay = 5 * time.Second

// Executor runs an external command writing its streams to stdout and stderr.
type Executor interface {
	Execute(ctx context.Context, executable string, args []string, stdout, stderr io.Writer) error
}

// ShellExecutor runs commands with os/exec. The process is killed when ctx is done.
type ShellExecutor struct{}

// Execute implements Executor.
func (ShellExecutor) Execute(ctx context.Context, executable string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	return cmd.Run()
}

// Processor defines an object and sets its attributes.
type Processor struct {
	cfg  *config.Config
	log  *zerolog.Logger
	exec Executor
}

// NewProcessor initializes a new Processor instance.
func NewProcessor(config *config.Config, logger *zerolog.Logger) *Processor {
	return NewProcessorWithExecutor(config, logger, ShellExecutor{})
}

// NewProcessorWithExecutor initializes a new Processor instance running commands through executor.
func NewProcessorWithExecutor(config *config.Config, logger *zerolog.Logger, executor Executor) *Processor {
	logger.Debug().Msg("calling initializer of processor service")
	return &Processor{
		cfg:  config,
		log:  logger,
		exec: executor,
	}
}

// RunValidation runs `nbgrader validate` against fullPath and captures its output.
// A non-zero exit status is not an error: whatever the tool printed is the result.
func (p *Processor) RunValidation(ctx context.Context, fullPath string) (*models.ValidationData, error) {
	p.log.Debug().Msg("calling `RunValidation` method")

	if timeout := p.cfg.Nbgrader.ValidateTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	executable := p.cfg.Nbgrader.Executable
	args := []string{"validate", fullPath}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	started := time.Now()
	err := p.exec.Execute(ctx, executable, args, stdout, stderr)
	data := &models.ValidationData{
		Path:     fullPath,
		Stderr:   stderr.String(),
		Duration: time.Since(started),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			p.log.Error().Err(ctxErr).Str("path", fullPath).Msg(procErrors.ValidationTimeoutError)
			data.Status = constants.RunStatusTimeout
			return data, &procErrors.TimeoutError{Err: ctxErr}
		}
		p.log.Warn().Err(ctxErr).Str("path", fullPath).Msg(procErrors.ValidationCanceledError)
		data.Status = constants.RunStatusCanceled
		return data, &procErrors.CanceledError{Err: ctxErr}
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		data.ExitCode = exitErr.ExitCode()
	default:
		p.log.Error().Err(err).Str("path", fullPath).Msg(procErrors.ValidationSubprocessError)
		data.Status = constants.RunStatusSpawnError
		return data, &procErrors.SpawnError{Err: err, Executable: executable}
	}

	if data.Stderr != "" {
		p.log.Debug().Str("path", fullPath).Str("stderr", data.Stderr).Msg("validation stderr discarded")
	}

	if !utf8.Valid(stdout.Bytes()) {
		p.log.Error().Str("path", fullPath).Msg(procErrors.ValidationDecodingError)
		data.Status = constants.RunStatusDecodeError
		return data, &procErrors.DecodingError{Path: fullPath}
	}

	data.Output = stdout.String()
	data.Status = constants.RunStatusCompleted
	p.log.Info().Str("path", fullPath).Int("exit_code", data.ExitCode).Dur("duration", data.Duration).Msg("validation completed")
	return data, nil
}

// LockExtension runs `jupyter labextension lock <name>` for the configured competing extension.
func (p *Processor) LockExtension(ctx context.Context) error {
	p.log.Debug().Msg("calling `LockExtension` method")

	if timeout := p.cfg.Jupyter.LockTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := []string{"labextension", "lock", p.cfg.Jupyter.CompetingExtension}
	catcher := &bytes.Buffer{}
	if err := p.exec.Execute(ctx, p.cfg.Jupyter.Executable, args, catcher, catcher); err != nil {
		p.log.Debug().Str("output", catcher.String()).Msg(procErrors.LockSubprocessError)
		return err
	}
	return nil
}
