// Package agent provides intermediary functionality for HTTP, CLI and AMQP handlers.

package agent

import (
	"context"
	"errors"
	"net/http"
	"time"

	agentErrors "nbgrader-validate/internal/agent/errors"
	busamqp "nbgrader-validate/internal/bus/amqp"
	"nbgrader-validate/internal/bus/modelbus"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/constants"
	"nbgrader-validate/internal/notebook"
	procErrors "nbgrader-validate/internal/processor/errors"
	"nbgrader-validate/internal/processor/v1/models"
	"nbgrader-validate/internal/processor/v1/processor"
	"nbgrader-validate/internal/s3/s3"
	"nbgrader-validate/internal/storage/v1/psql"
	"nbgrader-validate/internal/syncutils"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	handlerKey   = "handler"
	requestIDKey = "request_id"

	defaultRecordTimeout = 10 * time.Second
)

// Agent defines an Agent object and sets its attributes.
type Agent struct {
	log     *zerolog.Logger
	cfg     *config.Config
	proc    *processor.Processor
	storage *psql.Storage
	s3      *s3.Service
	bus     *busamqp.AMQP
	sem     *semaphore.Weighted

	syncUtils *syncutils.SyncUtils
}

// NewAgent initializes an Agent object.
func NewAgent(
	logger *zerolog.Logger,
	cfg *config.Config,
	proc *processor.Processor,
	storage *psql.Storage,
	s3 *s3.Service,
	bus *busamqp.AMQP,
	syncUtils *syncutils.SyncUtils,
) *Agent {
	logger.Debug().Msg("calling initializer of agent service")
	a := &Agent{
		log:     logger,
		cfg:     cfg,
		proc:    proc,
		storage: storage,
		s3:      s3,
		bus:     bus,

		syncUtils: syncUtils,
	}
	if n := cfg.Nbgrader.MaxConcurrent; n > 0 {
		a.sem = semaphore.NewWeighted(n)
	}
	return a
}

// Validate resolves name against the root directory and runs nbgrader validate on it.
// The outcome is recorded on the configured side channels in the background.
func (a *Agent) Validate(ctx context.Context, requestID, name, handler string) (*models.ValidationData, error) {
	a.log.Debug().Msg("calling `Validate` method")

	fullPath, err := notebook.Resolve(a.cfg.Notebook.RootDir, name, a.cfg.Notebook.RestrictToRoot)
	if err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(agentErrors.PathResolutionError)
		return nil, err
	}

	if a.sem != nil {
		if err := a.sem.Acquire(ctx, 1); err != nil {
			a.log.Warn().Err(err).Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(agentErrors.ThrottledError)
			return nil, &agentErrors.ThrottledRequestError{Err: err}
		}
		defer a.sem.Release(1)
	}

	data, err := a.proc.RunValidation(ctx, fullPath)
	if data != nil {
		a.syncUtils.Wg.Add(1)
		go func() {
			defer a.syncUtils.Wg.Done()
			a.record(ctx, requestID, handler, data)
		}()
	}
	if err != nil {
		a.log.Error().Err(err).Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(agentErrors.ValidationRunError)
		return nil, err
	}

	return data, nil
}

// record stores, archives and publishes a validation outcome. It runs after the response
// on a context detached from the request and bounded by RECORD_TIMEOUT. Failures are logged only.
func (a *Agent) record(ctx context.Context, requestID, handler string, data *models.ValidationData) {
	a.log.Debug().Msg("calling `record` method")
	timeout := a.cfg.Nbgrader.RecordTimeout
	if timeout <= 0 {
		timeout = defaultRecordTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	now := time.Now()
	g := &errgroup.Group{}
	g.Go(func() error {
		return a.storage.AddValidationRun(ctx, models.ValidationRun{
			RequestID:    requestID,
			NotebookPath: data.Path,
			Status:       data.Status,
			ExitCode:     data.ExitCode,
			Duration:     data.Duration,
			CreatedAt:    now,
		})
	})
	if data.Status == constants.RunStatusCompleted {
		g.Go(func() error {
			return a.s3.UploadReport(ctx, requestID, now, []byte(data.Output))
		})
	}
	g.Go(func() error {
		return a.bus.PublishValidationResult(ctx, modelbus.Rsp{
			RequestID: requestID,
			Path:      data.Path,
			Status:    data.Status,
			ExitCode:  data.ExitCode,
			Output:    data.Output,
		})
	})
	if err := g.Wait(); err != nil {
		a.log.Warn().Err(err).Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(agentErrors.SideChannelError)
	}
}

// HTTPStatus maps a Validate error onto an HTTP status code and an error message.
func HTTPStatus(err error) (int, string) {
	var (
		outside   *notebook.PathOutsideRootError
		timeout   *procErrors.TimeoutError
		canceled  *procErrors.CanceledError
		throttled *agentErrors.ThrottledRequestError
	)
	switch {
	case errors.As(err, &outside):
		return http.StatusBadRequest, agentErrors.PathOutsideRootError
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, agentErrors.ValidationTimeoutError
	case errors.As(err, &canceled):
		return http.StatusServiceUnavailable, agentErrors.ValidationCanceledError
	case errors.As(err, &throttled):
		return http.StatusServiceUnavailable, agentErrors.ThrottledError
	default:
		return http.StatusInternalServerError, agentErrors.InternalError
	}
}
