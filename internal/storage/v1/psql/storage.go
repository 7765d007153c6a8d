// Package psql provides PSQL storage service.

package psql

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/constants"
	"nbgrader-validate/internal/processor/v1/models"
	storageErrors "nbgrader-validate/internal/storage/errors"
	"nbgrader-validate/internal/syncutils"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog"
)

// Storage defines a new object and sets its attributes.
type Storage struct {
	mu        sync.Mutex
	cfg       *config.Config
	DB        *sql.DB
	log       *zerolog.Logger
	syncUtils *syncutils.SyncUtils
}

// Enabled reports whether a database is configured.
func (s *Storage) Enabled() bool {
	return s.DB != nil
}

// DropAll drops the DB tables.
func (s *Storage) DropAll() error {
	s.log.Debug().Msg("calling `DropAll` method")
	if !s.Enabled() {
		return &storageErrors.DisabledError{}
	}
	ctx, cancel := context.WithTimeout(s.syncUtils.Ctx, 1000*time.Millisecond)
	defer cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.DB.ExecContext(ctx, `DROP TABLE IF EXISTS validation_runs;`)
	return err
}

// Migrate creates the DB tables.
func (s *Storage) Migrate() error {
	s.log.Debug().Msg("calling `Migrate` method")
	if !s.Enabled() {
		return &storageErrors.DisabledError{}
	}
	ctx, cancel := context.WithTimeout(s.syncUtils.Ctx, 1000*time.Millisecond)
	defer cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	queries := []string{
		`CREATE TABLE IF NOT EXISTS validation_runs (
		id             BIGSERIAL   NOT NULL UNIQUE,
		request_id     TEXT        NOT NULL UNIQUE,
		notebook_path  TEXT        NOT NULL,
		status         TEXT        NOT NULL,
		exit_code      INTEGER     NOT NULL,
		duration_ms    BIGINT      NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	);`,
		`CREATE INDEX IF NOT EXISTS validation_runs_created_at_idx ON validation_runs (created_at DESC);`,
	}
	for _, query := range queries {
		_, err := s.DB.ExecContext(ctx, query)
		if err != nil {
			return err
		}
	}
	return nil
}

// NewStorage initializes a new Storage instance. Without a DSN the storage stays disabled.
func NewStorage(cfg *config.Config, logger *zerolog.Logger, syncUtils *syncutils.SyncUtils) *Storage {
	logger.Debug().Msg("calling initializer of storage service")
	st := Storage{
		cfg:       cfg,
		log:       logger,
		syncUtils: syncUtils,
	}
	if cfg.DB.DatabaseDSN == "" {
		logger.Debug().Msg("DATABASE_DSN is empty, validation history is disabled")
		return &st
	}

	db, err := sql.Open("pgx", cfg.DB.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open a DB connection")
	}
	st.DB = db
	logger.Debug().Msg("DB connection was established")

	syncUtils.Go(func(ctx context.Context) {
		<-ctx.Done()
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("could not close DB connection")
			return
		}
		logger.Debug().Msg("PSQL DB connection was closed")
	})

	return &st
}

// AddValidationRun stores a validation run record. Runs with a status outside of
// constants.ValidRunStatuses are rejected.
func (s *Storage) AddValidationRun(ctx context.Context, run models.ValidationRun) error {
	s.log.Debug().Msg("calling `AddValidationRun` method")
	if !slices.Contains(constants.ValidRunStatuses, run.Status) {
		return &storageErrors.InvalidStatusError{Status: run.Status}
	}
	if !s.Enabled() {
		return nil
	}
	newRunStmt, err := s.DB.PrepareContext(ctx, "INSERT INTO validation_runs (request_id, notebook_path, status, exit_code, duration_ms, created_at) VALUES ($1, $2, $3, $4, $5, $6)")
	if err != nil {
		s.log.Error().Err(err).Str("request_id", run.RequestID).Msg("could not prepare statement")
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer newRunStmt.Close()
	chanOk := make(chan bool, 1)
	chanEr := make(chan error, 1)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := newRunStmt.ExecContext(ctx, run.RequestID, run.NotebookPath, run.Status, run.ExitCode,
			run.Duration.Milliseconds(), run.CreatedAt.Format(time.RFC3339))
		if err != nil {
			if err, ok := err.(*pgconn.PgError); ok && err.Code == pgerrcode.UniqueViolation {
				chanEr <- &storageErrors.AlreadyExistsError{Err: err, RequestID: run.RequestID}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str("request_id", run.RequestID).Msg("adding validation run failed")
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Str("request_id", run.RequestID).Msg("adding validation run failed")
		return methodErr
	case <-chanOk:
		s.log.Info().Str("request_id", run.RequestID).Msg("adding validation run done")
		return nil
	}
}

// GetRecentValidationRuns retrieves the latest validation runs, newest first.
func (s *Storage) GetRecentValidationRuns(ctx context.Context, limit int) ([]models.ValidationRun, error) {
	s.log.Debug().Msg("calling `GetRecentValidationRuns` method")
	if !s.Enabled() {
		return nil, &storageErrors.DisabledError{}
	}
	getRunsStmt, err := s.DB.PrepareContext(ctx, "SELECT request_id, notebook_path, status, exit_code, duration_ms, created_at FROM validation_runs ORDER BY created_at DESC LIMIT $1")
	if err != nil {
		s.log.Error().Err(err).Msg("could not prepare statement")
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer getRunsStmt.Close()

	chanOk := make(chan []models.ValidationRun, 1)
	chanEr := make(chan error, 1)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows, err := getRunsStmt.QueryContext(ctx, limit)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()

		var queryOutput []models.ValidationRun
		for rows.Next() {
			var (
				run        models.ValidationRun
				durationMs int64
			)
			err = rows.Scan(&run.RequestID, &run.NotebookPath, &run.Status, &run.ExitCode, &durationMs, &run.CreatedAt)
			if err != nil {
				chanEr <- &storageErrors.ScanningPSQLError{Err: err}
				return
			}
			run.Duration = time.Duration(durationMs) * time.Millisecond
			queryOutput = append(queryOutput, run)
		}
		if err = rows.Err(); err != nil {
			chanEr <- &storageErrors.ScanningPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting validation runs failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting validation runs failed")
		return nil, methodErr
	case result := <-chanOk:
		s.log.Info().Int("count", len(result)).Msg("getting validation runs done")
		return result, nil
	}
}
