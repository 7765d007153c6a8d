// Package http provides CLI commands definitions and execution logic.

package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "nbgrader-validate/docs"
	"nbgrader-validate/internal/api/v1/rest/middleware"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/extension"
	"nbgrader-validate/internal/syncutils"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/urfave/cli/v2"
)

// ServeCommand defines a new command struct and sets its attributes.
type ServeCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	extension *extension.Extension
	syncUtils *syncutils.SyncUtils
}

// NewServeCommand creates a new command instance.
func NewServeCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	extension *extension.Extension,
	syncUtils *syncutils.SyncUtils,
) *ServeCommand {
	logger.Debug().Msg("calling initializer of http:serve command")
	return &ServeCommand{
		log:       logger,
		cfg:       cfg,
		syncUtils: syncUtils,
		extension: extension,
	}
}

// Describe handles command description when invoked.
func (t *ServeCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "http",
		Name:     "http:serve",
		Usage:    "Start HTTP server exposing the notebook validate endpoint",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP port, overrides the port of SERVER_ADDRESS",
				Aliases: []string{"p"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Base URL prefix, overrides BASE_URL",
			},
		},
	}
}

// Router builds the HTTP router serving the extension under baseURL.
func (t *ServeCommand) Router(baseURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CompressHandle)
	r.Use(middleware.DecompressHandle)
	t.extension.RegisterRoutes(r, baseURL)
	r.Mount(extension.DocPath(baseURL), httpSwagger.WrapHandler)
	return r
}

// Execute runs the command-associated execution logic.
func (t *ServeCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "http:serve"
		handlerKey = "cli_command"
	)
	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	addr := t.cfg.Server.ServerAddress
	if ctx.IsSet("port") {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = ""
		}
		addr = net.JoinHostPort(host, strconv.Itoa(ctx.Int("port")))
		t.log.Warn().Str("env address", t.cfg.Server.ServerAddress).Str("kwargs address", addr).Msg("server address override")
	}
	baseURL := t.cfg.Server.BaseURL
	if ctx.IsSet("base-url") {
		baseURL = ctx.String("base-url")
	}

	t.extension.Initialize()

	srv := &http.Server{
		Addr:         addr,
		Handler:      t.Router(baseURL),
		IdleTimeout:  t.cfg.Server.IdleTimeout,
		ReadTimeout:  t.cfg.Server.ReadTimeout,
		WriteTimeout: t.cfg.Server.WriteTimeout,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	t.syncUtils.Wg.Add(1)
	go func() {
		defer t.syncUtils.Wg.Done()
		select {
		case <-done:
		case <-t.syncUtils.Ctx.Done():
		}
		t.log.Info().Msg("server shutdown attempted")
		ctxTO, cancelTO := context.WithTimeout(context.Background(), 5*time.Second)
		defer func() {
			t.syncUtils.SyncCancel()
			cancelTO()
		}()
		if err := srv.Shutdown(ctxTO); err != nil {
			t.log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	t.log.Info().Str("address", addr).Str("route", extension.RoutePath(baseURL)).Msg("server start attempted")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		t.log.Error().Err(err).Msg("server start failed")
		t.syncUtils.Shutdown()
		return err
	}

	t.syncUtils.Wg.Wait()

	t.log.Info().Msg("server shutdown succeeded")
	return nil
}
