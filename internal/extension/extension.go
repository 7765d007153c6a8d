// Package extension bootstraps the validate service: it locks the competing nbgrader
// labextension and registers the validate route.

package extension

import (
	"context"
	"path"

	"nbgrader-validate/internal/api/v1/rest/handlers"
	"nbgrader-validate/internal/api/v1/rest/middleware"
	"nbgrader-validate/internal/auth"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/constants"
	"nbgrader-validate/internal/processor/v1/processor"
	"nbgrader-validate/internal/syncutils"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

// Extension defines a new object and sets its attributes.
type Extension struct {
	log       *zerolog.Logger
	cfg       *config.Config
	proc      *processor.Processor
	handlers  *handlers.EndpointHandlers
	auth      *auth.Authenticator
	syncUtils *syncutils.SyncUtils
}

// NewExtension initializes a new Extension instance.
func NewExtension(
	logger *zerolog.Logger,
	cfg *config.Config,
	proc *processor.Processor,
	endpointHandlers *handlers.EndpointHandlers,
	authenticator *auth.Authenticator,
	syncUtils *syncutils.SyncUtils,
) *Extension {
	logger.Debug().Msg("calling initializer of extension service")
	return &Extension{
		log:       logger,
		cfg:       cfg,
		proc:      proc,
		handlers:  endpointHandlers,
		auth:      authenticator,
		syncUtils: syncUtils,
	}
}

// RoutePath joins baseURL with the service and action segments.
func RoutePath(baseURL string) string {
	return path.Join("/", baseURL, constants.ServiceSegment, constants.ActionSegment)
}

// DocPath joins baseURL with the service and documentation segments.
func DocPath(baseURL string) string {
	return path.Join("/", baseURL, constants.ServiceSegment, constants.DocSegment)
}

// Initialize starts the one-time bootstrap in the background. It never blocks and never fails.
func (e *Extension) Initialize() {
	e.log.Debug().Msg("calling `Initialize` method")
	switch {
	case !e.auth.Enabled():
		e.log.Warn().Msg("AUTH_DISABLED is set, the validate route accepts unauthenticated requests")
	case e.auth.Generated():
		e.log.Warn().Str("token", e.auth.Token()).Msg("neither SERVER_TOKEN nor JWT_SECRET is set, using a generated server token")
	}
	if e.cfg.Jupyter.LockDisabled {
		e.log.Info().Msg("labextension lock is disabled")
		return
	}
	e.syncUtils.Go(e.DisableCompetingValidator)
}

// DisableCompetingValidator locks the competing labextension. Failures are logged and swallowed.
func (e *Extension) DisableCompetingValidator(ctx context.Context) {
	e.log.Debug().Msg("calling `DisableCompetingValidator` method")
	name := e.cfg.Jupyter.CompetingExtension
	if err := e.proc.LockExtension(ctx); err != nil {
		e.log.Warn().Err(err).Str("extension", name).Msg("could not lock competing labextension")
		return
	}
	e.log.Info().Str("extension", name).Msg("competing labextension locked")
}

// RegisterRoutes registers the authenticated validate route under baseURL and returns its path.
func (e *Extension) RegisterRoutes(r chi.Router, baseURL string) string {
	e.log.Debug().Msg("calling `RegisterRoutes` method")
	route := RoutePath(baseURL)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestIDHandle)
		r.Use(middleware.AuthHandle(e.auth, e.log))
		r.Post(route, e.handlers.ValidateHandle)
	})
	e.log.Info().Str("route", route).Msg("registered nbgrader validate extension")
	return route
}
