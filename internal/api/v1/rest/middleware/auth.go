package middleware

import (
	"net/http"

	"nbgrader-validate/internal/api/v1/errors"
	"nbgrader-validate/internal/auth"

	"github.com/rs/zerolog"
)

// AuthHandle rejects requests that do not carry valid credentials with 403.
func AuthHandle(authenticator *auth.Authenticator, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticator.Authenticate(r)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Str("request_id", RequestID(r.Context())).Msg(errors.AuthenticationError)
				http.Error(w, errors.AuthenticationError, http.StatusForbidden)
				return
			}
			if user != "" {
				logger.Debug().Str("user", user).Str("request_id", RequestID(r.Context())).Msg("request authenticated")
			}
			next.ServeHTTP(w, r)
		})
	}
}
