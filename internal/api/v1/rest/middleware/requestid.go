package middleware

import (
	"context"
	"net/http"

	"nbgrader-validate/internal/constants"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDHandle assigns every request an identifier, reusing a valid incoming X-Request-Id.
func RequestIDHandle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		w.Header().Set(constants.RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID)))
	})
}

// RequestID returns the request identifier stored by RequestIDHandle, or a fresh one.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return uuid.New().String()
}
