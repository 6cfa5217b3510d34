package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/avqlab/mushrelay/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request an id, echoes it in the response, and
// attaches it to the logging context.
func RequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			ctx := log.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
