package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"steamsync-api/pkg/apierror"
	"steamsync-api/pkg/response"
)

// NewRecovery turns handler panics into a 500 without exposing details.
func NewRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.ErrorContext(r.Context(), "panic recovered",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					response.Error(w, apierror.InternalError(""))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
