package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mindcare/mindcare-be/internal/http/respond"
)

// Recovery turns handler panics into 500 responses.
func Recovery(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.ErrorContext(r.Context(), "panic recovered",
					"path", r.URL.Path,
					"panic", err,
					"stack", string(debug.Stack()),
				)
				respond.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
