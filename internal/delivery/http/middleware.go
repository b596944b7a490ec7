package httpd

import (
	"log/slog"
	"net/http"
	"time"

	"aegis_admin/internal/auth"

	"github.com/go-chi/chi/v5/middleware"
)

const authRoute = "/auth"

// RequireAdmin checks the session on every request and turns away callers
// that are not logged in as admin.
func RequireAdmin(s *auth.Session) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !s.IsAdmin() {
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "admin login required",
					"redirect": authRoute,
				})
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		}
		return http.HandlerFunc(fn)
	}
}
