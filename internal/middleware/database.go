package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mkravets/eduline/internal/database"
)

// EnsureDatabase dials the document store before the handler runs. Used in
// serverless deployments where no connection exists at cold start; once the
// instance is warm the call is a cheap nil check.
func EnsureDatabase(conn *database.Connector, log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if _, err := conn.Database(r.Context()); err != nil {
				log.Error().Err(err).Msg("Database connection failed")
				http.Error(w, "Service unavailable", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
