// Package health serves the liveness endpoint shared by the services.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/respond"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Status struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Error   string `json:"error,omitempty"`
}

// Handler reports 200 when db answers a ping within two seconds, 503 otherwise.
func Handler(service string, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Health check failed")
			respond.JSON(w, http.StatusServiceUnavailable, Status{
				Status:  "unhealthy",
				Service: service,
				Error:   "database unreachable",
			})
			return
		}

		respond.JSON(w, http.StatusOK, Status{Status: "healthy", Service: service})
	}
}
