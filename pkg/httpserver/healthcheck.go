package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/saasforge/tenantkit/pkg/logger"
)

// HealthCheckHandler serves liveness and readiness probes. Without probe
// functions it always answers 200 "ALIVE". With probes it runs each one
// and answers 200 "READY" only when all succeed, 500 "NOT_READY" otherwise.
// These are the endpoints the tenant middleware allow-list leaves open.
func HealthCheckHandler(ctx context.Context, log *slog.Logger, probes ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(probes) == 0 {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ALIVE"))
			return
		}

		for _, probe := range probes {
			if err := probe(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
