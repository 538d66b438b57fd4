package controllers

import (
	"context"
	"net/http"

	"github.com/merchkit/bxgy-backend/api/responses"
	"github.com/merchkit/bxgy-backend/pkg/config"
	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
	"github.com/merchkit/bxgy-backend/pkg/logger"
)

// Pinger reports whether a backing resource is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bxgy-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datastore and, when wired, the idempotency store.
// Nil pingers are treated as not configured and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bxgy-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true
		for name, p := range map[string]Pinger{"db": dbP, "redis": redisP} {
			if p == nil {
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				checks[name] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "resource", name), "readiness check failed", err)
				}
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "backing resources unreachable").WithDetails(checks))
			return
		}

		payload := map[string]any{"status": "ready"}
		if len(checks) > 0 {
			payload["checks"] = checks
		}
		responses.WriteSuccess(w, payload)
	}
}
