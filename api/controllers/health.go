package controllers

import (
	"net/http"

	"github.com/openshelf/storefront-backend/api/responses"
	"github.com/openshelf/storefront-backend/pkg/config"
	"github.com/openshelf/storefront-backend/pkg/db"
	pkgerrors "github.com/openshelf/storefront-backend/pkg/errors"
	"github.com/openshelf/storefront-backend/pkg/logger"
	"github.com/openshelf/storefront-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		checks := map[string]string{
			"database": "ok",
			"redis":    "ok",
		}

		if dbP == nil {
			checks["database"] = "unavailable"
		} else if err := dbP.Ping(r.Context()); err != nil {
			checks["database"] = "down"
		}

		if redisP == nil {
			checks["redis"] = "unavailable"
		} else if err := redisP.Ping(r.Context()); err != nil {
			checks["redis"] = "down"
		}

		for _, status := range checks {
			if status != "ok" {
				err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies not ready")
				err = err.WithDetails(checks)
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
