package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/emekaorji/cartify-backend/api/responses"
	"github.com/emekaorji/cartify-backend/pkg/config"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
	"github.com/emekaorji/cartify-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cartify-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing stores before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cartify-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		failed := false

		checks["database"] = "ok"
		if db == nil {
			checks["database"] = "not configured"
			failed = true
		} else if err := db.Ping(ctx); err != nil {
			checks["database"] = "unreachable"
			failed = true
		}

		checks["redis"] = "ok"
		if redis == nil {
			checks["redis"] = "not configured"
			failed = true
		} else if err := redis.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
			failed = true
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
