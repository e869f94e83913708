package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/models/entities"
)

const healthProbeKey = "HEALTH_PROBE"

var errCacheProbe = errors.New("cache probe not readable")

// probe times check and turns its error into a component status.
func probe(okDetails string, check func() error) entities.ComponentStatus {
	start := time.Now()
	err := check()
	status := entities.ComponentStatus{
		Status:    entities.HealthOK,
		Details:   okDetails,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Status = entities.HealthDown
		status.Details = err.Error()
	}
	return status
}

// HealthCheckHandler handles GET /healthCheck
//
// Pings the database and round-trips a key through the cache. Answers 503
// when either is down.
func HealthCheckHandler(db *sqlx.DB, cache common.CacheInterface, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		components := map[string]entities.ComponentStatus{
			"database": probe("Database connected", func() error {
				return db.PingContext(ctx)
			}),
			"cache": probe("Cache reachable", func() error {
				if err := cache.Set(ctx, healthProbeKey, []byte("1"), time.Minute); err != nil {
					return err
				}
				if _, ok := cache.Get(ctx, healthProbeKey); !ok {
					return errCacheProbe
				}
				return nil
			}),
		}

		overall := entities.HealthOK
		code := http.StatusOK
		for _, c := range components {
			if c.Status != entities.HealthOK {
				overall = entities.HealthDown
				code = http.StatusServiceUnavailable
				break
			}
		}

		common.WriteJSON(w, code, entities.HealthCheckResponse{
			Status:     overall,
			Components: components,
			UpSince:    upSince,
			Uptime:     time.Since(upSince).Round(time.Second).String(),
		})
	}
}
