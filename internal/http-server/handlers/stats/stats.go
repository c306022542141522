package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"reunion/entity"
	"reunion/lib/api/response"
	"reunion/lib/sl"
)

type Core interface {
	Stats(ctx context.Context) (*entity.Stats, error)
	WorldMap(ctx context.Context) ([]*entity.CountryCount, error)
}

// Live serves the landing page counters: total registrations, distinct
// cities and distinct countries.
func Live(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.stats"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		stats, err := handler.Stats(r.Context())
		if err != nil {
			logger.Error("count stats", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Stats not available"))
			return
		}

		render.JSON(w, r, response.Ok(stats))
	}
}

// WorldMap serves per-country registrant counts for the heat map.
func WorldMap(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.stats"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		points, err := handler.WorldMap(r.Context())
		if err != nil {
			logger.Error("count by country", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Map data not available"))
			return
		}

		render.JSON(w, r, response.Ok(points))
	}
}
