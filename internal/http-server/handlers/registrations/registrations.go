package registrations

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"reunion/entity"
	"reunion/lib/api/cont"
	"reunion/lib/api/response"
	"reunion/lib/sl"
)

type Core interface {
	Registrations(ctx context.Context) ([]*entity.Registration, error)
}

// List serves the full registrations table to authenticated organizers.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := cont.GetUser(r.Context())
		logger := log.With(
			sl.Module("http.handlers.registrations"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("user", user.Username),
		)

		regs, err := handler.Registrations(r.Context())
		if err != nil {
			logger.Error("list registrations", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Registrations not available"))
			return
		}
		logger.Debug("registrations listed", slog.Int("count", len(regs)))

		render.JSON(w, r, response.Ok(regs))
	}
}
