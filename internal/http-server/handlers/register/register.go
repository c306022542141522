package register

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"reunion/entity"
	"reunion/lib/api/response"
	"reunion/lib/sl"
)

type Core interface {
	SubmitRegistration(ctx context.Context, form *entity.RegistrationForm) (*entity.Registration, error)
}

// Submit handles POST /register: one submission attempt through the
// pipeline, with each failure kind mapped to its own status and message.
func Submit(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.register")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var form entity.RegistrationForm
		if err := render.Bind(r, &form); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		reg, err := handler.SubmitRegistration(r.Context(), &form)
		if err != nil {
			renderSubmitError(w, r, logger, err)
			return
		}
		logger.Debug("registration accepted", slog.String("code", reg.ReferralCode))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(reg))
	}
}

func renderSubmitError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErr *entity.ValidationError
	var storeErr *entity.StoreError

	switch {
	case errors.As(err, &validationErr):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Invalid(validationErr.Fields))
	case errors.Is(err, entity.ErrDuplicateEmail):
		logger.Info("duplicate email rejected")
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("This email is already registered."))
	case errors.Is(err, entity.ErrUnknownOutcome):
		logger.Error("submit registration", sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("We could not confirm your registration. You may already be registered, please check your email before trying again."))
	case errors.Is(err, entity.ErrDuplicateReferralCode),
		errors.Is(err, entity.ErrIssuanceExhausted):
		// transient: a resubmission re-runs the issuer with fresh candidates
		logger.Error("submit registration", sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("Something went wrong. Please try again."))
	case errors.As(err, &storeErr):
		logger.Error("submit registration", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(storeErr.Error()))
	default:
		logger.Error("submit registration", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Something went wrong. Please try again."))
	}
}

// Branches serves the closed list of disciplines for the form's select.
func Branches(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(entity.Branches))
	}
}
