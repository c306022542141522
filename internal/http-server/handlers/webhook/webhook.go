// Package webhook is the notification trigger's HTTP target. The store's
// database webhook posts every insert on the registrations table here; the
// handler forwards the record to the notification channels. A failed
// delivery never touches the already-persisted registration.
package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"reunion/entity"
)

// InsertEvent mirrors the store's database-webhook payload.
type InsertEvent struct {
	Type   string               `json:"type"`
	Table  string               `json:"table"`
	Record *entity.Registration `json:"record"`
}

type Core interface {
	NotifyRegistration(ctx context.Context, reg *entity.Registration) error
}

func Registration(logger *slog.Logger, handler Core, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			log.With(slog.Any("error", err)).Error("read request body")
			http.Error(w, "read", http.StatusBadRequest)
			return
		}

		sig := r.Header.Get("X-Webhook-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(sig), []byte(secret)) != 1 {
			log.Error("invalid webhook secret")
			http.Error(w, "secret", http.StatusUnauthorized)
			return
		}

		var evt InsertEvent
		if err = json.Unmarshal(payload, &evt); err != nil {
			log.With(slog.Any("error", err)).Error("unmarshal event")
			http.Error(w, "json", http.StatusBadRequest)
			return
		}

		log = log.With(
			slog.String("type", evt.Type),
			slog.String("table", evt.Table),
		)

		if evt.Type != "INSERT" || evt.Table != "registrations" {
			log.Debug("event ignored")
			w.WriteHeader(http.StatusOK)
			return
		}
		if evt.Record == nil {
			log.Error("event has no record")
			http.Error(w, "record", http.StatusBadRequest)
			return
		}

		if err = handler.NotifyRegistration(r.Context(), evt.Record); err != nil {
			log.With(slog.Any("error", err)).Error("notify registration")
			http.Error(w, "notify", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
