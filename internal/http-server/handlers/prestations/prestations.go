package prestations

import (
	"context"
	"log/slog"
	"net/http"

	"facture/entity"
	"facture/lib/api/cont"
	"facture/lib/api/response"
	"facture/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	PrestationStats(ctx context.Context, user *entity.User) ([]*entity.PrestationStats, error)
}

// Stats serves the per-title aggregation over the user's invoice rows.
func Stats(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.prestations"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		user := cont.GetUser(r.Context())

		stats, err := handler.PrestationStats(r.Context(), user)
		if err != nil {
			logger.Error("prestation stats", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.Error(response.MessageOf(err)))
			return
		}
		render.JSON(w, r, response.Ok(stats))
	}
}
