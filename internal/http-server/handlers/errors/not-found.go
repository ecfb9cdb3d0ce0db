package errors

import (
	"log/slog"
	"net/http"

	"facture/lib/api/response"

	"github.com/go-chi/render"
)

func NotFound(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, 404)
		render.JSON(w, r, response.Error("Requested resource not found"))
	}
}
