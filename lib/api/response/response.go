package response

import (
	"errors"
	"net/http"

	"facture/entity"
	"facture/lib/clock"
)

type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Success       bool        `json:"success" validate:"required"`
	StatusMessage string      `json:"status_message"`
	Timestamp     string      `json:"timestamp"`
}

func Ok(data interface{}) Response {
	return Response{
		Data:          data,
		Success:       true,
		StatusMessage: "Success",
		Timestamp:     clock.Now(),
	}
}

func Error(message string) Response {
	return Response{
		Success:       false,
		StatusMessage: message,
		Timestamp:     clock.Now(),
	}
}

// StatusOf maps a domain error to its HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf is the client-facing text for a domain error. Internal
// errors stay internal.
func MessageOf(err error) string {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return "Not found"
	case errors.Is(err, entity.ErrForbidden):
		return "Forbidden"
	case errors.Is(err, entity.ErrConflict):
		return "Already exists"
	case errors.Is(err, entity.ErrValidation):
		return "Invalid input: " + err.Error()
	default:
		return "Internal error"
	}
}
