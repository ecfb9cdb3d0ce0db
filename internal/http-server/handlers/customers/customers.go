package customers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"facture/entity"
	"facture/lib/api/cont"
	"facture/lib/api/response"
	"facture/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Core interface {
	Customers(ctx context.Context, user *entity.User) ([]*entity.Customer, error)
	CustomerById(ctx context.Context, user *entity.User, id primitive.ObjectID) (*entity.Customer, error)
	CreateCustomer(ctx context.Context, user *entity.User, customer *entity.Customer) error
	CustomerStats(ctx context.Context, user *entity.User) ([]*entity.CustomerStats, error)
}

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.customers"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		user := cont.GetUser(r.Context())

		customers, err := handler.Customers(r.Context(), user)
		if err != nil {
			logger.Error("list customers", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.Error(response.MessageOf(err)))
			return
		}
		render.JSON(w, r, response.Ok(customers))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		user := cont.GetUser(r.Context())

		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("Invalid customer id"))
			return
		}
		customer, err := handler.CustomerById(r.Context(), user, id)
		if err != nil {
			logger.Error("get customer", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.Error(response.MessageOf(err)))
			return
		}
		render.JSON(w, r, response.Ok(customer))
	}
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		user := cont.GetUser(r.Context())

		var customer entity.Customer
		if err := render.Bind(r, &customer); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		if err := handler.CreateCustomer(r.Context(), user, &customer); err != nil {
			logger.Error("create customer", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.Error(response.MessageOf(err)))
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(customer))
	}
}

// Stats serves the per-customer aggregation over the user's invoices.
func Stats(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		user := cont.GetUser(r.Context())

		stats, err := handler.CustomerStats(r.Context(), user)
		if err != nil {
			logger.Error("customer stats", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.Error(response.MessageOf(err)))
			return
		}
		render.JSON(w, r, response.Ok(stats))
	}
}
