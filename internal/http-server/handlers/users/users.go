// Package users serves account routes: register, login and the own
// profile. Register and login are the only unauthenticated endpoints
// besides the public quotation link.
package users

import (
	"context"
	"fmt"
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
	Register(ctx context.Context, reg *entity.UserRegister) (*entity.User, error)
	Login(ctx context.Context, login *entity.UserLogin) (string, *entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User, upd *entity.UserUpdate) (*entity.User, error)
}

type loginResult struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.users"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func Register(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var reg entity.UserRegister
		if err := render.Bind(r, &reg); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		user, err := handler.Register(r.Context(), &reg)
		if err != nil {
			logger.Error("register", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.Error(response.MessageOf(err)))
			return
		}
		logger.Info("user registered", slog.String("user", user.Id))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(user))
	}
}

func Login(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var login entity.UserLogin
		if err := render.Bind(r, &login); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		token, user, err := handler.Login(r.Context(), &login)
		if err != nil {
			logger.Warn("login failed", sl.Err(err))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Invalid credentials"))
			return
		}
		render.JSON(w, r, response.Ok(loginResult{Token: token, User: user}))
	}
}

func Me(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := cont.GetUser(r.Context())
		render.JSON(w, r, response.Ok(user))
	}
}

func UpdateMe(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		user := cont.GetUser(r.Context())

		var upd entity.UserUpdate
		if err := render.Bind(r, &upd); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		updated, err := handler.UpdateProfile(r.Context(), user, &upd)
		if err != nil {
			logger.Error("update profile", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.Error(response.MessageOf(err)))
			return
		}
		render.JSON(w, r, response.Ok(updated))
	}
}
