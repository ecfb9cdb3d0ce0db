// Package documents serves the invoice and quotation routes. Both
// kinds share the handlers, the kind is fixed when the route is built.
package documents

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
	Documents(ctx context.Context, user *entity.User, kind entity.DocumentKind) ([]*entity.Document, error)
	DocumentById(ctx context.Context, user *entity.User, kind entity.DocumentKind, id primitive.ObjectID) (*entity.Document, error)
	CreateDocument(ctx context.Context, user *entity.User, kind entity.DocumentKind, create *entity.DocumentCreate) (*entity.Document, error)
	UpdateDocument(ctx context.Context, user *entity.User, kind entity.DocumentKind, id primitive.ObjectID, upd *entity.DocumentUpdate) (*entity.Document, error)
	DeleteDocument(ctx context.Context, user *entity.User, kind entity.DocumentKind, id primitive.ObjectID) (*entity.Document, error)
	GenerateDocument(ctx context.Context, user *entity.User, kind entity.DocumentKind, id primitive.ObjectID) error
	PublicLink(ctx context.Context, kind entity.DocumentKind, id primitive.ObjectID) (*entity.ShareLink, error)
}

func requestLogger(log *slog.Logger, r *http.Request, kind entity.DocumentKind) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.documents"),
		slog.String("kind", string(kind)),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func documentId(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}

func invalidId(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnprocessableEntity)
	render.JSON(w, r, response.Error("Invalid document id"))
}

func domainError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Error("request failed", sl.Err(err))
	render.Status(r, response.StatusOf(err))
	render.JSON(w, r, response.Error(response.MessageOf(err)))
}

func List(log *slog.Logger, handler Core, kind entity.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, kind)
		user := cont.GetUser(r.Context())

		docs, err := handler.Documents(r.Context(), user, kind)
		if err != nil {
			domainError(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(docs))
	}
}

func Get(log *slog.Logger, handler Core, kind entity.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, kind)
		user := cont.GetUser(r.Context())

		id, err := documentId(r)
		if err != nil {
			invalidId(w, r)
			return
		}
		doc, err := handler.DocumentById(r.Context(), user, kind, id)
		if err != nil {
			domainError(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(doc))
	}
}

func Create(log *slog.Logger, handler Core, kind entity.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, kind)
		user := cont.GetUser(r.Context())

		var create entity.DocumentCreate
		if err := render.Bind(r, &create); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		doc, err := handler.CreateDocument(r.Context(), user, kind, &create)
		if err != nil {
			domainError(w, r, logger, err)
			return
		}
		logger.Debug("document created", slog.String("reference", doc.Reference))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(doc))
	}
}

// Update reads the document id from the query string, the PATCH route
// has no path parameter.
func Update(log *slog.Logger, handler Core, kind entity.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, kind)
		user := cont.GetUser(r.Context())

		idParam := r.URL.Query().Get(string(kind) + "_id")
		id, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			invalidId(w, r)
			return
		}

		var upd entity.DocumentUpdate
		if err := render.Bind(r, &upd); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		doc, err := handler.UpdateDocument(r.Context(), user, kind, id, &upd)
		if err != nil {
			domainError(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(doc))
	}
}

func Delete(log *slog.Logger, handler Core, kind entity.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, kind)
		user := cont.GetUser(r.Context())

		id, err := documentId(r)
		if err != nil {
			invalidId(w, r)
			return
		}
		doc, err := handler.DeleteDocument(r.Context(), user, kind, id)
		if err != nil {
			domainError(w, r, logger, err)
			return
		}
		logger.Debug("document deleted", slog.String("reference", doc.Reference))
		render.JSON(w, r, response.Ok(doc))
	}
}

// Generate schedules the PDF rendering and answers 202 right away, the
// filename shows up on the document once the background job is done.
func Generate(log *slog.Logger, handler Core, kind entity.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, kind)
		user := cont.GetUser(r.Context())

		id, err := documentId(r)
		if err != nil {
			invalidId(w, r)
			return
		}
		if err = handler.GenerateDocument(r.Context(), user, kind, id); err != nil {
			domainError(w, r, logger, err)
			return
		}
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, response.Ok("Accepted"))
	}
}

// PublicLink is the only unauthenticated document route, it serves the
// time-limited share link for a rendered quotation.
func PublicLink(log *slog.Logger, handler Core, kind entity.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, kind)

		id, err := documentId(r)
		if err != nil {
			invalidId(w, r)
			return
		}
		link, err := handler.PublicLink(r.Context(), kind, id)
		if err != nil {
			domainError(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(link))
	}
}
