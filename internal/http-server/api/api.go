package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"facture/entity"
	"facture/internal/config"
	"facture/internal/http-server/handlers/customers"
	"facture/internal/http-server/handlers/documents"
	"facture/internal/http-server/handlers/errors"
	"facture/internal/http-server/handlers/prestations"
	"facture/internal/http-server/handlers/users"
	"facture/internal/http-server/middleware/authenticate"
	"facture/internal/http-server/middleware/timeout"
	"facture/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	users.Core
	documents.Core
	customers.Core
	prestations.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   conf.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/v1", func(rootApi chi.Router) {
		rootApi.Post("/auth/register", users.Register(log, handler))
		rootApi.Post("/auth/login", users.Login(log, handler))
		rootApi.Get("/quotations/{id}/public", documents.PublicLink(log, handler, entity.KindQuotation))

		rootApi.Group(func(protected chi.Router) {
			protected.Use(authenticate.New(log, handler))

			protected.Route("/users", func(u chi.Router) {
				u.Get("/me", users.Me(log))
				u.Patch("/me", users.UpdateMe(log, handler))
			})

			documentRoutes := func(path string, kind entity.DocumentKind) {
				protected.Get(path, documents.List(log, handler, kind))
				protected.Post(path, documents.Create(log, handler, kind))
				protected.Patch(path, documents.Update(log, handler, kind))
				protected.Get(path+"/{id}", documents.Get(log, handler, kind))
				protected.Delete(path+"/{id}", documents.Delete(log, handler, kind))
				protected.Get(path+"/{id}/generate", documents.Generate(log, handler, kind))
			}
			documentRoutes("/invoices", entity.KindInvoice)
			documentRoutes("/quotations", entity.KindQuotation)

			protected.Get("/customers", customers.List(log, handler))
			protected.Post("/customers", customers.Create(log, handler))
			protected.Get("/customers/stats", customers.Stats(log, handler))
			protected.Get("/customers/{id}", customers.Get(log, handler))

			protected.Get("/prestations", prestations.Stats(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// Run binds the listener and serves until Shutdown.
func (s *Server) Run() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIp, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))
	return s.httpServer.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
