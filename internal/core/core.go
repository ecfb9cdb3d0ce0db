// Package core holds the service logic: ownership-scoped CRUD over
// invoices, quotations and customers, document generation and share
// link management. Handlers talk to it through small per-package
// interfaces, collaborators are injected at startup.
package core

import (
	"context"
	"log/slog"
	"time"

	"facture/entity"
	"facture/internal/config"
	"facture/lib/sl"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Database interface {
	CreateUser(ctx context.Context, user *entity.User) error
	UserByEmail(ctx context.Context, email string) (*entity.User, error)
	UserById(ctx context.Context, id string) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) error

	CreateCustomer(ctx context.Context, customer *entity.Customer) error
	CustomerExists(ctx context.Context, customer *entity.Customer) (bool, error)
	CustomerById(ctx context.Context, id primitive.ObjectID) (*entity.Customer, error)
	CustomersByUser(ctx context.Context, user string) ([]*entity.Customer, error)

	CreateDocument(ctx context.Context, doc *entity.Document) error
	DocumentById(ctx context.Context, kind entity.DocumentKind, id primitive.ObjectID) (*entity.Document, error)
	DocumentsByIssuer(ctx context.Context, kind entity.DocumentKind, issuer string) ([]*entity.Document, error)
	LatestReference(ctx context.Context, kind entity.DocumentKind, issuer string) (string, error)
	ReplaceDocument(ctx context.Context, doc *entity.Document) error
	DeleteDocument(ctx context.Context, kind entity.DocumentKind, id primitive.ObjectID) error
	SetDocumentFile(ctx context.Context, kind entity.DocumentKind, id primitive.ObjectID, filename string) error

	UpsertShareLink(ctx context.Context, document primitive.ObjectID, url string) (*entity.ShareLink, error)
	ShareLinkByDocument(ctx context.Context, document primitive.ObjectID) (*entity.ShareLink, error)
	DeleteShareLink(ctx context.Context, document primitive.ObjectID) error

	PrestationStats(ctx context.Context, issuer string) ([]*entity.PrestationStats, error)
	CustomerStats(ctx context.Context, issuer string) ([]*entity.CustomerStats, error)
}

type ObjectStorage interface {
	PresignedUrl(ctx context.Context, key string, expires time.Duration) (string, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

type Renderer interface {
	Render(ctx context.Context, doc *entity.DocumentRender) ([]byte, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Tasks is the fire-and-forget dispatch for background work.
type Tasks interface {
	Submit(name string, fn func(ctx context.Context) error)
}

type Core struct {
	conf  *config.Config
	db    Database
	store ObjectStorage
	pdf   Renderer
	mail  Mailer
	tasks Tasks
	log   *slog.Logger
}

func New(conf *config.Config, db Database, store ObjectStorage, pdf Renderer, mail Mailer, tasks Tasks, log *slog.Logger) *Core {
	return &Core{
		conf:  conf,
		db:    db,
		store: store,
		pdf:   pdf,
		mail:  mail,
		tasks: tasks,
		log:   log.With(sl.Module("core")),
	}
}
