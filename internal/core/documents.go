package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"facture/entity"
	"facture/lib/clock"
	"facture/lib/reference"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateDocument persists a new invoice or quotation. When the caller
// supplies no reference, the next one is derived from the user's most
// recent document of the same kind.
func (c *Core) CreateDocument(ctx context.Context, user *entity.User, kind entity.DocumentKind, create *entity.DocumentCreate) (*entity.Document, error) {
	if create.Reference == "" {
		latest, err := c.db.LatestReference(ctx, kind, user.Id)
		if err != nil {
			return nil, err
		}
		next, err := reference.Next(latest, clock.Year())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
		}
		create.Reference = next
	}

	doc := create.Document(kind, user.Id)
	if err := c.db.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	c.log.Debug("document created",
		slog.String("kind", string(kind)),
		slog.String("reference", doc.Reference),
		slog.String("user", user.Id),
	)
	return doc, nil
}

// DocumentById fetches one document, existence first, then ownership.
func (c *Core) DocumentById(ctx context.Context, user *entity.User, kind entity.DocumentKind, id primitive.ObjectID) (*entity.Document, error) {
	doc, err := c.db.DocumentById(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !doc.OwnedBy(user.Id) {
		return nil, entity.ErrForbidden
	}
	return doc, nil
}

// Documents lists the requesting user's documents of one kind.
func (c *Core) Documents(ctx context.Context, user *entity.User, kind entity.DocumentKind) ([]*entity.Document, error) {
	return c.db.DocumentsByIssuer(ctx, kind, user.Id)
}

// UpdateDocument applies a partial update. Derived totals recompute and
// the cached PDF url is dropped, the next generate recreates the file.
func (c *Core) UpdateDocument(ctx context.Context, user *entity.User, kind entity.DocumentKind, id primitive.ObjectID, upd *entity.DocumentUpdate) (*entity.Document, error) {
	doc, err := c.DocumentById(ctx, user, kind, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(doc)
	if err = c.db.ReplaceDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes the record and schedules a best-effort delete
// of the stored PDF. A storage failure never fails the response.
func (c *Core) DeleteDocument(ctx context.Context, user *entity.User, kind entity.DocumentKind, id primitive.ObjectID) (*entity.Document, error) {
	doc, err := c.DocumentById(ctx, user, kind, id)
	if err != nil {
		return nil, err
	}
	if err = c.db.DeleteDocument(ctx, kind, id); err != nil {
		return nil, err
	}

	if doc.Filename != "" {
		key := objectKey(doc.Filename)
		c.tasks.Submit("storage.delete", func(ctx context.Context) error {
			if err := c.db.DeleteShareLink(ctx, id); err != nil {
				c.logErr("delete share link", err)
			}
			return c.store.Delete(ctx, key)
		})
	}
	return doc, nil
}

// GenerateDocument assembles the rendering snapshot and hands it off to
// the background queue, answering immediately. The finished filename is
// written back out of band, the caller observes it by re-reading the
// document.
func (c *Core) GenerateDocument(ctx context.Context, user *entity.User, kind entity.DocumentKind, id primitive.ObjectID) error {
	doc, err := c.DocumentById(ctx, user, kind, id)
	if err != nil {
		return err
	}
	customer, err := c.db.CustomerById(ctx, doc.Customer)
	if err != nil {
		return err
	}

	issuer := user.Issuer()
	if kind == entity.KindQuotation {
		// bank details are not printed on quotations
		issuer.Rib = nil
	}
	render := &entity.DocumentRender{
		Kind:        kind,
		Title:       doc.Title,
		Reference:   doc.Reference,
		Emitted:     doc.Emitted,
		Issuer:      issuer,
		Customer:    *customer,
		Prestations: doc.Prestations,
	}

	// keep the existing filename to overwrite the stored object
	filename := doc.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s-%s", kind, uuid.NewString())
	}

	c.tasks.Submit("pdf.generate", func(ctx context.Context) error {
		data, err := c.pdf.Render(ctx, render)
		if err != nil {
			return fmt.Errorf("render %s: %w", doc.Reference, err)
		}
		if err = c.store.Upload(ctx, objectKey(filename), data, "application/pdf"); err != nil {
			return err
		}
		return c.db.SetDocumentFile(ctx, kind, id, filename)
	})

	c.log.Info("generation scheduled",
		slog.String("kind", string(kind)),
		slog.String("document", id.Hex()),
	)
	return nil
}

// PublicLink returns the current share link for a document, minting a
// fresh presigned url when none is live. No ownership check, the link
// is meant for the recipient.
func (c *Core) PublicLink(ctx context.Context, kind entity.DocumentKind, id primitive.ObjectID) (*entity.ShareLink, error) {
	link, err := c.db.ShareLinkByDocument(ctx, id)
	if err == nil && !link.Expired() {
		return link, nil
	}
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}

	doc, err := c.db.DocumentById(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if doc.Filename == "" {
		// nothing rendered yet, nothing to share
		return nil, entity.ErrNotFound
	}

	url, err := c.store.PresignedUrl(ctx, objectKey(doc.Filename), entity.ShareLinkTTL)
	if err != nil {
		return nil, err
	}

	if link != nil {
		// expired but not yet reaped by the TTL index
		if err = c.db.DeleteShareLink(ctx, id); err != nil {
			c.logErr("drop expired share link", err)
		}
	}
	return c.db.UpsertShareLink(ctx, id, url)
}

// PrestationStats aggregates the user's invoice rows by title.
func (c *Core) PrestationStats(ctx context.Context, user *entity.User) ([]*entity.PrestationStats, error) {
	return c.db.PrestationStats(ctx, user.Id)
}

func objectKey(filename string) string {
	return filename + ".pdf"
}
