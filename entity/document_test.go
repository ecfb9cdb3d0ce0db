package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDocumentCreateBindDefaultsEmitted(t *testing.T) {
	payload := &DocumentCreate{
		Customer: primitive.NewObjectID(),
		Prestations: Prestations{
			{Title: "dev", UnitPrice: 100, Quantity: 3, Vat: 20},
		},
	}
	require.NoError(t, payload.Bind(nil))
	assert.False(t, payload.Emitted.IsZero())
	assert.Equal(t, 300.0, payload.Prestations[0].Total)
}

func TestDocumentCreateBindRequiresCustomer(t *testing.T) {
	payload := &DocumentCreate{
		Prestations: Prestations{{Title: "dev", UnitPrice: 100, Quantity: 1}},
	}
	assert.Error(t, payload.Bind(nil))
}

func TestDocumentCreateBuildsNormalized(t *testing.T) {
	emitted := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	payload := &DocumentCreate{
		Reference: "2024-007",
		Title:     "Site refresh",
		Emitted:   emitted,
		Customer:  primitive.NewObjectID(),
		Prestations: Prestations{
			{Title: "dev", UnitPrice: 500, Quantity: 2, Vat: 20, Total: 1},
			{Title: "design", UnitPrice: 250, Quantity: 2, Vat: 20, Total: 1},
		},
	}

	doc := payload.Document(KindQuotation, "user-1")

	assert.Equal(t, KindQuotation, doc.Kind)
	assert.Equal(t, "user-1", doc.Issuer)
	assert.Equal(t, emitted, doc.Emitted)
	assert.Equal(t, 1500.0, doc.TotalWithoutCharge)
	assert.Equal(t, 1000.0, doc.Prestations[0].Total)
}

func TestDocumentUpdateApplyDropsPdfUrl(t *testing.T) {
	doc := &Document{
		Kind:      KindInvoice,
		Reference: "2024-001",
		Issuer:    "user-1",
		Prestations: Prestations{
			{Title: "dev", UnitPrice: 100, Quantity: 1, Vat: 20, Total: 100},
		},
		TotalWithoutCharge: 100,
		Filename:           "invoice-abc",
		PdfUrl:             "https://bucket/invoice-abc.pdf",
	}

	title := "Maintenance"
	update := &DocumentUpdate{
		Title: &title,
		Prestations: &Prestations{
			{Title: "maintenance", UnitPrice: 80, Quantity: 5, Vat: 20},
		},
	}
	update.Apply(doc)

	assert.Equal(t, "Maintenance", doc.Title)
	assert.Equal(t, 400.0, doc.TotalWithoutCharge)
	assert.Empty(t, doc.PdfUrl, "a stale pdf must not survive an update")
	assert.Equal(t, "invoice-abc", doc.Filename)
	assert.Equal(t, "2024-001", doc.Reference, "absent fields stay untouched")
}

func TestDocumentOwnedBy(t *testing.T) {
	doc := &Document{Issuer: "user-1"}
	assert.True(t, doc.OwnedBy("user-1"))
	assert.False(t, doc.OwnedBy("user-2"))
}
