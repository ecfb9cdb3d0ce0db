package entity

import (
	"net/http"
	"time"

	"facture/lib/validate"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentKind string

const (
	KindInvoice   DocumentKind = "invoice"
	KindQuotation DocumentKind = "quotation"
)

// Document is an invoice or a quotation, the kind field discriminates.
// Quotations additionally carry a title. TotalWithoutCharge is derived
// from the prestations and recomputed on every write, it is never
// settable from outside.
type Document struct {
	Id                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Kind               DocumentKind       `json:"kind" bson:"kind"`
	Title              string             `json:"title,omitempty" bson:"title,omitempty"`
	Reference          string             `json:"reference" bson:"reference"`
	Emitted            time.Time          `json:"emited" bson:"emited"`
	Issuer             string             `json:"issuer" bson:"issuer"`
	Customer           primitive.ObjectID `json:"customer" bson:"customer"`
	Prestations        Prestations        `json:"prestations" bson:"prestations"`
	Filename           string             `json:"filename,omitempty" bson:"filename,omitempty"`
	PdfUrl             string             `json:"pdf_url,omitempty" bson:"pdf_url,omitempty"`
	TotalWithoutCharge float64            `json:"total_without_charge" bson:"total_without_charge"`
}

// Normalize recomputes every derived amount from the prestations.
func (d *Document) Normalize() {
	d.Prestations.Normalize()
	d.TotalWithoutCharge = d.Prestations.TotalWithoutCharge()
}

// OwnedBy reports whether the document belongs to the given user.
func (d *Document) OwnedBy(user string) bool {
	return d.Issuer == user
}

// DocumentCreate is the payload for creating an invoice or quotation.
// A missing reference is assigned by the service from the latest prior
// document of the same kind.
type DocumentCreate struct {
	Reference   string             `json:"reference,omitempty"`
	Title       string             `json:"title,omitempty"`
	Emitted     time.Time          `json:"emited"`
	Customer    primitive.ObjectID `json:"customer" validate:"required"`
	Prestations Prestations        `json:"prestations" validate:"dive"`
}

func (d *DocumentCreate) Bind(_ *http.Request) error {
	if d.Emitted.IsZero() {
		d.Emitted = time.Now()
	}
	d.Prestations.Normalize()
	return validate.Struct(d)
}

// Document builds the persisted entity for the given kind and owner.
func (d *DocumentCreate) Document(kind DocumentKind, issuer string) *Document {
	doc := &Document{
		Kind:        kind,
		Title:       d.Title,
		Reference:   d.Reference,
		Emitted:     d.Emitted,
		Issuer:      issuer,
		Customer:    d.Customer,
		Prestations: d.Prestations,
	}
	doc.Normalize()
	return doc
}

// DocumentUpdate is a partial update, only the fields present in the
// payload are applied.
type DocumentUpdate struct {
	Reference   *string             `json:"reference,omitempty"`
	Title       *string             `json:"title,omitempty"`
	Emitted     *time.Time          `json:"emited,omitempty"`
	Customer    *primitive.ObjectID `json:"customer,omitempty"`
	Prestations *Prestations        `json:"prestations,omitempty"`
}

func (d *DocumentUpdate) Bind(_ *http.Request) error {
	if d.Prestations != nil {
		d.Prestations.Normalize()
	}
	return validate.Struct(d)
}

// Apply copies the present fields onto the document, recomputes the
// derived totals and drops the cached PDF url, a regeneration is needed
// after any change.
func (d *DocumentUpdate) Apply(doc *Document) {
	if d.Reference != nil {
		doc.Reference = *d.Reference
	}
	if d.Title != nil {
		doc.Title = *d.Title
	}
	if d.Emitted != nil {
		doc.Emitted = *d.Emitted
	}
	if d.Customer != nil {
		doc.Customer = *d.Customer
	}
	if d.Prestations != nil {
		doc.Prestations = *d.Prestations
	}
	doc.PdfUrl = ""
	doc.Normalize()
}

// DocumentRender is the rendering-ready snapshot handed to the PDF
// generator: the document rows plus the issuer profile and the customer
// as they are at generation time.
type DocumentRender struct {
	Kind        DocumentKind
	Title       string
	Reference   string
	Emitted     time.Time
	Issuer      Issuer
	Customer    Customer
	Prestations Prestations
}
