package core

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"facture/entity"
	"facture/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeDB is an in-memory Database, enough state to drive the service
// paths under test.
type fakeDB struct {
	users     map[string]*entity.User
	customers map[primitive.ObjectID]*entity.Customer
	docs      map[entity.DocumentKind]map[primitive.ObjectID]*entity.Document
	links     map[primitive.ObjectID]*entity.ShareLink
	order     []primitive.ObjectID
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:     make(map[string]*entity.User),
		customers: make(map[primitive.ObjectID]*entity.Customer),
		docs: map[entity.DocumentKind]map[primitive.ObjectID]*entity.Document{
			entity.KindInvoice:   {},
			entity.KindQuotation: {},
		},
		links: make(map[primitive.ObjectID]*entity.ShareLink),
	}
}

func (f *fakeDB) CreateUser(_ context.Context, user *entity.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return entity.ErrConflict
		}
	}
	f.users[user.Id] = user
	return nil
}

func (f *fakeDB) UserByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (f *fakeDB) UserById(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeDB) UpdateUser(_ context.Context, user *entity.User) error {
	f.users[user.Id] = user
	return nil
}

func (f *fakeDB) CreateCustomer(_ context.Context, customer *entity.Customer) error {
	customer.Id = primitive.NewObjectID()
	f.customers[customer.Id] = customer
	return nil
}

func (f *fakeDB) CustomerExists(_ context.Context, customer *entity.Customer) (bool, error) {
	for _, c := range f.customers {
		if c.User == customer.User && c.Company == customer.Company &&
			c.Name == customer.Name &&
			c.FirstName == customer.FirstName && c.LastName == customer.LastName &&
			c.Email == customer.Email && c.Phone == customer.Phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) CustomerById(_ context.Context, id primitive.ObjectID) (*entity.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeDB) CustomersByUser(_ context.Context, user string) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range f.customers {
		if c.User == user {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeDB) CreateDocument(_ context.Context, doc *entity.Document) error {
	doc.Id = primitive.NewObjectID()
	f.docs[doc.Kind][doc.Id] = doc
	f.order = append(f.order, doc.Id)
	return nil
}

func (f *fakeDB) DocumentById(_ context.Context, kind entity.DocumentKind, id primitive.ObjectID) (*entity.Document, error) {
	if d, ok := f.docs[kind][id]; ok {
		return d, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeDB) DocumentsByIssuer(_ context.Context, kind entity.DocumentKind, issuer string) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range f.docs[kind] {
		if d.Issuer == issuer {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDB) LatestReference(_ context.Context, kind entity.DocumentKind, issuer string) (string, error) {
	for i := len(f.order) - 1; i >= 0; i-- {
		if d, ok := f.docs[kind][f.order[i]]; ok && d.Issuer == issuer {
			return d.Reference, nil
		}
	}
	return "", nil
}

func (f *fakeDB) ReplaceDocument(_ context.Context, doc *entity.Document) error {
	if _, ok := f.docs[doc.Kind][doc.Id]; !ok {
		return entity.ErrNotFound
	}
	f.docs[doc.Kind][doc.Id] = doc
	return nil
}

func (f *fakeDB) DeleteDocument(_ context.Context, kind entity.DocumentKind, id primitive.ObjectID) error {
	if _, ok := f.docs[kind][id]; !ok {
		return entity.ErrNotFound
	}
	delete(f.docs[kind], id)
	return nil
}

func (f *fakeDB) SetDocumentFile(_ context.Context, kind entity.DocumentKind, id primitive.ObjectID, filename string) error {
	doc, ok := f.docs[kind][id]
	if !ok {
		return entity.ErrNotFound
	}
	doc.Filename = filename
	return nil
}

func (f *fakeDB) UpsertShareLink(_ context.Context, document primitive.ObjectID, url string) (*entity.ShareLink, error) {
	if link, ok := f.links[document]; ok {
		return link, nil
	}
	link := &entity.ShareLink{
		Id:       primitive.NewObjectID(),
		Document: document,
		Url:      url,
		Created:  time.Now(),
	}
	f.links[document] = link
	return link, nil
}

func (f *fakeDB) ShareLinkByDocument(_ context.Context, document primitive.ObjectID) (*entity.ShareLink, error) {
	if link, ok := f.links[document]; ok {
		return link, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeDB) DeleteShareLink(_ context.Context, document primitive.ObjectID) error {
	delete(f.links, document)
	return nil
}

func (f *fakeDB) PrestationStats(_ context.Context, _ string) ([]*entity.PrestationStats, error) {
	return nil, nil
}

func (f *fakeDB) CustomerStats(_ context.Context, _ string) ([]*entity.CustomerStats, error) {
	return nil, nil
}

type fakeStorage struct {
	uploads  map[string][]byte
	presigns int
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) PresignedUrl(_ context.Context, key string, _ time.Duration) (string, error) {
	f.presigns++
	return "https://bucket.example.com/" + key + "?signed", nil
}

func (f *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	f.uploads[key] = data
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeRenderer struct {
	last *entity.DocumentRender
}

func (f *fakeRenderer) Render(_ context.Context, doc *entity.DocumentRender) ([]byte, error) {
	f.last = doc
	return []byte("%PDF-1.4"), nil
}

// syncTasks runs submitted jobs inline so tests observe their effects
// without waiting.
type syncTasks struct{ errs []error }

func (s *syncTasks) Submit(_ string, fn func(ctx context.Context) error) {
	if err := fn(context.Background()); err != nil {
		s.errs = append(s.errs, err)
	}
}

type fixture struct {
	core  *Core
	db    *fakeDB
	store *fakeStorage
	pdf   *fakeRenderer
	tasks *syncTasks
	user  *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conf := &config.Config{
		Debug: true,
		Auth:  config.AuthConfig{Secret: "test-secret", TokenLifetime: 3600},
	}
	db := newFakeDB()
	store := newFakeStorage()
	renderer := &fakeRenderer{}
	tasks := &syncTasks{}
	log := slog.New(slog.DiscardHandler)

	user := &entity.User{
		Id:          "user-1",
		Email:       "jean@example.com",
		FirstName:   "Jean",
		LastName:    "Dupont",
		CompanyName: "Dupont Conseil",
		Rib:         &entity.RIB{Name: "Jean Dupont", Iban: "FR7630001007941234567890185", Bic: "BDFEFRPP"},
	}
	db.users[user.Id] = user

	return &fixture{
		core:  New(conf, db, store, renderer, nil, tasks, log),
		db:    db,
		store: store,
		pdf:   renderer,
		tasks: tasks,
		user:  user,
	}
}

func (f *fixture) customer(t *testing.T) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{Company: true, Name: "ACME SARL"}
	require.NoError(t, f.core.CreateCustomer(context.Background(), f.user, customer))
	return customer
}

func (f *fixture) document(t *testing.T, kind entity.DocumentKind) *entity.Document {
	t.Helper()
	doc, err := f.core.CreateDocument(context.Background(), f.user, kind, &entity.DocumentCreate{
		Emitted:  time.Now(),
		Customer: f.customer(t).Id,
		Prestations: entity.Prestations{
			{Title: "dev", UnitPrice: 500, Quantity: 2, Vat: 20},
		},
	})
	require.NoError(t, err)
	return doc
}

func TestCreateDocumentAssignsReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.customer(t)

	first, err := f.core.CreateDocument(ctx, f.user, entity.KindInvoice, &entity.DocumentCreate{
		Customer:    customer.Id,
		Prestations: entity.Prestations{{Title: "dev", UnitPrice: 100, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d-001", time.Now().Year()), first.Reference)

	second, err := f.core.CreateDocument(ctx, f.user, entity.KindInvoice, &entity.DocumentCreate{
		Customer:    customer.Id,
		Prestations: entity.Prestations{{Title: "dev", UnitPrice: 100, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d-002", time.Now().Year()), second.Reference)
}

func TestCreateDocumentKeepsGivenReference(t *testing.T) {
	f := newFixture(t)

	doc, err := f.core.CreateDocument(context.Background(), f.user, entity.KindQuotation, &entity.DocumentCreate{
		Reference:   "DEV-042",
		Customer:    f.customer(t).Id,
		Prestations: entity.Prestations{{Title: "design", UnitPrice: 300, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "DEV-042", doc.Reference)
}

func TestDocumentByIdOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.document(t, entity.KindInvoice)

	_, err := f.core.DocumentById(ctx, f.user, entity.KindInvoice, primitive.NewObjectID())
	assert.ErrorIs(t, err, entity.ErrNotFound)

	stranger := &entity.User{Id: "user-2"}
	_, err = f.core.DocumentById(ctx, stranger, entity.KindInvoice, doc.Id)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	got, err := f.core.DocumentById(ctx, f.user, entity.KindInvoice, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.Id, got.Id)
}

func TestUpdateDocumentDropsPdfUrl(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.document(t, entity.KindInvoice)
	doc.PdfUrl = "https://bucket.example.com/invoice-abc.pdf"

	title := "Maintenance"
	updated, err := f.core.UpdateDocument(ctx, f.user, entity.KindInvoice, doc.Id, &entity.DocumentUpdate{
		Title: &title,
		Prestations: &entity.Prestations{
			{Title: "maintenance", UnitPrice: 80, Quantity: 5, Vat: 20},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.PdfUrl)
	assert.Equal(t, 400.0, updated.TotalWithoutCharge)
}

func TestDeleteDocumentRemovesStoredFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.document(t, entity.KindInvoice)
	doc.Filename = "invoice-abc"
	f.db.links[doc.Id] = &entity.ShareLink{Document: doc.Id, Created: time.Now()}

	_, err := f.core.DeleteDocument(ctx, f.user, entity.KindInvoice, doc.Id)
	require.NoError(t, err)

	_, err = f.db.DocumentById(ctx, entity.KindInvoice, doc.Id)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	remaining, err := f.core.Documents(ctx, f.user, entity.KindInvoice)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.Equal(t, []string{"invoice-abc.pdf"}, f.store.deleted)
	assert.Empty(t, f.db.links)
	assert.Empty(t, f.tasks.errs)
}

func TestGenerateDocumentUploadsAndRecordsFilename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.document(t, entity.KindInvoice)

	require.NoError(t, f.core.GenerateDocument(ctx, f.user, entity.KindInvoice, doc.Id))
	require.Empty(t, f.tasks.errs)

	stored, err := f.db.DocumentById(ctx, entity.KindInvoice, doc.Id)
	require.NoError(t, err)
	require.NotEmpty(t, stored.Filename)
	assert.Contains(t, f.store.uploads, stored.Filename+".pdf")

	require.NotNil(t, f.pdf.last)
	assert.Equal(t, entity.KindInvoice, f.pdf.last.Kind)
	assert.NotNil(t, f.pdf.last.Issuer.Rib, "invoices print the bank details")
}

func TestGenerateQuotationOmitsBankDetails(t *testing.T) {
	f := newFixture(t)
	doc := f.document(t, entity.KindQuotation)

	require.NoError(t, f.core.GenerateDocument(context.Background(), f.user, entity.KindQuotation, doc.Id))
	require.Empty(t, f.tasks.errs)

	require.NotNil(t, f.pdf.last)
	assert.Nil(t, f.pdf.last.Issuer.Rib)
	assert.NotNil(t, f.user.Rib, "the profile itself stays intact")
}

func TestGenerateDocumentKeepsFilename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.document(t, entity.KindInvoice)
	doc.Filename = "invoice-abc"

	require.NoError(t, f.core.GenerateDocument(ctx, f.user, entity.KindInvoice, doc.Id))
	require.Empty(t, f.tasks.errs)
	assert.Contains(t, f.store.uploads, "invoice-abc.pdf")
	assert.Len(t, f.store.uploads, 1)
}

func TestPublicLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.document(t, entity.KindQuotation)

	_, err := f.core.PublicLink(ctx, entity.KindQuotation, doc.Id)
	assert.ErrorIs(t, err, entity.ErrNotFound, "nothing rendered yet")

	doc.Filename = "quotation-abc"
	link, err := f.core.PublicLink(ctx, entity.KindQuotation, doc.Id)
	require.NoError(t, err)
	assert.Contains(t, link.Url, "quotation-abc.pdf")
	assert.Equal(t, 1, f.store.presigns)

	again, err := f.core.PublicLink(ctx, entity.KindQuotation, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, link.Url, again.Url)
	assert.Equal(t, 1, f.store.presigns, "a live link is reused, not re-signed")
}

func TestPublicLinkReplacesExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.document(t, entity.KindQuotation)
	doc.Filename = "quotation-abc"
	f.db.links[doc.Id] = &entity.ShareLink{
		Document: doc.Id,
		Url:      "https://bucket.example.com/stale",
		Created:  time.Now().Add(-2 * entity.ShareLinkTTL),
	}

	link, err := f.core.PublicLink(ctx, entity.KindQuotation, doc.Id)
	require.NoError(t, err)
	assert.NotEqual(t, "https://bucket.example.com/stale", link.Url)
	assert.Equal(t, 1, f.store.presigns)
}

func TestPublicLinkUnknownDocument(t *testing.T) {
	f := newFixture(t)
	_, err := f.core.PublicLink(context.Background(), entity.KindQuotation, primitive.NewObjectID())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCreateCustomerRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := &entity.Customer{Company: true, Name: "ACME SARL"}
	require.NoError(t, f.core.CreateCustomer(ctx, f.user, first))

	dup := &entity.Customer{Company: true, Name: "ACME SARL"}
	assert.ErrorIs(t, f.core.CreateCustomer(ctx, f.user, dup), entity.ErrConflict)

	other := &entity.User{Id: "user-2"}
	theirs := &entity.Customer{Company: true, Name: "ACME SARL"}
	assert.NoError(t, f.core.CreateCustomer(ctx, other, theirs), "duplicates are scoped per user")
}

func TestCustomerByIdOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.customer(t)

	stranger := &entity.User{Id: "user-2"}
	_, err := f.core.CustomerById(ctx, stranger, customer.Id)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = f.core.CustomerById(ctx, f.user, primitive.NewObjectID())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.core.Register(ctx, &entity.UserRegister{
		Email:       "marie@example.com",
		Password:    "s3cret-pass",
		FirstName:   "Marie",
		LastName:    "Curie",
		CompanyName: "Curie Labs",
		Siret:       "12345678901234",
		IntracomVat: "FR12345678901",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.Id)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, logged, err := f.core.Login(ctx, &entity.UserLogin{Email: "marie@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.Id, logged.Id)

	resolved, err := f.core.AuthenticateByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.Id, resolved.Id)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.core.Register(ctx, &entity.UserRegister{
		Email:       "marie@example.com",
		Password:    "s3cret-pass",
		FirstName:   "Marie",
		LastName:    "Curie",
		CompanyName: "Curie Labs",
		Siret:       "12345678901234",
		IntracomVat: "FR12345678901",
	})
	require.NoError(t, err)

	_, _, err = f.core.Login(ctx, &entity.UserLogin{Email: "marie@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.core.Login(ctx, &entity.UserLogin{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateByTokenRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, err := f.core.AuthenticateByToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
