package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facture/entity"
	"facture/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionUsers      = "users"
	collectionCustomers  = "customers"
	collectionInvoices   = "invoices"
	collectionQuotations = "quotations"
	collectionShareLinks = "share_links"
)

// MongoDB holds the process-wide client: connected once at startup,
// closed at shutdown, injected into the core.
type MongoDB struct {
	client   *mongo.Client
	database string
}

func New(ctx context.Context, conf *config.Config) (*MongoDB, error) {
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	return &MongoDB{
		client:   client,
		database: conf.Mongo.Database,
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the service relies on: the share
// link retention window and the one-link-per-document upsert key, plus
// the unique user email.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	links := m.collection(collectionShareLinks)
	_, err := links.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(entity.ShareLinkTTL.Seconds())),
		},
		{
			Keys:    bson.D{{Key: "document", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("share link indexes: %w", err)
	}
	users := m.collection(collectionUsers)
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	return nil
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

func (m *MongoDB) documents(kind entity.DocumentKind) *mongo.Collection {
	if kind == entity.KindQuotation {
		return m.collection(collectionQuotations)
	}
	return m.collection(collectionInvoices)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.ErrNotFound
	}
	return err
}

// --- users ---

func (m *MongoDB) CreateUser(ctx context.Context, user *entity.User) error {
	_, err := m.collection(collectionUsers).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return entity.ErrConflict
	}
	return err
}

func (m *MongoDB) UserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := m.collection(collectionUsers).FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (m *MongoDB) UserById(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := m.collection(collectionUsers).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (m *MongoDB) UpdateUser(ctx context.Context, user *entity.User) error {
	filter := bson.D{{Key: "_id", Value: user.Id}}
	_, err := m.collection(collectionUsers).ReplaceOne(ctx, filter, user)
	return err
}

// --- customers ---

func (m *MongoDB) CreateCustomer(ctx context.Context, customer *entity.Customer) error {
	res, err := m.collection(collectionCustomers).InsertOne(ctx, customer)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		customer.Id = id
	}
	return nil
}

// CustomerExists looks for a customer of the same user with the exact
// same fields, used to reject duplicate creates.
func (m *MongoDB) CustomerExists(ctx context.Context, customer *entity.Customer) (bool, error) {
	count, err := m.collection(collectionCustomers).CountDocuments(ctx, customerFilter(customer))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// customerFilter mirrors how customers are stored: optional fields are
// written with omitempty, so an empty value has to match the absent
// key, not the empty string.
func customerFilter(customer *entity.Customer) bson.D {
	filter := bson.D{
		{Key: "user", Value: customer.User},
		{Key: "company", Value: customer.Company},
	}
	field := func(key, value string) {
		if value == "" {
			filter = append(filter, bson.E{Key: key, Value: bson.D{{Key: "$exists", Value: false}}})
			return
		}
		filter = append(filter, bson.E{Key: key, Value: value})
	}
	field("name", customer.Name)
	field("first_name", customer.FirstName)
	field("last_name", customer.LastName)
	field("email", customer.Email)
	field("phone", customer.Phone)
	if customer.Address != nil {
		filter = append(filter, bson.E{Key: "address", Value: customer.Address})
	} else {
		filter = append(filter, bson.E{Key: "address", Value: bson.D{{Key: "$exists", Value: false}}})
	}
	return filter
}

func (m *MongoDB) CustomerById(ctx context.Context, id primitive.ObjectID) (*entity.Customer, error) {
	var customer entity.Customer
	err := m.collection(collectionCustomers).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&customer)
	if err != nil {
		return nil, notFound(err)
	}
	return &customer, nil
}

func (m *MongoDB) CustomersByUser(ctx context.Context, user string) ([]*entity.Customer, error) {
	cursor, err := m.collection(collectionCustomers).Find(ctx, bson.D{{Key: "user", Value: user}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var customers []*entity.Customer
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// --- documents ---

func (m *MongoDB) CreateDocument(ctx context.Context, doc *entity.Document) error {
	res, err := m.documents(doc.Kind).InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.Id = id
	}
	return nil
}

func (m *MongoDB) DocumentById(ctx context.Context, kind entity.DocumentKind, id primitive.ObjectID) (*entity.Document, error) {
	var doc entity.Document
	err := m.documents(kind).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	return &doc, nil
}

func (m *MongoDB) DocumentsByIssuer(ctx context.Context, kind entity.DocumentKind, issuer string) ([]*entity.Document, error) {
	cursor, err := m.documents(kind).Find(ctx, bson.D{{Key: "issuer", Value: issuer}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*entity.Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// LatestReference returns the reference of the most recent document of
// the issuer, sorted by emission time descending with the object id as
// a stable tie break. Empty string when the issuer has none.
func (m *MongoDB) LatestReference(ctx context.Context, kind entity.DocumentKind, issuer string) (string, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "emited", Value: -1}, {Key: "_id", Value: -1}})
	var doc entity.Document
	err := m.documents(kind).FindOne(ctx, bson.D{{Key: "issuer", Value: issuer}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.Reference, nil
}

func (m *MongoDB) ReplaceDocument(ctx context.Context, doc *entity.Document) error {
	filter := bson.D{{Key: "_id", Value: doc.Id}}
	_, err := m.documents(doc.Kind).ReplaceOne(ctx, filter, doc)
	return err
}

func (m *MongoDB) DeleteDocument(ctx context.Context, kind entity.DocumentKind, id primitive.ObjectID) error {
	_, err := m.documents(kind).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}

// SetDocumentFile writes back the rendered filename, called from the
// background generation job.
func (m *MongoDB) SetDocumentFile(ctx context.Context, kind entity.DocumentKind, id primitive.ObjectID, filename string) error {
	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "filename", Value: filename}}}}
	_, err := m.documents(kind).UpdateOne(ctx, filter, update)
	return err
}

// --- share links ---

// UpsertShareLink creates the link for a document or returns the
// current one. The atomic upsert keyed by the document id keeps a
// single live link even under concurrent callers.
func (m *MongoDB) UpsertShareLink(ctx context.Context, document primitive.ObjectID, url string) (*entity.ShareLink, error) {
	filter := bson.D{{Key: "document", Value: document}}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "document", Value: document},
		{Key: "url", Value: url},
		{Key: "created", Value: time.Now().UTC()},
	}}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var link entity.ShareLink
	err := m.collection(collectionShareLinks).FindOneAndUpdate(ctx, filter, update, opts).Decode(&link)
	if err != nil {
		return nil, fmt.Errorf("share link upsert: %w", err)
	}
	return &link, nil
}

func (m *MongoDB) ShareLinkByDocument(ctx context.Context, document primitive.ObjectID) (*entity.ShareLink, error) {
	var link entity.ShareLink
	err := m.collection(collectionShareLinks).FindOne(ctx, bson.D{{Key: "document", Value: document}}).Decode(&link)
	if err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

func (m *MongoDB) DeleteShareLink(ctx context.Context, document primitive.ObjectID) error {
	_, err := m.collection(collectionShareLinks).DeleteOne(ctx, bson.D{{Key: "document", Value: document}})
	return err
}

// --- aggregations ---

// PrestationStats groups the issuer's invoice rows by title.
func (m *MongoDB) PrestationStats(ctx context.Context, issuer string) ([]*entity.PrestationStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "issuer", Value: issuer}}}},
		{{Key: "$unwind", Value: "$prestations"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$prestations.title"},
			{Key: "total_unit", Value: bson.D{{Key: "$sum", Value: "$prestations.quantity"}}},
			{Key: "total_without_charge", Value: bson.D{{Key: "$sum", Value: "$prestations.total"}}},
			{Key: "min_price", Value: bson.D{{Key: "$min", Value: "$prestations.unit_price"}}},
			{Key: "max_price", Value: bson.D{{Key: "$max", Value: "$prestations.unit_price"}}},
		}}},
	}
	cursor, err := m.collection(collectionInvoices).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []*entity.PrestationStats
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// CustomerStats groups the issuer's invoices by customer.
func (m *MongoDB) CustomerStats(ctx context.Context, issuer string) ([]*entity.CustomerStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "issuer", Value: issuer}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$customer"},
			{Key: "total_invoices", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_spent", Value: bson.D{{Key: "$sum", Value: "$total_without_charge"}}},
		}}},
	}
	cursor, err := m.collection(collectionInvoices).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []*entity.CustomerStats
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
