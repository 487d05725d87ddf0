// internal/store/mongo.go
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libraryloans/internal/loan"
)

var _ Store = (*Mongo)(nil)

const (
	fieldAccountID = "libraryAccountIdentifier.accountId"
	fieldLoanID    = "loanIdentifier.loanId"
)

// Mongo stores loans in a single collection, one document per loan.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	tracer trace.Tracer
}

// NewMongo wraps a connected client.
func NewMongo(client *mongo.Client, database, collection string) *Mongo {
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
		tracer: otel.Tracer("libraryloans/store"),
	}
}

// OpenMongo connects to uri and pings the primary.
func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongo(client, database, collection), nil
}

// EnsureSchema creates the non-unique lookup indexes.
func (m *Mongo) EnsureSchema(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "loanstore.ensure_schema")
	defer span.End()

	_, err := m.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldAccountID, Value: 1}, {Key: fieldLoanID, Value: 1}}},
		{Keys: bson.D{{Key: fieldLoanID, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create loan indexes: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) FindByAccountAndLoanID(ctx context.Context, accountID, loanID string) (*loan.Loan, error) {
	ctx, span := m.tracer.Start(ctx, "loanstore.find_by_account_and_loan_id",
		trace.WithAttributes(
			attribute.String("account.id", accountID),
			attribute.String("loan.id", loanID),
		),
	)
	defer span.End()

	return m.findOne(ctx, bson.M{fieldAccountID: accountID, fieldLoanID: loanID})
}

func (m *Mongo) FindAllByAccountID(ctx context.Context, accountID string) ([]*loan.Loan, error) {
	ctx, span := m.tracer.Start(ctx, "loanstore.find_all_by_account_id",
		trace.WithAttributes(attribute.String("account.id", accountID)),
	)
	defer span.End()

	loans, err := m.findMany(ctx, bson.M{fieldAccountID: accountID})
	span.SetAttributes(attribute.Int("loans.loaded", len(loans)))
	return loans, err
}

func (m *Mongo) FindByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	ctx, span := m.tracer.Start(ctx, "loanstore.find_by_loan_id",
		trace.WithAttributes(attribute.String("loan.id", loanID)),
	)
	defer span.End()

	return m.findOne(ctx, bson.M{fieldLoanID: loanID})
}

func (m *Mongo) FindAllByLoanID(ctx context.Context, loanID string) ([]*loan.Loan, error) {
	ctx, span := m.tracer.Start(ctx, "loanstore.find_all_by_loan_id",
		trace.WithAttributes(attribute.String("loan.id", loanID)),
	)
	defer span.End()

	return m.findMany(ctx, bson.M{fieldLoanID: loanID})
}

// Save replaces the document with the same _id, inserting it if absent.
func (m *Mongo) Save(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	if l == nil {
		return nil, errors.New("save: nil loan")
	}
	saved := clone(l)
	if saved.ID == "" {
		saved.ID = primitive.NewObjectID().Hex()
	}

	ctx, span := m.tracer.Start(ctx, "loanstore.save",
		trace.WithAttributes(
			attribute.String("storage.id", saved.ID),
			attribute.String("loan.id", saved.LoanIdentifier.LoanID),
		),
	)
	defer span.End()

	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": saved.ID}, saved, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("upsert loan %s: %w", saved.ID, err)
	}
	return saved, nil
}

func (m *Mongo) Delete(ctx context.Context, l *loan.Loan) error {
	if l == nil || l.ID == "" {
		return errors.New("delete: loan has no storage id")
	}
	ctx, span := m.tracer.Start(ctx, "loanstore.delete",
		trace.WithAttributes(attribute.String("storage.id", l.ID)),
	)
	defer span.End()

	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": l.ID}); err != nil {
		return fmt.Errorf("delete loan %s: %w", l.ID, err)
	}
	return nil
}

func (m *Mongo) DeleteAll(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "loanstore.delete_all")
	defer span.End()

	if _, err := m.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete all loans: %w", err)
	}
	return nil
}

func (m *Mongo) findOne(ctx context.Context, filter bson.M) (*loan.Loan, error) {
	var l loan.Loan
	err := m.coll.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find loan: %w", err)
	}
	return &l, nil
}

func (m *Mongo) findMany(ctx context.Context, filter bson.M) ([]*loan.Loan, error) {
	cursor, err := m.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find loans: %w", err)
	}
	loans := make([]*loan.Loan, 0)
	if err := cursor.All(ctx, &loans); err != nil {
		return nil, fmt.Errorf("decode loans: %w", err)
	}
	return loans, nil
}
