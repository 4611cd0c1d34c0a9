package ledger

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/google/uuid"
)

// MongoStore persists payment records in a MongoDB collection with a unique
// index on event_id, giving the same atomic duplicate rejection as the
// Postgres UNIQUE constraint.
type MongoStore struct {
	collection *mongo.Collection
}

type mongoRecord struct {
	ID          string    `bson:"_id"`
	Email       string    `bson:"email"`
	PurchasedAt time.Time `bson:"purchased_at"`
	EventID     string    `bson:"event_id"`
}

// NewMongoStore wraps a collection and ensures the unique event_id index.
func NewMongoStore(ctx context.Context, db *mongo.Database, collection string) (*MongoStore, error) {
	if db == nil {
		panic("ledger: mongo database is required")
	}

	coll := db.Collection(collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return &MongoStore{collection: coll}, nil
}

func (s *MongoStore) Append(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	_, err := s.collection.InsertOne(ctx, mongoRecord{
		ID:          record.ID.String(),
		Email:       record.Email,
		PurchasedAt: record.PurchasedAt,
		EventID:     record.EventID,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEvent
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	cursor, err := s.collection.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "purchased_at", Value: 1}, {Key: "event_id", Value: 1}}),
	)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []mongoRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		record, err := doc.toRecord()
		if err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *MongoStore) FindByEventID(ctx context.Context, eventID string) (*Record, error) {
	var doc mongoRecord
	err := s.collection.FindOne(ctx, bson.D{{Key: "event_id", Value: eventID}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	record, err := doc.toRecord()
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &record, nil
}

func (s *MongoStore) Emails(ctx context.Context) (map[string]struct{}, error) {
	values, err := s.collection.Distinct(ctx, "email", bson.D{}).Raw()
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	elements, err := values.Values()
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	emails := make(map[string]struct{}, len(elements))
	for _, v := range elements {
		if email, ok := v.StringValueOK(); ok {
			emails[email] = struct{}{}
		}
	}
	return emails, nil
}

func (d mongoRecord) toRecord() (Record, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:          id,
		Email:       d.Email,
		PurchasedAt: d.PurchasedAt,
		EventID:     d.EventID,
	}, nil
}
