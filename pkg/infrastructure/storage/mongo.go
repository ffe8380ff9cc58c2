package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const slotsCollection = "slots"

type slotDocument struct {
	Name      string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database string) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}
	return &mongoStore{client: client, collection: client.Database(database).Collection(slotsCollection)}, nil
}

func (s *mongoStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var doc slotDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": slot}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find slot %s", slot)
	}
	return []byte(doc.Value), nil
}

func (s *mongoStore) Set(ctx context.Context, slot string, value []byte) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": slot},
		slotDocument{Name: slot, Value: string(value), UpdatedAt: time.Now().UTC()},
		options.Replace().SetUpsert(true),
	)
	return errors.Wrapf(err, "replace slot %s", slot)
}

func (s *mongoStore) Remove(ctx context.Context, slot string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": slot})
	return errors.Wrapf(err, "delete slot %s", slot)
}

func (s *mongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
