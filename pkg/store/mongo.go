package store

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tracemetro/tracemetro/pkg/errors"
)

// MongoConfig configures the MongoDB store backend.
type MongoConfig struct {
	URI        string // connection string, defaults to "mongodb://localhost:27017"
	Database   string // defaults to "tracemetro"
	Collection string // defaults to "runs"
}

// MongoStore persists layout runs in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "tracemetro"
	}
	if cfg.Collection == "" {
		cfg.Collection = "runs"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping %s", cfg.URI)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save stores a run document, replacing any previous run with the same id.
func (s *MongoStore) Save(ctx context.Context, run Run) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save run %s", run.ID)
	}
	return nil
}

// Get returns the run with the given id.
func (s *MongoStore) Get(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return Run{}, errors.New(errors.ErrCodeLayoutNotFound, "layout run %s not found", id)
	}
	if err != nil {
		return Run{}, errors.Wrap(errors.ErrCodeStore, err, "load run %s", id)
	}
	return run, nil
}

// List returns run summaries, newest first. Layout payloads are projected
// out to keep listings cheap.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"layout": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list runs")
	}
	defer cur.Close(ctx)

	var out []Run
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode runs")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
