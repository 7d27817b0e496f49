package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// DefaultMongoCollection is the collection used when none is configured.
const DefaultMongoCollection = "mindmaps"

// MongoOptions configures the MongoDB backend.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// Mongo is a Store keeping one document per map. The record travels as its
// JSON form in the data field; user, map ID, name and creation time are
// mirrored into indexed fields.
type Mongo struct {
	client  *mongo.Client
	coll    *mongo.Collection
	backoff Backoff
}

type mongoDoc struct {
	User      string    `bson:"user"`
	MapID     string    `bson:"map_id"`
	Name      string    `bson:"name"`
	Data      string    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongo connects to MongoDB and ensures the (user, map_id) index.
func NewMongo(ctx context.Context, opts MongoOptions) (*Mongo, error) {
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Database == "" {
		return nil, errors.InvalidInput("mongo database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}

	m := &Mongo{
		client:  client,
		coll:    client.Database(opts.Database).Collection(opts.Collection),
		backoff: DefaultBackoff,
	}

	err = m.backoff.Retry(ctx, func() error {
		return mongoTransient(client.Ping(ctx, nil))
	})
	if err == nil {
		_, err = m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "map_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "initialize mongo collection")
	}
	return m, nil
}

// Get implements Store.
func (m *Mongo) Get(ctx context.Context, user, mapID string) (*mindmap.Record, error) {
	if err := checkKey(user, mapID); err != nil {
		return nil, err
	}

	var doc mongoDoc
	err := m.backoff.Retry(ctx, func() error {
		return mongoTransient(m.coll.FindOne(ctx, bson.M{"user": user, "map_id": mapID}).Decode(&doc))
	})
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(mapID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get %s", mapID)
	}
	return decodeRecord([]byte(doc.Data))
}

// Put implements Store.
func (m *Mongo) Put(ctx context.Context, user string, rec *mindmap.Record) error {
	if err := checkRecord(user, rec); err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	doc := mongoDoc{
		User:      user,
		MapID:     rec.ID,
		Name:      rec.Name,
		Data:      string(data),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	err = m.backoff.Retry(ctx, func() error {
		_, err := m.coll.ReplaceOne(ctx,
			bson.M{"user": user, "map_id": rec.ID},
			doc,
			options.Replace().SetUpsert(true))
		return mongoTransient(err)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save %s", rec.ID)
	}
	return nil
}

// Delete implements Store.
func (m *Mongo) Delete(ctx context.Context, user, mapID string) error {
	if err := checkKey(user, mapID); err != nil {
		return err
	}

	var res *mongo.DeleteResult
	err := m.backoff.Retry(ctx, func() error {
		var err error
		res, err = m.coll.DeleteOne(ctx, bson.M{"user": user, "map_id": mapID})
		return mongoTransient(err)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete %s", mapID)
	}
	if res.DeletedCount == 0 {
		return notFound(mapID)
	}
	return nil
}

// List implements Store.
func (m *Mongo) List(ctx context.Context, user string) ([]*mindmap.Record, error) {
	if err := errors.ValidateUserID(user); err != nil {
		return nil, err
	}

	var docs []mongoDoc
	err := m.backoff.Retry(ctx, func() error {
		cur, err := m.coll.Find(ctx, bson.M{"user": user},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "map_id", Value: 1}}))
		if err != nil {
			return mongoTransient(err)
		}
		docs = docs[:0]
		return mongoTransient(cur.All(ctx, &docs))
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list maps")
	}

	recs := make([]*mindmap.Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeRecord([]byte(doc.Data))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	// Mongo stores milliseconds; re-sort on the decoded timestamps.
	sortRecords(recs)
	return recs, nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func mongoTransient(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Retryable(err)
	}
	return err
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
