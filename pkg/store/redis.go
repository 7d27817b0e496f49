package store

import (
	"context"
	stderrors "errors"
	"io"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Redis is a Store keeping one hash per user ("user.<user>") with one field
// per map ID holding the record's JSON.
type Redis struct {
	client  *redis.Client
	backoff Backoff
}

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	r := &Redis{client: client, backoff: DefaultBackoff}
	if err := r.backoff.Retry(ctx, func() error {
		return transient(client.Ping(ctx).Err())
	}); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", opts.Addr)
	}
	return r, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, user, mapID string) (*mindmap.Record, error) {
	if err := checkKey(user, mapID); err != nil {
		return nil, err
	}

	var data []byte
	err := r.backoff.Retry(ctx, func() error {
		var err error
		data, err = r.client.HGet(ctx, UserKey(user), mapID).Bytes()
		return transient(err)
	})
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(mapID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get %s", mapID)
	}
	return decodeRecord(data)
}

// Put implements Store.
func (r *Redis) Put(ctx context.Context, user string, rec *mindmap.Record) error {
	if err := checkRecord(user, rec); err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	err = r.backoff.Retry(ctx, func() error {
		return transient(r.client.HSet(ctx, UserKey(user), rec.ID, data).Err())
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save %s", rec.ID)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, user, mapID string) error {
	if err := checkKey(user, mapID); err != nil {
		return err
	}

	var n int64
	err := r.backoff.Retry(ctx, func() error {
		var err error
		n, err = r.client.HDel(ctx, UserKey(user), mapID).Result()
		return transient(err)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete %s", mapID)
	}
	if n == 0 {
		return notFound(mapID)
	}
	return nil
}

// List implements Store.
func (r *Redis) List(ctx context.Context, user string) ([]*mindmap.Record, error) {
	if err := errors.ValidateUserID(user); err != nil {
		return nil, err
	}

	var fields map[string]string
	err := r.backoff.Retry(ctx, func() error {
		var err error
		fields, err = r.client.HGetAll(ctx, UserKey(user)).Result()
		return transient(err)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list maps")
	}

	recs := make([]*mindmap.Record, 0, len(fields))
	for _, data := range fields {
		rec, err := decodeRecord([]byte(data))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	sortRecords(recs)
	return recs, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// transient marks connection-level failures as retryable.
func transient(err error) error {
	if err == nil || stderrors.Is(err, redis.Nil) {
		return err
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) || stderrors.Is(err, io.EOF) {
		return Retryable(err)
	}
	return err
}

// Ensure Redis implements Store.
var _ Store = (*Redis)(nil)
