// Package store persists mind map records per user.
//
// Records are addressed by a user ID and a map ID, mirroring a flat
// key-value layout of "user.<user>.<map>" keys. Every backend returns
// copies, so callers may modify what they get without affecting the store,
// and every backend keeps the insertion order of a record's nodes.
//
// Backends:
//   - [Memory]: process-local, for tests and one-shot CLI runs
//   - [File]: a single JSON database document, rewritten atomically
//   - [SQLite]: one row per map (modernc.org/sqlite, no cgo)
//   - [Redis]: one hash per user, one field per map
//   - [Mongo]: one document per map
//
// Use [Open] to pick a backend from a [Config].
package store

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Store is the persistence interface for mind map records.
type Store interface {
	// Get returns the record or a MAP_NOT_FOUND error.
	Get(ctx context.Context, user, mapID string) (*mindmap.Record, error)

	// Put inserts or replaces the record keyed by rec.ID.
	Put(ctx context.Context, user string, rec *mindmap.Record) error

	// Delete removes the record or returns a MAP_NOT_FOUND error.
	Delete(ctx context.Context, user, mapID string) error

	// List returns all records of a user ordered by creation time, then ID.
	List(ctx context.Context, user string) ([]*mindmap.Record, error)

	// Close releases backend resources.
	Close() error
}

// KeyPrefix is the first segment of every record key.
const KeyPrefix = "user"

// Key returns the flat key of a record: "user.<user>.<mapID>".
func Key(user, mapID string) string {
	return UserKey(user) + "." + mapID
}

// UserKey returns the key prefix shared by all records of a user.
func UserKey(user string) string {
	return KeyPrefix + "." + user
}

// SplitKey is the inverse of Key.
func SplitKey(key string) (user, mapID string, ok bool) {
	rest, found := strings.CutPrefix(key, KeyPrefix+".")
	if !found {
		return "", "", false
	}
	i := strings.LastIndex(rest, ".")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

func notFound(mapID string) error {
	return errors.New(errors.ErrCodeMapNotFound, "mind map %s not found", mapID)
}

func checkKey(user, mapID string) error {
	if err := errors.ValidateUserID(user); err != nil {
		return err
	}
	return errors.ValidateMapID(mapID)
}

func checkRecord(user string, rec *mindmap.Record) error {
	if rec == nil {
		return errors.InvalidInput("record is nil")
	}
	if err := checkKey(user, rec.ID); err != nil {
		return err
	}
	if rec.Nodes == nil {
		return errors.InvalidInput("record %s has no nodes map", rec.ID)
	}
	return nil
}

// sortRecords orders records by creation time, then ID.
func sortRecords(recs []*mindmap.Record) {
	slices.SortFunc(recs, func(a, b *mindmap.Record) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
