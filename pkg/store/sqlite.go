package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// SQLite is a Store backed by a SQLite database, one row per map. The
// record itself is kept as JSON so node order survives the round trip.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path, creating the schema if needed.
// Use ":memory:" for a throwaway database.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open database")
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// from splitting across the pool.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "migrate database")
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS mindmaps (
		user_id    TEXT NOT NULL,
		map_id     TEXT NOT NULL,
		name       TEXT NOT NULL,
		data       JSON NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, map_id)
	);

	CREATE INDEX IF NOT EXISTS idx_mindmaps_user_created ON mindmaps(user_id, created_at, map_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, user, mapID string) (*mindmap.Record, error) {
	if err := checkKey(user, mapID); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM mindmaps WHERE user_id = ? AND map_id = ?`, user, mapID).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(mapID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "query %s", mapID)
	}
	return decodeRecord(data)
}

// Put implements Store.
func (s *SQLite) Put(ctx context.Context, user string, rec *mindmap.Record) error {
	if err := checkRecord(user, rec); err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mindmaps (user_id, map_id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, map_id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, user, rec.ID, rec.Name, string(data), rec.CreatedAt.UnixMicro(), time.Now().UnixMicro())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save %s", rec.ID)
	}
	return nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, user, mapID string) error {
	if err := checkKey(user, mapID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM mindmaps WHERE user_id = ? AND map_id = ?`, user, mapID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete %s", mapID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete %s", mapID)
	}
	if n == 0 {
		return notFound(mapID)
	}
	return nil
}

// List implements Store.
func (s *SQLite) List(ctx context.Context, user string) ([]*mindmap.Record, error) {
	if err := errors.ValidateUserID(user); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM mindmaps WHERE user_id = ? ORDER BY created_at, map_id`, user)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list maps")
	}
	defer rows.Close()

	recs := make([]*mindmap.Record, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "scan map")
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list maps")
	}
	return recs, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ensure SQLite implements Store.
var _ Store = (*SQLite)(nil)
