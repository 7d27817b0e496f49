package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// File is a Store backed by a single JSON document mapping record keys
// ("user.<user>.<map>") to records. Every mutation rewrites the document
// through a temporary file and a rename.
type File struct {
	path string

	mu      sync.Mutex
	records map[string]*mindmap.Record
}

// NewFile opens or creates the database document at path.
// The parent directory will be created if it doesn't exist.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store directory")
	}

	f := &File{path: path, records: make(map[string]*mindmap.Record)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read %s", path)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode %s", path)
	}
	for key, rec := range f.records {
		if rec == nil {
			delete(f.records, key)
			continue
		}
		if rec.Nodes == nil {
			rec.Nodes = mindmap.NewNodeMap()
		}
	}
	return f, nil
}

// Path returns the location of the database document.
func (f *File) Path() string { return f.path }

// Get implements Store.
func (f *File) Get(ctx context.Context, user, mapID string) (*mindmap.Record, error) {
	if err := checkKey(user, mapID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[Key(user, mapID)]
	if !ok {
		return nil, notFound(mapID)
	}
	return rec.Clone(), nil
}

// Put implements Store.
func (f *File) Put(ctx context.Context, user string, rec *mindmap.Record) error {
	if err := checkRecord(user, rec); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := Key(user, rec.ID)
	prev, had := f.records[key]
	f.records[key] = rec.Clone()
	if err := f.flush(); err != nil {
		if had {
			f.records[key] = prev
		} else {
			delete(f.records, key)
		}
		return err
	}
	return nil
}

// Delete implements Store.
func (f *File) Delete(ctx context.Context, user, mapID string) error {
	if err := checkKey(user, mapID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := Key(user, mapID)
	prev, ok := f.records[key]
	if !ok {
		return notFound(mapID)
	}
	delete(f.records, key)
	if err := f.flush(); err != nil {
		f.records[key] = prev
		return err
	}
	return nil
}

// List implements Store.
func (f *File) List(ctx context.Context, user string) ([]*mindmap.Record, error) {
	if err := errors.ValidateUserID(user); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	recs := make([]*mindmap.Record, 0)
	for key, rec := range f.records {
		if u, _, ok := SplitKey(key); ok && u == user {
			recs = append(recs, rec.Clone())
		}
	}
	sortRecords(recs)
	return recs, nil
}

// Close does nothing; every mutation is already on disk.
func (f *File) Close() error {
	return nil
}

func (f *File) flush() error {
	data, err := json.MarshalIndent(f.records, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode store")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".mindmap-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStore, err, "write store")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write store")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "replace %s", f.path)
	}
	return nil
}

// Ensure File implements Store.
var _ Store = (*File)(nil)
