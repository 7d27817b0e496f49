package store

import (
	"context"
	"sync"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	users map[string]map[string]*mindmap.Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]map[string]*mindmap.Record)}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, user, mapID string) (*mindmap.Record, error) {
	if err := checkKey(user, mapID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[user][mapID]
	if !ok {
		return nil, notFound(mapID)
	}
	return rec.Clone(), nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, user string, rec *mindmap.Record) error {
	if err := checkRecord(user, rec); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	maps, ok := m.users[user]
	if !ok {
		maps = make(map[string]*mindmap.Record)
		m.users[user] = maps
	}
	maps[rec.ID] = rec.Clone()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, user, mapID string) error {
	if err := checkKey(user, mapID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user][mapID]; !ok {
		return notFound(mapID)
	}
	delete(m.users[user], mapID)
	return nil
}

// List implements Store.
func (m *Memory) List(ctx context.Context, user string) ([]*mindmap.Record, error) {
	if err := errors.ValidateUserID(user); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]*mindmap.Record, 0, len(m.users[user]))
	for _, rec := range m.users[user] {
		recs = append(recs, rec.Clone())
	}
	sortRecords(recs)
	return recs, nil
}

// Close does nothing for the memory store.
func (m *Memory) Close() error {
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
