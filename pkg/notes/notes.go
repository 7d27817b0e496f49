// Package notes implements the mind map commands on top of a record store.
//
// A [Service] creates and edits mind maps for a user: maps get "MM-" IDs,
// notes get "ND-" IDs, and every change is written back to the store as a
// whole record. The service also answers the autocomplete queries used by
// the CLI and the HTTP API.
//
// Mutations of one Service are serialized; two Services sharing a store
// across processes may still race on the same map.
package notes

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/store"
)

// ID prefixes.
const (
	MapPrefix  = "MM-"
	NodePrefix = "ND-"
)

// idLength is the number of hex characters after the prefix.
const idLength = 10

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option { return func(s *Service) { s.logger = l } }

// WithIDGenerator replaces the random ID source. The generator returns the
// part after the prefix.
func WithIDGenerator(gen func() string) Option { return func(s *Service) { s.newID = gen } }

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// Service implements the mind map commands.
type Service struct {
	store  store.Store
	logger *log.Logger
	newID  func() string
	now    func() time.Time

	mu sync.Mutex
}

// New creates a Service over st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: log.Default(),
		newID:  RandomID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() store.Store { return s.store }

// RandomID returns 10 upper-case hex characters from a random UUID.
func RandomID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:idLength])
}

// CreateMap creates an empty mind map named name.
func (s *Service) CreateMap(ctx context.Context, user, name string) (*mindmap.Record, error) {
	name = strings.TrimSpace(name)
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := mindmap.NewRecord(MapPrefix+s.newID(), name)
	rec.CreatedAt = s.now().UTC()
	if err := s.store.Put(ctx, user, rec); err != nil {
		return nil, err
	}
	s.logger.Info("created mind map", "user", user, "map", rec.ID, "name", name)
	return rec, nil
}

// GetMap returns a mind map.
func (s *Service) GetMap(ctx context.Context, user, mapID string) (*mindmap.Record, error) {
	return s.store.Get(ctx, user, mapID)
}

// RenameMap changes the name of a mind map.
func (s *Service) RenameMap(ctx context.Context, user, mapID, name string) (Change, error) {
	name = strings.TrimSpace(name)
	if err := errors.ValidateName(name); err != nil {
		return Change{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(ctx, user, mapID)
	if err != nil {
		return Change{}, err
	}
	change := Change{Field: FieldName, Old: rec.Name, New: name}
	rec.Name = name
	if err := s.store.Put(ctx, user, rec); err != nil {
		return Change{}, err
	}
	s.logger.Info("renamed mind map", "user", user, "map", mapID, "name", name)
	return change, nil
}

// DeleteMap removes a mind map and all its notes.
func (s *Service) DeleteMap(ctx context.Context, user, mapID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, user, mapID); err != nil {
		return err
	}
	s.logger.Info("deleted mind map", "user", user, "map", mapID)
	return nil
}

// Summary is one entry of a map listing.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// ListMaps returns the user's mind maps, oldest first.
func (s *Service) ListMaps(ctx context.Context, user string) ([]Summary, error) {
	recs, err := s.store.List(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(recs))
	for i, rec := range recs {
		out[i] = Summary{ID: rec.ID, Name: rec.Name, Nodes: rec.NodeCount(), CreatedAt: rec.CreatedAt}
	}
	return out, nil
}
