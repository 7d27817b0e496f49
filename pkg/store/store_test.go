package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newRecord(id, name string, created time.Time, nodes ...string) *mindmap.Record {
	rec := mindmap.NewRecord(id, name)
	rec.CreatedAt = created
	for i, text := range nodes {
		nid := "ND-" + string(rune('A'+i))
		rec.Nodes.Set(nid, mindmap.NodeRecord{ID: nid, NodeText: text, NodeColor: "white"})
	}
	return rec
}

// runStoreSuite exercises the Store contract against one backend.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		s := newStore(t)
		user := "u-" + uuid.NewString()
		rec := newRecord("MM-1", "Trip", epoch, "zulu", "alpha", "mike")

		require.NoError(t, s.Put(ctx, user, rec))
		got, err := s.Get(ctx, user, "MM-1")
		require.NoError(t, err)

		assert.Equal(t, "Trip", got.Name)
		assert.Equal(t, []string{"ND-A", "ND-B", "ND-C"}, got.Nodes.Keys())
		assert.True(t, got.CreatedAt.Equal(epoch), "created_at = %v", got.CreatedAt)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		s := newStore(t)
		user := "u-" + uuid.NewString()
		require.NoError(t, s.Put(ctx, user, newRecord("MM-1", "Trip", epoch, "a")))

		got, err := s.Get(ctx, user, "MM-1")
		require.NoError(t, err)
		got.Nodes.Set("ND-Z", mindmap.NodeRecord{NodeText: "local"})

		again, err := s.Get(ctx, user, "MM-1")
		require.NoError(t, err)
		assert.Equal(t, 1, again.NodeCount())
	})

	t.Run("put replaces", func(t *testing.T) {
		s := newStore(t)
		user := "u-" + uuid.NewString()
		require.NoError(t, s.Put(ctx, user, newRecord("MM-1", "Old", epoch)))
		require.NoError(t, s.Put(ctx, user, newRecord("MM-1", "New", epoch, "x")))

		got, err := s.Get(ctx, user, "MM-1")
		require.NoError(t, err)
		assert.Equal(t, "New", got.Name)
		assert.Equal(t, 1, got.NodeCount())

		all, err := s.List(ctx, user)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("empty node map survives", func(t *testing.T) {
		s := newStore(t)
		user := "u-" + uuid.NewString()
		require.NoError(t, s.Put(ctx, user, newRecord("MM-1", "Empty", epoch)))

		got, err := s.Get(ctx, user, "MM-1")
		require.NoError(t, err)
		require.NotNil(t, got.Nodes)
		assert.Equal(t, 0, got.NodeCount())
	})

	t.Run("missing map", func(t *testing.T) {
		s := newStore(t)
		user := "u-" + uuid.NewString()

		_, err := s.Get(ctx, user, "MM-404")
		assert.True(t, errors.Is(err, errors.ErrCodeMapNotFound), "Get: %v", err)

		err = s.Delete(ctx, user, "MM-404")
		assert.True(t, errors.Is(err, errors.ErrCodeMapNotFound), "Delete: %v", err)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		user := "u-" + uuid.NewString()
		require.NoError(t, s.Put(ctx, user, newRecord("MM-1", "Trip", epoch)))
		require.NoError(t, s.Delete(ctx, user, "MM-1"))

		_, err := s.Get(ctx, user, "MM-1")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("list is ordered and scoped", func(t *testing.T) {
		s := newStore(t)
		user := "u-" + uuid.NewString()
		other := "u-" + uuid.NewString()

		require.NoError(t, s.Put(ctx, user, newRecord("MM-C", "third", epoch.Add(2*time.Hour))))
		require.NoError(t, s.Put(ctx, user, newRecord("MM-B", "second", epoch)))
		require.NoError(t, s.Put(ctx, user, newRecord("MM-A", "first", epoch)))
		require.NoError(t, s.Put(ctx, other, newRecord("MM-X", "elsewhere", epoch)))

		recs, err := s.List(ctx, user)
		require.NoError(t, err)
		ids := make([]string, len(recs))
		for i, r := range recs {
			ids[i] = r.ID
		}
		assert.Equal(t, []string{"MM-A", "MM-B", "MM-C"}, ids)

		empty, err := s.List(ctx, "u-"+uuid.NewString())
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("rejects bad keys", func(t *testing.T) {
		s := newStore(t)

		assert.Error(t, s.Put(ctx, "bad user", newRecord("MM-1", "x", epoch)))
		assert.Error(t, s.Put(ctx, "user", newRecord("not-a-map", "x", epoch)))
		assert.Error(t, s.Put(ctx, "user", nil))
		assert.Error(t, s.Put(ctx, "user", &mindmap.Record{ID: "MM-1"}))

		_, err := s.Get(ctx, "user.with.dots", "MM-1")
		assert.True(t, errors.IsInvalidInput(err) || errors.Is(err, errors.ErrCodeInvalidID), "Get: %v", err)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemory()
	})
}

func TestFileStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewFile(filepath.Join(t.TempDir(), "db", "mindmaps.json"))
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewSQLite(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MINDMAP_REDIS_ADDR")
	if addr == "" {
		t.Skip("MINDMAP_REDIS_ADDR not set")
	}
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewRedis(context.Background(), RedisOptions{Addr: addr})
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MINDMAP_MONGO_URI")
	if uri == "" {
		t.Skip("MINDMAP_MONGO_URI not set")
	}
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewMongo(context.Background(), MongoOptions{URI: uri, Database: "mindmap_test"})
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mindmaps.json")

	s, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "42", newRecord("MM-1", "Trip", epoch, "tickets", "hotel")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user.42.MM-1"`)

	reopened, err := NewFile(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "42", "MM-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ND-A", "ND-B"}, got.Nodes.Keys())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind")
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindmaps.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFile(path)
	assert.True(t, errors.Is(err, errors.ErrCodeStore), "err = %v", err)
}

func TestFileStoreLoadsRecordsWithoutNodes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mindmaps.json")
	data := `{"user.u1.MM-ABC":{"id":"MM-ABC","name":"legacy"},"user.u1.MM-NUL":null}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := NewFile(path)
	require.NoError(t, err)

	got, err := s.Get(ctx, "u1", "MM-ABC")
	require.NoError(t, err)
	require.NotNil(t, got.Nodes)
	assert.Equal(t, 0, got.NodeCount())

	got.Nodes.Set("ND-1", mindmap.NodeRecord{ID: "ND-1", NodeText: "added", NodeColor: "white"})
	require.NoError(t, s.Put(ctx, "u1", got))

	recs, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 1, recs[0].NodeCount())

	_, err = s.Get(ctx, "u1", "MM-NUL")
	assert.True(t, errors.Is(err, errors.ErrCodeMapNotFound), "null entry: %v", err)
}

func TestSQLiteStoreOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mindmaps.db")

	s, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "42", newRecord("MM-1", "Trip", epoch, "a")))
	require.NoError(t, s.Close())

	s, err = NewSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "42", "MM-1")
	require.NoError(t, err)
	assert.Equal(t, "Trip", got.Name)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "user.42.MM-ABC", Key("42", "MM-ABC"))
	assert.Equal(t, "user.42", UserKey("42"))

	tests := []struct {
		key   string
		user  string
		mapID string
		ok    bool
	}{
		{"user.42.MM-1", "42", "MM-1", true},
		{"user.42", "", "", false},
		{"user..MM-1", "", "", false},
		{"user.42.", "", "", false},
		{"other.42.MM-1", "", "", false},
	}
	for _, tt := range tests {
		user, mapID, ok := SplitKey(tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.user, user, tt.key)
		assert.Equal(t, tt.mapID, mapID, tt.key)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(ctx, Config{Backend: "SQLite", Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	s.Close()

	s, err = Open(ctx, Config{Backend: "etcd"})
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))

	_, err = Open(ctx, Config{Backend: "file"})
	assert.True(t, errors.IsInvalidInput(err))
}

func TestFingerprint(t *testing.T) {
	a := newRecord("MM-1", "Trip", epoch, "x", "y")
	b := newRecord("MM-2", "Trip", epoch.Add(time.Hour), "x", "y")
	c := newRecord("MM-1", "Trip", epoch, "y", "x")

	assert.Equal(t, Fingerprint(a), Fingerprint(b), "id and time are not part of the fingerprint")
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c), "node text changes the fingerprint")
	assert.Len(t, Fingerprint(a), 64)
	assert.Equal(t, Hash([]byte("hello")), Hash([]byte("hello")))
}

type countingHooks struct {
	observability.NoopStoreHooks
	reads, writes []string
}

func (c *countingHooks) OnRead(_ context.Context, op string, _ time.Duration, _ error) {
	c.reads = append(c.reads, op)
}

func (c *countingHooks) OnWrite(_ context.Context, op string, _ time.Duration, _ error) {
	c.writes = append(c.writes, op)
}

func TestInstrument(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s := Instrument(NewMemory())
	assert.Same(t, s, Instrument(s))

	require.NoError(t, s.Put(ctx, "42", newRecord("MM-1", "x", epoch)))
	_, _ = s.Get(ctx, "42", "MM-1")
	_, _ = s.List(ctx, "42")
	_ = s.Delete(ctx, "42", "MM-1")

	assert.Equal(t, []string{"get", "list"}, hooks.reads)
	assert.Equal(t, []string{"put", "delete"}, hooks.writes)
}
