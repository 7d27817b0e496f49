package notes

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/store"
)

const user = "42"

func newTestService(t *testing.T) *Service {
	t.Helper()
	var n int
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return New(store.NewMemory(),
		WithLogger(log.New(io.Discard)),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("%04d", n)
		}),
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	)
}

func TestRandomID(t *testing.T) {
	id := RandomID()
	assert.Len(t, id, 10)
	assert.Regexp(t, `^[0-9A-F]{10}$`, id)
	assert.NotEqual(t, id, RandomID())
	require.NoError(t, errors.ValidateMapID(MapPrefix+id))
	require.NoError(t, errors.ValidateNodeID(NodePrefix+id))
}

func TestCreateAndListMaps(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	a, err := s.CreateMap(ctx, user, "  Alpha ")
	require.NoError(t, err)
	assert.Equal(t, "MM-0001", a.ID)
	assert.Equal(t, "Alpha", a.Name)
	assert.Equal(t, 0, a.NodeCount())

	_, err = s.CreateMap(ctx, user, "Beta")
	require.NoError(t, err)

	maps, err := s.ListMaps(ctx, user)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, "Alpha", maps[0].Name)
	assert.Equal(t, "Beta", maps[1].Name)

	other, err := s.ListMaps(ctx, "43")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCreateMapInvalidName(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateMap(context.Background(), user, "   ")
	assert.True(t, errors.IsInvalidInput(err))
}

func TestAddNodeDefaultsColor(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	m, err := s.CreateMap(ctx, user, "Plan")
	require.NoError(t, err)

	n, err := s.AddNode(ctx, user, m.ID, "first", "")
	require.NoError(t, err)
	assert.Equal(t, "ND-0002", n.ID)
	assert.Equal(t, "white", n.NodeColor)

	n2, err := s.AddNode(ctx, user, m.ID, "second", " red ")
	require.NoError(t, err)
	assert.Equal(t, "red", n2.NodeColor)

	got, err := s.GetMap(ctx, user, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{n.ID, n2.ID}, got.Nodes.Keys())
}

func TestAddNodeToFileRecordWithoutNodes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mindmaps.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user.42.MM-ABC":{"id":"MM-ABC","name":"legacy"}}`), 0o644))
	st, err := store.NewFile(path)
	require.NoError(t, err)
	s := New(st, WithLogger(log.New(io.Discard)))

	n, err := s.AddNode(ctx, user, "MM-ABC", "first", "")
	require.NoError(t, err)

	got, err := s.GetMap(ctx, user, "MM-ABC")
	require.NoError(t, err)
	assert.Equal(t, []string{n.ID}, got.Nodes.Keys())
}

func TestAddNodeErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	m, err := s.CreateMap(ctx, user, "Plan")
	require.NoError(t, err)

	_, err = s.AddNode(ctx, user, m.ID, "", "red")
	assert.True(t, errors.IsInvalidInput(err))

	_, err = s.AddNode(ctx, user, "MM-MISSING", "text", "")
	assert.Equal(t, errors.ErrCodeMapNotFound, errors.GetCode(err))
}

func TestRemoveNode(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	m, err := s.CreateMap(ctx, user, "Plan")
	require.NoError(t, err)
	n, err := s.AddNode(ctx, user, m.ID, "gone soon", "")
	require.NoError(t, err)

	require.NoError(t, s.RemoveNode(ctx, user, m.ID, n.ID))
	err = s.RemoveNode(ctx, user, m.ID, n.ID)
	assert.Equal(t, errors.ErrCodeNodeNotFound, errors.GetCode(err))

	got, err := s.GetMap(ctx, user, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.NodeCount())
}

func TestEditNode(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		edit NodeEdit
		want []Change
		text string
		clr  string
	}{
		{
			name: "text only",
			edit: NodeEdit{Text: "new"},
			want: []Change{{Field: FieldText, Old: "old", New: "new"}},
			text: "new", clr: "white",
		},
		{
			name: "color only",
			edit: NodeEdit{Color: "blue"},
			want: []Change{{Field: FieldColor, Old: "white", New: "blue"}},
			text: "old", clr: "blue",
		},
		{
			name: "both",
			edit: NodeEdit{Text: "new", Color: "blue"},
			want: []Change{
				{Field: FieldText, Old: "old", New: "new"},
				{Field: FieldColor, Old: "white", New: "blue"},
			},
			text: "new", clr: "blue",
		},
		{
			name: "unchanged",
			edit: NodeEdit{Text: "old", Color: "white"},
			want: nil,
			text: "old", clr: "white",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)
			m, err := s.CreateMap(ctx, user, "Plan")
			require.NoError(t, err)
			n, err := s.AddNode(ctx, user, m.ID, "old", "")
			require.NoError(t, err)

			changes, err := s.EditNode(ctx, user, m.ID, n.ID, tt.edit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, changes)

			got, err := s.GetMap(ctx, user, m.ID)
			require.NoError(t, err)
			node, ok := got.Nodes.Get(n.ID)
			require.True(t, ok)
			assert.Equal(t, tt.text, node.NodeText)
			assert.Equal(t, tt.clr, node.NodeColor)
		})
	}
}

func TestEditNodeErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	m, err := s.CreateMap(ctx, user, "Plan")
	require.NoError(t, err)
	n, err := s.AddNode(ctx, user, m.ID, "old", "")
	require.NoError(t, err)

	_, err = s.EditNode(ctx, user, m.ID, n.ID, NodeEdit{})
	assert.True(t, errors.IsInvalidInput(err))

	_, err = s.EditNode(ctx, user, m.ID, "ND-NOPE", NodeEdit{Text: "x"})
	assert.Equal(t, errors.ErrCodeNodeNotFound, errors.GetCode(err))
}

func TestRenameAndDeleteMap(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	m, err := s.CreateMap(ctx, user, "Old")
	require.NoError(t, err)

	change, err := s.RenameMap(ctx, user, m.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, Change{Field: FieldName, Old: "Old", New: "New"}, change)
	assert.Equal(t, `Name: "Old" → "New"`, change.String())

	require.NoError(t, s.DeleteMap(ctx, user, m.ID))
	_, err = s.GetMap(ctx, user, m.ID)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsNotFound(s.DeleteMap(ctx, user, m.ID)))
}

func TestCompleteMaps(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory(), WithLogger(log.New(io.Discard)))
	for i := 0; i < 30; i++ {
		_, err := s.CreateMap(ctx, user, fmt.Sprintf("map %d", i))
		require.NoError(t, err)
	}

	all, err := s.CompleteMaps(ctx, user, "")
	require.NoError(t, err)
	assert.Len(t, all, MaxChoices)

	lower, err := s.CompleteMaps(ctx, user, "mm-")
	require.NoError(t, err)
	assert.Len(t, lower, MaxChoices)

	first := all[0]
	exact, err := s.CompleteMaps(ctx, user, first.Value)
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Contains(t, exact[0].Label, "ID: "+first.Value+" | Name: map")

	none, err := s.CompleteMaps(ctx, user, "ND-")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCompleteNodes(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	m, err := s.CreateMap(ctx, user, "Plan")
	require.NoError(t, err)
	n, err := s.AddNode(ctx, user, m.ID, "hello", "")
	require.NoError(t, err)

	choices, err := s.CompleteNodes(ctx, user, m.ID, "nd-0")
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, Choice{Value: n.ID, Label: "ID: ND-0002 | Text: hello"}, choices[0])

	_, err = s.CompleteNodes(ctx, user, "MM-NOPE", "")
	assert.True(t, errors.IsNotFound(err))
}
