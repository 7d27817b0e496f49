package layout

import (
	"math"
	"testing"
)

func TestHasEdge(t *testing.T) {
	tests := []struct {
		index int
		want  bool
	}{
		{-1, false},
		{0, true},
		{12, true},
		{24, true},
		{25, false},
		{100, false},
	}
	for _, tt := range tests {
		if got := HasEdge(tt.index); got != tt.want {
			t.Errorf("HasEdge(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestEdgesLimit(t *testing.T) {
	tests := []struct {
		n     int
		edges int
	}{
		{0, 0},
		{3, 3},
		{24, 24},
		{25, 25},
		{26, 25},
		{60, 25},
	}
	for _, tt := range tests {
		l, err := Compute(tt.n)
		if err != nil {
			t.Fatal(err)
		}
		edges := Edges(l)
		if len(edges) != tt.edges {
			t.Errorf("n=%d: %d edges, want %d", tt.n, len(edges), tt.edges)
		}
		for i, e := range edges {
			if e.Index != i {
				t.Errorf("n=%d: edge %d has index %d", tt.n, i, e.Index)
			}
		}
	}
}

func TestSpokeTrim(t *testing.T) {
	l, err := Compute(30)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range Edges(l) {
		s := l.Slots[e.Index]
		start := math.Hypot(e.From.X-l.Center.X, e.From.Y-l.Center.Y)
		if math.Abs(start-EdgeStartOffset) > 1e-9 {
			t.Errorf("edge %d starts %v from centre", e.Index, start)
		}
		end := math.Hypot(s.X-e.To.X, s.Y-e.To.Y)
		if math.Abs(end-EdgeEndOffset) > 1e-9 {
			t.Errorf("edge %d ends %v short of node", e.Index, end)
		}
		total := math.Hypot(e.To.X-l.Center.X, e.To.Y-l.Center.Y)
		if math.Abs(total-(s.Radius-EdgeEndOffset)) > 1e-9 {
			t.Errorf("edge %d reaches %v, want %v", e.Index, total, s.Radius-EdgeEndOffset)
		}
	}
}

func TestSpokeHorizontal(t *testing.T) {
	e := Spoke(Point{300, 300}, Point{500, 300})
	if e.From != (Point{360, 300}) || e.To != (Point{450, 300}) {
		t.Errorf("spoke = %+v", e)
	}
}
