package layout

import (
	"math"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Ring geometry constants.
const (
	// BaseRadius is the radius of the first ring.
	BaseRadius = 200.0

	// RingCapacity is the maximum number of notes on one ring.
	RingCapacity = 12

	// RingSpacing is the radius step between consecutive rings.
	RingSpacing = 110.0

	// CanvasGrowth is how much the canvas radius grows per extra ring.
	CanvasGrowth = 100.0

	// CanvasMargin is the space kept between the outer radius and the canvas edge.
	CanvasMargin = 100.0

	// NodeRadius is the radius of every node circle, central or satellite.
	NodeRadius = 60.0
)

// Point is a position on the canvas in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Slot is the computed position of one satellite note.
type Slot struct {
	Ring   int     `json:"ring"`   // ring index, 0 is innermost
	Index  int     `json:"index"`  // position within the ring
	Angle  float64 `json:"angle"`  // radians, measured clockwise from +x in canvas space
	Radius float64 `json:"radius"` // distance from the canvas centre
	Point
}

// Layout is the computed geometry for n notes.
type Layout struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Center Point   `json:"center"`
	Rings  int     `json:"rings"`
	Slots  []Slot  `json:"slots"`
	Radius float64 `json:"radius"` // canvas outer radius R
}

// RingCount returns the number of rings used for n notes: max(1, ⌈n/12⌉).
func RingCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + RingCapacity - 1) / RingCapacity
}

// OuterRadius returns R = 200 + (⌈n/12⌉−1)·100.
//
// The ring count here is the raw ceiling, so an empty map gets R = 100 and a
// 400 px canvas.
func OuterRadius(n int) float64 {
	sets := (n + RingCapacity - 1) / RingCapacity
	return BaseRadius + float64(sets-1)*CanvasGrowth
}

// CanvasSide returns the side length of the square canvas for n notes.
func CanvasSide(n int) int {
	return int(2 * (OuterRadius(n) + CanvasMargin))
}

// Compute returns the ring layout for n notes.
// A negative n is an INVALID_INPUT error.
func Compute(n int) (Layout, error) {
	if n < 0 {
		return Layout{}, errors.InvalidInput("node count must be non-negative, got %d", n)
	}

	side := CanvasSide(n)
	center := Point{X: float64(side) / 2, Y: float64(side) / 2}
	rings := RingCount(n)

	l := Layout{
		Width:  side,
		Height: side,
		Center: center,
		Rings:  rings,
		Radius: OuterRadius(n),
		Slots:  make([]Slot, 0, n),
	}

	if n < RingCapacity {
		for i := 0; i < n; i++ {
			angle := (math.Pi * 2 * float64(i)) / float64(n)
			l.Slots = append(l.Slots, newSlot(center, 0, i, angle, BaseRadius))
		}
		return l, nil
	}

	spacing := (math.Pi * 2) / float64(rings)
	for s := 0; s < rings; s++ {
		inSet := min(RingCapacity, n-s*RingCapacity)
		radius := BaseRadius + float64(s)*RingSpacing

		stagger := 0.0
		if s > 0 {
			stagger = math.Pi / float64(inSet)
		}

		for i := 0; i < inSet; i++ {
			angle := spacing*float64(s) + stagger + (math.Pi*2*float64(i))/float64(inSet)
			l.Slots = append(l.Slots, newSlot(center, s, i, angle, radius))
		}
	}
	return l, nil
}

func newSlot(center Point, ring, index int, angle, radius float64) Slot {
	return Slot{
		Ring:   ring,
		Index:  index,
		Angle:  angle,
		Radius: radius,
		Point: Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		},
	}
}

// Placement is a Config with every coordinate filled in.
type Placement struct {
	Layout
	Header  mindmap.Header
	Central mindmap.CentralNode
	Nodes   []mindmap.Node
}

// Place lays out cfg and returns a new placement. cfg is not modified and the
// returned nodes share no memory with it.
func Place(cfg mindmap.Config) (Placement, error) {
	l, err := Compute(len(cfg.Nodes))
	if err != nil {
		return Placement{}, err
	}

	nodes := make([]mindmap.Node, len(cfg.Nodes))
	for i, n := range cfg.Nodes {
		n.X, n.Y = l.Slots[i].X, l.Slots[i].Y
		nodes[i] = n
	}

	central := cfg.CentralNode
	central.X, central.Y = l.Center.X, l.Center.Y

	return Placement{
		Layout:  l,
		Header:  cfg.HeaderLine(),
		Central: central,
		Nodes:   nodes,
	}, nil
}

// Edges returns the spokes of the placement.
func (p Placement) Edges() []Edge {
	return Edges(p.Layout)
}
