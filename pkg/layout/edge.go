package layout

import "math"

// Edge trims and limits.
const (
	// EdgeStartOffset puts the spoke's start on the central circle's rim.
	EdgeStartOffset = 60.0

	// EdgeEndOffset is how far short of the satellite's centre a spoke stops.
	// It is smaller than NodeRadius, so spokes reach 10 px into the satellite
	// circle and are hidden under its fill.
	EdgeEndOffset = 50.0

	// MaxEdgeIndex is the last note index that gets a spoke.
	MaxEdgeIndex = 24
)

// Edge is a straight spoke from the central node toward note Index.
type Edge struct {
	Index int   `json:"index"`
	From  Point `json:"from"`
	To    Point `json:"to"`
}

// HasEdge reports whether the note at index i is connected to the centre.
func HasEdge(i int) bool {
	return i >= 0 && i <= MaxEdgeIndex
}

// Edges returns the spokes for the notes of l, in note order.
func Edges(l Layout) []Edge {
	edges := make([]Edge, 0, min(len(l.Slots), MaxEdgeIndex+1))
	for i, s := range l.Slots {
		if !HasEdge(i) {
			break
		}
		e := Spoke(l.Center, s.Point)
		e.Index = i
		edges = append(edges, e)
	}
	return edges
}

// Spoke returns the trimmed segment between center and node along the
// bearing from center to node.
func Spoke(center, node Point) Edge {
	bearing := math.Atan2(node.Y-center.Y, node.X-center.X)
	cos, sin := math.Cos(bearing), math.Sin(bearing)
	return Edge{
		From: Point{
			X: center.X + EdgeStartOffset*cos,
			Y: center.Y + EdgeStartOffset*sin,
		},
		To: Point{
			X: node.X - EdgeEndOffset*cos,
			Y: node.Y - EdgeEndOffset*sin,
		},
	}
}
