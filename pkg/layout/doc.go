// Package layout computes the ring layout of a mind map.
//
// # Overview
//
// Satellite notes are arranged on concentric rings around the central
// topic. A ring holds up to [RingCapacity] notes; notes fill rings in
// insertion order, so note i lives on ring i/12 at slot i%12.
//
//	l, err := layout.Compute(13)
//	// l.Width == l.Height == 800, l.Center == {400, 400}
//	// l.Slots[12] sits on ring 1 at radius 310
//
// # Geometry
//
// With fewer than 12 notes a single ring of radius [BaseRadius] is used and
// note i sits at angle 2π·i/n. From 12 notes on, ring s has radius
// BaseRadius + 110·s and note i of that ring sits at
//
//	s·(2π/S) + stagger + 2π·i/k
//
// where S is the number of rings, k the number of notes on ring s, and
// stagger is π/k for every ring but the first. The ring offset is derived
// from the ring count rather than the per-ring spacing; this produces the
// characteristic fan-out of large maps and is kept as is.
//
// The canvas is square with side 2·(R+100), R = 200 + (⌈n/12⌉−1)·100.
//
// # Edges
//
// [Edges] returns the spokes drawn between the centre and the first 25
// notes. A spoke starts on the central circle's rim (60 px out) and stops
// 50 px short of the satellite's centre.
//
// Layout is a pure function of the note count and order: [Place] returns a
// new, coordinate-annotated copy of the nodes and never touches its input.
package layout
