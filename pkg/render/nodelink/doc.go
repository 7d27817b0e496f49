// Package nodelink exports a laid-out mind map as Graphviz DOT, SVG or PDF.
//
// # Overview
//
// The raster renderer in the parent package is the primary output. This
// package produces vector equivalents from the same [layout.Placement]:
// every node is pinned at its ring position, so Graphviz only draws and
// never re-arranges the map.
//
//	p, _ := layout.Place(cfg)
//	dot, err := nodelink.ToDOT(p, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// # DOT Format
//
// The generated DOT uses the neato engine with inputscale=72, so pos values
// are canvas pixels (points) with the y axis flipped. Two invisible corner
// nodes keep the drawing the same size as the raster canvas.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
