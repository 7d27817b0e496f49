// Package render draws a mind map onto a raster surface and encodes it.
//
// # Overview
//
// A [Renderer] turns a [mindmap.Config] into PNG bytes. Each call lays the
// config out with [layout.Place], allocates its own surface, draws and
// encodes it, then discards the surface. Nothing is shared between calls,
// so one Renderer may be used from many goroutines.
//
//	r := render.New(render.WithLogger(logger))
//	png, err := r.Render(ctx, cfg)
//
// # Drawing order
//
//  1. Background fill (#403f3b)
//  2. Spokes to the first 25 notes (black, 4 px)
//  3. Satellite fills in their note colour, then their outlines and labels
//  4. The central node (always white) and its label
//  5. The header in the top-left corner
//  6. The watermark in the bottom-right corner
//
// Note colours are CSS colour names or hex strings. An empty colour means
// white; a colour that cannot be parsed also falls back to white and is
// logged at debug level.
//
// # Format Conversion
//
// [ToPDF] converts an SVG (see the [nodelink] subpackage) to PDF with the
// external rsvg-convert tool.
//
// [nodelink]: github.com/matzehuels/mindmap/pkg/render/nodelink
package render
