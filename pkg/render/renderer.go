package render

import (
	"bytes"
	"context"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/fonts"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/textwrap"
)

// Stroke widths in pixels.
const (
	EdgeWidth    = 4.0
	OutlineWidth = 3.0
)

// DefaultWatermark is drawn in the bottom-right corner of every image.
const DefaultWatermark = "Generated with mindmap-bot"

const (
	headerX         = 10.0
	headerY         = 30.0
	watermarkMargin = 10.0
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option { return func(r *Renderer) { r.logger = l } }

// WithWatermark replaces the watermark text. An empty string disables it.
func WithWatermark(s string) Option { return func(r *Renderer) { r.watermark = s } }

// Renderer draws mind maps. The zero value is not usable; call [New].
type Renderer struct {
	logger    *log.Logger
	watermark string
}

// New returns a Renderer with the given options applied.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger:    log.Default(),
		watermark: DefaultWatermark,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Render lays out cfg, draws it and returns the PNG encoding.
// cfg is not modified.
func (r *Renderer) Render(ctx context.Context, cfg mindmap.Config) ([]byte, error) {
	dc, _, err := r.Draw(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Render(err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderImage is Render without the PNG encoding step. The placement used
// for drawing is returned alongside the image.
func (r *Renderer) RenderImage(ctx context.Context, cfg mindmap.Config) (image.Image, layout.Placement, error) {
	dc, p, err := r.Draw(ctx, cfg)
	if err != nil {
		return nil, layout.Placement{}, err
	}
	return dc.Image(), p, nil
}

// Draw lays out cfg and paints it onto a new surface.
func (r *Renderer) Draw(ctx context.Context, cfg mindmap.Config) (*gg.Context, layout.Placement, error) {
	if err := ctx.Err(); err != nil {
		return nil, layout.Placement{}, err
	}

	start := time.Now()
	p, err := layout.Place(cfg)
	if err != nil {
		return nil, layout.Placement{}, err
	}

	faces, err := newFaceSet()
	if err != nil {
		return nil, layout.Placement{}, errors.Render(err, "load font")
	}

	dc := gg.NewContext(p.Width, p.Height)
	dc.SetColor(Background)
	dc.Clear()

	r.drawEdges(dc, p)
	r.drawSatellites(dc, p, faces.satellite)
	drawCentral(dc, p, faces.central)
	drawHeader(dc, p, faces.header)
	r.drawWatermark(dc, p, faces.watermark)

	r.logger.Debug("rendered mind map",
		"header", p.Header.Text,
		"nodes", len(p.Nodes),
		"rings", p.Rings,
		"size", p.Width,
		"duration", time.Since(start))
	return dc, p, nil
}

// faceSet holds the faces of one render. Faces are not shared across
// renders since glyph caches are not safe for concurrent use.
type faceSet struct {
	header, central, satellite, watermark font.Face
}

func newFaceSet() (faceSet, error) {
	var (
		fs  faceSet
		err error
	)
	if fs.header, err = fonts.NewFace(fonts.HeaderSize); err != nil {
		return fs, err
	}
	if fs.central, err = fonts.NewFace(fonts.CentralSize); err != nil {
		return fs, err
	}
	if fs.satellite, err = fonts.NewFace(fonts.SatelliteSize); err != nil {
		return fs, err
	}
	if fs.watermark, err = fonts.NewFace(fonts.WatermarkSize); err != nil {
		return fs, err
	}
	return fs, nil
}

func (r *Renderer) drawEdges(dc *gg.Context, p layout.Placement) {
	dc.SetColor(Ink)
	dc.SetLineWidth(EdgeWidth)
	for _, e := range p.Edges() {
		dc.DrawLine(e.From.X, e.From.Y, e.To.X, e.To.Y)
		dc.Stroke()
	}
}

// drawSatellites fills every satellite first so that overlapping neighbours
// keep both outlines.
func (r *Renderer) drawSatellites(dc *gg.Context, p layout.Placement, face font.Face) {
	for i, n := range p.Nodes {
		c, ok := ParseColor(n.Color)
		if !ok {
			r.logger.Debug("unknown node color, using white", "node", i, "color", n.Color)
			c = Paper
		}
		dc.SetColor(c)
		dc.DrawCircle(n.X, n.Y, layout.NodeRadius)
		dc.Fill()
	}

	dc.SetFontFace(face)
	dc.SetLineWidth(OutlineWidth)
	for _, n := range p.Nodes {
		dc.SetColor(Ink)
		dc.DrawCircle(n.X, n.Y, layout.NodeRadius)
		dc.Stroke()
		drawLines(dc, textwrap.Block(dc, n.Text, n.X, n.Y, textwrap.AnchorTop))
	}
}

func drawCentral(dc *gg.Context, p layout.Placement, face font.Face) {
	c := p.Central
	dc.DrawCircle(c.X, c.Y, layout.NodeRadius)
	dc.SetColor(Paper)
	dc.FillPreserve()
	dc.SetColor(Ink)
	dc.SetLineWidth(OutlineWidth)
	dc.Stroke()

	dc.SetFontFace(face)
	drawLines(dc, textwrap.Block(dc, c.Text, c.X, c.Y, textwrap.AnchorMiddle))
}

func drawHeader(dc *gg.Context, p layout.Placement, face font.Face) {
	if p.Header.Text == "" {
		return
	}
	dc.SetFontFace(face)
	dc.SetColor(Ink)
	dc.DrawString(p.Header.Text, headerX, headerY)
}

func (r *Renderer) drawWatermark(dc *gg.Context, p layout.Placement, face font.Face) {
	if r.watermark == "" {
		return
	}
	dc.SetFontFace(face)
	dc.SetColor(Paper)
	w, _ := dc.MeasureString(r.watermark)
	dc.DrawString(r.watermark,
		float64(p.Width)-w-watermarkMargin,
		float64(p.Height)-watermarkMargin)
}

func drawLines(dc *gg.Context, lines []textwrap.Line) {
	dc.SetColor(Ink)
	for _, l := range lines {
		dc.DrawString(l.Text, l.X, l.Y)
	}
}

// RenderPNG renders cfg with a default Renderer.
func RenderPNG(ctx context.Context, cfg mindmap.Config) ([]byte, error) {
	return New().Render(ctx, cfg)
}
