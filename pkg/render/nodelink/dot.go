package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/fonts"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/textwrap"
)

// Options configures DOT generation.
type Options struct {
	// Watermark is drawn in the bottom-right corner when non-empty.
	Watermark string
}

const centralID = "central"

// newFace is swapped in tests.
var newFace = fonts.NewFace

// ToDOT converts a placement to Graphviz DOT with pinned node positions.
// Labels are wrapped with the embedded font, so a font that fails to load
// is a render error.
func ToDOT(p layout.Placement, opts Options) (string, error) {
	satellite, err := measurer(fonts.SatelliteSize)
	if err != nil {
		return "", err
	}
	central, err := measurer(fonts.CentralSize)
	if err != nil {
		return "", err
	}
	h := float64(p.Height)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", hex(render.Background))
	if p.Header.Text != "" {
		fmt.Fprintf(&buf, "  label=%q; labelloc=t; labeljust=l; fontsize=%g; fontname=%q;\n",
			p.Header.Text, fonts.HeaderSize, fonts.FontFamily)
	}
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, width=%.4f, style=filled, penwidth=3, color=black, fontname=%q];\n",
		2*layout.NodeRadius/72, fonts.FontFamily)
	buf.WriteString("  edge [penwidth=4, color=black];\n")
	buf.WriteString("\n")

	buf.WriteString("  corner_min [shape=point, style=invis, width=0, pos=\"0,0!\"];\n")
	fmt.Fprintf(&buf, "  corner_max [shape=point, style=invis, width=0, pos=\"%d,%d!\"];\n", p.Width, p.Height)

	fmt.Fprintf(&buf, "  %q [%s];\n", centralID, strings.Join([]string{
		fmt.Sprintf("label=%q", label(central, p.Central.Text)),
		fmt.Sprintf("fillcolor=%q", hex(render.Paper)),
		fmt.Sprintf("fontsize=%g", fonts.CentralSize),
		pos(p.Central.X, h-p.Central.Y),
	}, ", "))

	for i, n := range p.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join([]string{
			fmt.Sprintf("label=%q", label(satellite, n.Text)),
			fmt.Sprintf("fillcolor=%q", hex(render.NodeColor(n.Color))),
			fmt.Sprintf("fontsize=%g", fonts.SatelliteSize),
			pos(n.X, h-n.Y),
		}, ", "))
	}

	if opts.Watermark != "" {
		wm, err := measurer(fonts.WatermarkSize)
		if err != nil {
			return "", err
		}
		w, _ := wm.MeasureString(opts.Watermark)
		fmt.Fprintf(&buf, "  watermark [shape=plaintext, style=\"\", fixedsize=false, label=%q, fontcolor=white, fontsize=%g, %s];\n",
			opts.Watermark, fonts.WatermarkSize, pos(float64(p.Width)-w/2-10, 16))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", centralID, nodeID(e.Index))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeID(i int) string { return "n" + strconv.Itoa(i) }

func pos(x, y float64) string {
	return fmt.Sprintf("pos=\"%.2f,%.2f!\"", x, y)
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// label wraps text the same way the raster renderer does.
func label(m textwrap.Measurer, text string) string {
	return strings.Join(textwrap.Wrap(m, text, textwrap.Width), "\n")
}

func measurer(size float64) (fonts.Measurer, error) {
	face, err := newFace(size)
	if err != nil {
		return fonts.Measurer{}, errors.Render(err, "load font")
	}
	return fonts.Measurer{Face: face}, nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz. The result can be
// converted further with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Render(err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Render(err, "render svg")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
