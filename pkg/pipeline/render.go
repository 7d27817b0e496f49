package pipeline

import (
	"context"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/render/nodelink"
)

// render generates the requested artifacts. The DOT source and the SVG are
// built at most once and shared between formats that derive from them.
func (r *Runner) render(ctx context.Context, cfg mindmap.Config, p layout.Placement, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	if opts.Wants(FormatDOT) || opts.Wants(FormatSVG) || opts.Wants(FormatPDF) {
		var err error
		if dot, err = nodelink.ToDOT(p, nodelink.Options{Watermark: opts.WatermarkText()}); err != nil {
			return nil, err
		}
	}

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			rd := render.New(render.WithLogger(r.Logger), render.WithWatermark(opts.WatermarkText()))
			data, err = rd.Render(ctx, cfg)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = svgOnce()
		case FormatPDF:
			var src []byte
			if src, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, src)
			}
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
