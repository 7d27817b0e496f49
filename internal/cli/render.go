package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/recordio"
)

// stdoutPath selects standard output for --output.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input       string // record file instead of a stored map ("-" for stdin)
	formats     string // comma-separated output formats
	output      string // output base path, directory for --all, "-" for stdout
	preview     bool   // draw the PNG inline in the terminal
	all         bool   // render every map of the user
	watermark   string // replaces the configured watermark
	noWatermark bool   // disables the watermark
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [map-id]",
		Short: "Render a mind map to PNG, SVG, DOT or PDF",
		Long: `Render a stored mind map, every map with --all, or a record file with --input.

Without a map ID and attached to a terminal, an interactive picker lists your maps.
PNG is drawn natively; SVG and PDF go through Graphviz, PDF additionally needs rsvg-convert.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeMapID,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(opts.formats)
			if err != nil {
				return err
			}
			if opts.preview && !slices.Contains(formats, pipeline.FormatPNG) {
				formats = append(formats, pipeline.FormatPNG)
			}
			return c.runRender(cmd.Context(), args, formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "render a record file (.json, .yaml) instead of a stored map; - for stdin")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), svg, dot, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (directory with --all, - for stdout)")
	cmd.Flags().BoolVarP(&opts.preview, "preview", "p", false, "show the image in the terminal (kitty, iTerm2 or sixel)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "render every mind map of the user")
	cmd.Flags().StringVar(&opts.watermark, "watermark", "", "watermark text")
	cmd.Flags().BoolVar(&opts.noWatermark, "no-watermark", false, "omit the watermark")
	cmd.MarkFlagsMutuallyExclusive("input", "all")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, args []string, formats []string, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := pipeline.Options{
		Formats:     formats,
		Watermark:   cfg.Render.Watermark,
		NoWatermark: cfg.Render.NoWatermark || opts.noWatermark,
		Concurrency: cfg.Render.Concurrency,
	}
	if opts.watermark != "" {
		popts.Watermark = opts.watermark
	}
	if opts.output == stdoutPath && (opts.all || len(formats) != 1) {
		return errors.InvalidInput("--output - needs exactly one format and a single map")
	}

	if opts.input != "" {
		return c.renderInput(ctx, popts, opts)
	}

	s, err := c.newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.all {
		return c.renderAll(ctx, s, popts, opts)
	}

	var mapID string
	if len(args) > 0 {
		mapID = args[0]
	} else {
		mapID, err = c.pickMap(ctx, s)
		if err != nil || mapID == "" {
			return err
		}
	}

	prog := newProgress(loggerFromContext(ctx))
	res, err := spin(ctx, "Rendering "+mapID, func() (*pipeline.Result, error) {
		return s.runner.RenderMap(ctx, s.user, mapID, popts)
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + mapID)
	return c.emit(res, opts, opts.output)
}

func (c *CLI) renderInput(ctx context.Context, popts pipeline.Options, opts *renderOpts) error {
	rec, err := recordio.ImportRecord(opts.input, c.In)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(nil, c.Logger)
	res, err := spin(ctx, "Rendering "+rec.Name, func() (*pipeline.Result, error) {
		return runner.RenderRecord(ctx, rec, popts)
	})
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" && opts.input != recordio.Stdin {
		ext := filepath.Ext(opts.input)
		out = opts.input[:len(opts.input)-len(ext)]
	}
	return c.emit(res, opts, out)
}

func (c *CLI) renderAll(ctx context.Context, s *session, popts pipeline.Options, opts *renderOpts) error {
	prog := newProgress(loggerFromContext(ctx))
	results, err := spin(ctx, "Rendering all maps", func() ([]*pipeline.Result, error) {
		return s.runner.RenderAll(ctx, s.user, popts)
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		c.out().info("No mind maps to render")
		return nil
	}

	dir := opts.output
	if dir == "" {
		dir = "."
	}
	for _, res := range results {
		base := filepath.Join(dir, recordio.BaseName(res.Name, res.MapID)+"-"+res.MapID)
		if err := c.emit(res, opts, base); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %d maps", len(results)))
	return nil
}

// emit writes, previews and reports the artifacts of one result.
func (c *CLI) emit(res *pipeline.Result, opts *renderOpts, base string) error {
	p := c.out()

	if base == stdoutPath {
		// runRender guarantees a single format here.
		for _, data := range res.Artifacts {
			if _, err := c.Out.Write(data); err != nil {
				return err
			}
		}
		return nil
	}

	if base == "" {
		fallback := res.MapID
		if fallback == "" {
			fallback = appName
		}
		base = recordio.BaseName(res.Name, fallback)
	}

	written := res.Artifacts
	if opts.preview && !slices.Contains(requested(opts), pipeline.FormatPNG) {
		written = make(map[string][]byte, len(res.Artifacts))
		for f, data := range res.Artifacts {
			if f != pipeline.FormatPNG {
				written[f] = data
			}
		}
	}

	paths, err := recordio.WriteArtifacts(base, written)
	if err != nil {
		return err
	}

	title := res.Name
	if res.MapID != "" {
		title = res.MapID + " " + StyleDim.Render(res.Name)
	}
	p.success("%s", title)
	p.stats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.Rings, res.Stats.Size)
	for _, path := range paths {
		p.file(path)
	}

	if opts.preview {
		if err := preview(c.Out, res.Artifacts[pipeline.FormatPNG]); err != nil {
			p.warning("preview unavailable: %v", err)
		}
	}
	return nil
}

// requested returns the formats the user asked for explicitly.
func requested(opts *renderOpts) []string {
	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return nil
	}
	return formats
}

// spin runs fn behind a spinner when stderr is a terminal.
func spin[T any](ctx context.Context, msg string, fn func() (T, error)) (T, error) {
	if !isTerminal(os.Stderr) {
		return fn()
	}
	sp := newSpinner(ctx, os.Stderr, msg)
	sp.Start()
	defer sp.Stop()
	return fn()
}
