// Package pipeline renders stored mind maps.
//
// The pipeline turns a record into one or more artifacts in two stages:
//
//  1. Layout: translate the record and place every note on the rings
//  2. Render: draw the placement as PNG, or export it as DOT, SVG or PDF
//
// The CLI and the HTTP API both go through a [Runner], so options,
// defaults and observability hooks are the same for every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(st, logger)
//	res, err := runner.RenderMap(ctx, "42", "MM-1A2B3C4D5E", pipeline.Options{
//	    Formats: []string{pipeline.FormatPNG, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	png := res.Artifacts[pipeline.FormatPNG]
package pipeline

import (
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/render"
)

// Format constants for output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatDOT = "dot"
	FormatPDF = "pdf"
)

// ValidFormats lists the supported output formats in their canonical order.
var ValidFormats = []string{FormatPNG, FormatSVG, FormatDOT, FormatPDF}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatPNG: "image/png",
	FormatSVG: "image/svg+xml",
	FormatDOT: "text/vnd.graphviz",
	FormatPDF: "application/pdf",
}

// Options configures a pipeline run.
type Options struct {
	// Formats to produce. Defaults to PNG only.
	Formats []string `json:"formats,omitempty"`

	// Watermark replaces the default watermark text.
	Watermark string `json:"watermark,omitempty"`

	// NoWatermark disables the watermark.
	NoWatermark bool `json:"no_watermark,omitempty"`

	// Concurrency bounds parallel renders in RenderAll.
	// Defaults to GOMAXPROCS.
	Concurrency int `json:"concurrency,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// MapID and Name identify the rendered record. Both are empty for an
	// anonymous record.
	MapID string
	Name  string

	// Hash is the content fingerprint of the record.
	Hash string

	// Config is the translated render input.
	Config mindmap.Config

	// Placement is the computed geometry.
	Placement layout.Placement

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Rings      int
	Size       int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated format list, lower-cases and
// de-duplicates it. An empty list yields the default.
func ParseFormats(s string) ([]string, error) {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(formats, f) {
			continue
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return []string{FormatPNG}, nil
	}
	return formats, ValidateFormats(formats)
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	return nil
}

// WatermarkText returns the watermark to draw, empty when disabled.
func (o Options) WatermarkText() string {
	switch {
	case o.NoWatermark:
		return ""
	case o.Watermark != "":
		return o.Watermark
	}
	return render.DefaultWatermark
}

// Wants reports whether format was requested.
func (o Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}
