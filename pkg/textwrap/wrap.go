// Package textwrap breaks node labels into lines that fit a node circle.
//
// Wrapping is greedy on single spaces and bounded by measured pixel width, so
// it depends on a [Measurer] for the active font. The number of lines is
// capped at floor(width/lineHeight); overflowing blocks are cut and the last
// kept line ends in "...".
package textwrap

import (
	"math"
	"strings"
)

const (
	// Width is the maximum pixel width of one label line (2·60 − 10).
	Width = 110.0

	// LineHeight is the distance between consecutive baselines.
	LineHeight = 20.0

	// Ellipsis replaces the tail of the last line of a truncated block.
	Ellipsis = "..."
)

// Measurer reports the rendered size of a string under the current font.
// *gg.Context satisfies it.
type Measurer interface {
	MeasureString(s string) (w, h float64)
}

// MeasurerFunc adapts a width function to a Measurer.
type MeasurerFunc func(s string) float64

// MeasureString implements Measurer.
func (f MeasurerFunc) MeasureString(s string) (float64, float64) {
	return f(s), 0
}

// MaxLines returns floor(width/lineHeight), the line cap of a block.
func MaxLines(width, lineHeight float64) int {
	if lineHeight <= 0 {
		return 0
	}
	return int(math.Floor(width / lineHeight))
}

// Fits reports whether text fits on a single line of the given width.
func Fits(m Measurer, text string, width float64) bool {
	w, _ := m.MeasureString(text)
	return w <= width
}

// Wrap splits text into lines no wider than width where possible.
//
// A label that fits is returned as a single line. Otherwise words are added
// to the current line until the next word would overflow it; a word wider
// than width still gets a line of its own. Blocks longer than
// MaxLines(width, LineHeight) are truncated and end in [Ellipsis].
func Wrap(m Measurer, text string, width float64) []string {
	if Fits(m, text, width) {
		return []string{text}
	}

	var (
		lines []string
		line  string
	)
	for _, word := range strings.Split(text, " ") {
		test := word
		if line != "" {
			test = line + " " + word
		}
		if w, _ := m.MeasureString(test); w > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line = test
	}
	lines = append(lines, line)

	return Truncate(lines, MaxLines(width, LineHeight))
}

// Truncate cuts lines to at most limit entries. When lines are dropped the last
// kept line loses its final three characters to [Ellipsis].
func Truncate(lines []string, limit int) []string {
	if limit <= 0 || len(lines) <= limit {
		return lines
	}
	out := make([]string, limit)
	copy(out, lines[:limit])
	out[limit-1] = ellipsize(out[limit-1])
	return out
}

func ellipsize(s string) string {
	r := []rune(s)
	n := len(Ellipsis)
	if len(r) < n {
		n = len(r)
	}
	return string(r[:len(r)-n]) + Ellipsis
}
