package render

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Fixed palette of the image.
var (
	Background = color.RGBA{0x40, 0x3f, 0x3b, 0xff}
	Ink        = color.RGBA{0x00, 0x00, 0x00, 0xff}
	Paper      = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// ParseColor resolves a CSS colour name (case-insensitive) or a #rgb/#rrggbb
// hex string. The empty string is the default note colour.
func ParseColor(s string) (color.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = mindmap.DefaultNodeColor
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, false
		}
		r, g, b := c.RGB255()
		return color.RGBA{r, g, b, 0xff}, true
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return nil, false
	}
	return c, true
}

// NodeColor is ParseColor with the white fallback applied.
func NodeColor(s string) color.Color {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return Paper
}
