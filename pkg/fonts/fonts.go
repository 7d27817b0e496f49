// Package fonts provides the embedded font used for raster rendering.
//
// The Go Regular typeface ships inside golang.org/x/image, so rendering
// works without any system fonts installed.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Font sizes in pixels used by the renderer.
const (
	HeaderSize    = 24.0
	CentralSize   = 18.0
	SatelliteSize = 16.0
	WatermarkSize = 16.0
)

// FontFamily is the family name written into vector outputs.
const FontFamily = "Go"

var (
	parsed     *truetype.Font
	parseErr   error
	parsedOnce sync.Once
)

// Regular returns the parsed embedded font. The result is cached after the
// first call.
func Regular() (*truetype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parseErr = truetype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// NewFace returns a fresh face of the embedded font at size px. At 72 DPI
// one point is one pixel, so size matches a CSS "16px" font directly.
// Faces are not safe for concurrent rasterization; parallel renders each
// take their own.
func NewFace(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Measurer measures strings with a face outside of a drawing context.
type Measurer struct {
	Face font.Face
}

// MeasureString returns the advance width and line height of s in pixels.
func (m Measurer) MeasureString(s string) (w, h float64) {
	adv := font.MeasureString(m.Face, s)
	return float64(adv) / 64, float64(m.Face.Metrics().Height) / 64
}
