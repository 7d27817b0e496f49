package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/color/palette"
	"image/png"
	"io"
	"os"

	"github.com/BourgeoisBear/rasterm"
	"github.com/mattn/go-isatty"
	xdraw "golang.org/x/image/draw"
)

// previewSide is the largest side, in pixels, of an inline preview.
const previewSide = 600

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// preview draws a PNG inline using the best protocol the terminal offers:
// kitty, then iTerm2, then sixel.
func preview(w io.Writer, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("no png to preview")
	}
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("stdout is not a terminal")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode png: %w", err)
	}
	img = downscale(img, previewSide)

	switch {
	case rasterm.IsKittyCapable():
		err = rasterm.KittyWriteImage(w, img, rasterm.KittyImgOpts{})
	case rasterm.IsItermCapable():
		err = rasterm.ItermWriteImage(w, img)
	default:
		err = rasterm.SixelWriteImage(w, paletted(img))
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// downscale shrinks img so neither side exceeds limit.
func downscale(img image.Image, limit int) image.Image {
	b := img.Bounds()
	side := max(b.Dx(), b.Dy())
	if side <= limit {
		return img
	}
	w, h := b.Dx()*limit/side, b.Dy()*limit/side
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// paletted dithers img onto the Plan 9 palette for sixel output.
func paletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	return p
}
