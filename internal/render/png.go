package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/hailam/minichess/internal/board"
)

// renderScale is the supersampling factor: the diagram is rasterized at
// this multiple of the requested size and then scaled down.
const renderScale = 3

// Image rasterizes the SVG diagram of pos. Labels are not drawn.
func Image(pos *board.Position, opts Options) (*image.RGBA, error) {
	size := 8 * opts.squareSize()
	renderSize := size * renderScale

	// Text elements are skipped; everything else is plain shapes.
	icon, err := oksvg.ReadIconStream(bytes.NewReader(SVG(pos, opts)), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse diagram: %w", err)
	}
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	// Render with anti-aliasing at high resolution
	large := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, large, large.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(img, img.Bounds(), large, large.Bounds(), xdraw.Src, nil)
	return img, nil
}

// WritePNG writes a PNG diagram of pos to w.
func WritePNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Image(pos, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
