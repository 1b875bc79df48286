// Package raster owns the pixel buffer of a composed document and the raw pixel
// operations on it: decoding, encoding, resampling blits, flood fill and alpha rescaling.
package raster

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/montage/layout"
)

// Document is the canvas a script composes onto. It is exclusively owned by one run.
type Document struct {
	img *image.RGBA
	dpi float64
}

// New creates a width×height document filled with bg.
func New(width, height int, dpi float64, bg layout.Color) *Document {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, xdraw.Src)
	return &Document{img: img, dpi: dpi}
}

// FromImage wraps a decoded image as a document, copying its pixels.
func FromImage(src image.Image, dpi float64) *Document {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(img, img.Bounds(), src, b.Min, xdraw.Src)
	return &Document{img: img, dpi: dpi}
}

func (d *Document) Width() int         { return d.img.Bounds().Dx() }
func (d *Document) Height() int        { return d.img.Bounds().Dy() }
func (d *Document) DPI() float64       { return d.dpi }
func (d *Document) Image() *image.RGBA { return d.img }

// Blit resamples src into the destination rectangle, blending over existing pixels.
// Parts of rect outside the document are clipped.
func (d *Document) Blit(src image.Image, rect layout.Rect) {
	dst := image.Rect(
		int(math.Round(rect.X)),
		int(math.Round(rect.Y)),
		int(math.Round(rect.X+rect.W)),
		int(math.Round(rect.Y+rect.H)),
	)
	if dst.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(d.img, dst, src, src.Bounds(), xdraw.Over, nil)
}

// At returns the colour at (x, y); used by callers that inspect the result.
func (d *Document) At(x, y int) color.Color { return d.img.At(x, y) }

// ToNRGBA converts any image into a non-premultiplied copy so that alpha can be
// rewritten without touching colour channels.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(out, out.Bounds(), src, b.Min, xdraw.Src)
	return out
}
