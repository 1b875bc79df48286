package raster

import "image"

// MaxGDAlpha is the fully transparent value on the 7-bit alpha scale the compositor works in
// (0 is opaque, 127 is transparent).
const MaxGDAlpha = 127

// GDAlpha converts an 8-bit alpha (255 opaque) to the 7-bit transparency scale.
func GDAlpha(a uint8) int { return MaxGDAlpha - int(a>>1) }

// FromGDAlpha converts a 7-bit transparency back to an 8-bit alpha.
func FromGDAlpha(g int) uint8 {
	if g <= 0 {
		return 0xff
	}
	if g >= MaxGDAlpha {
		return 0
	}
	return uint8(255 - ((g << 1) + (g >> 6)))
}

// ApplyOpacity rescales the alpha channel of img to opacity percent and reports whether
// anything was done. opacity >= 100 is a no-op.
//
// The first pass finds minAlpha, the transparency of the most opaque pixel. If some pixel is
// not fully transparent the transparencies are stretched relative to it:
//
//	a' = 127 + 127·f·(a−127)/(127−minAlpha)
//
// otherwise every pixel is shifted by 127·f. Both branches are kept as-is; they blend differently.
func ApplyOpacity(img *image.NRGBA, opacity float64) bool {
	if opacity >= 100 {
		return false
	}
	f := opacity / 100
	b := img.Bounds()

	minAlpha := MaxGDAlpha
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := GDAlpha(img.Pix[img.PixOffset(x, y)+3]); a < minAlpha {
				minAlpha = a
			}
		}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y) + 3
			a := float64(GDAlpha(img.Pix[i]))
			if minAlpha != MaxGDAlpha {
				a = MaxGDAlpha + MaxGDAlpha*f*(a-MaxGDAlpha)/float64(MaxGDAlpha-minAlpha)
			} else {
				a += MaxGDAlpha * f
			}
			img.Pix[i] = FromGDAlpha(int(a))
		}
	}
	return true
}
