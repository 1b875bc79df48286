package raster

import (
	"image"
	"image/color"

	"github.com/ByLCY/montage/layout"
)

// FloodFill replaces the 4-connected region of pixels that share the colour at (x, y) with c.
// Points outside the document are ignored.
func (d *Document) FloodFill(x, y int, c layout.Color) {
	img := d.img
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	target := img.RGBAAt(x, y)
	fill := color.RGBAModel.Convert(c.NRGBA()).(color.RGBA)
	if target == fill {
		return
	}

	b := img.Bounds()
	stack := []image.Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if img.RGBAAt(p.X, p.Y) != target {
			continue
		}
		// 向左右扩展成一段扫描线，再把上下两行的候选点入栈
		l, r := p.X, p.X
		for l > b.Min.X && img.RGBAAt(l-1, p.Y) == target {
			l--
		}
		for r < b.Max.X-1 && img.RGBAAt(r+1, p.Y) == target {
			r++
		}
		for i := l; i <= r; i++ {
			img.SetRGBA(i, p.Y, fill)
			if p.Y > b.Min.Y && img.RGBAAt(i, p.Y-1) == target {
				stack = append(stack, image.Point{X: i, Y: p.Y - 1})
			}
			if p.Y < b.Max.Y-1 && img.RGBAAt(i, p.Y+1) == target {
				stack = append(stack, image.Point{X: i, Y: p.Y + 1})
			}
		}
	}
}
