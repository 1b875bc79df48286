package canvasrenderer

import (
	"errors"
	"testing"

	"github.com/ByLCY/montage/fonts"
	"github.com/ByLCY/montage/layout"
	"github.com/ByLCY/montage/raster"
)

func TestTextWidthGrowsWithSize(t *testing.T) {
	r := NewRenderer()
	small, err := r.TextWidth(fonts.Default, 12, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	large, err := r.TextWidth(fonts.Default, 48, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if small <= 0 || large <= small {
		t.Fatalf("expected width to grow with size, got %.2f -> %.2f", small, large)
	}
	// 字号放大 4 倍，宽度应近似放大 4 倍
	if ratio := large / small; ratio < 3.8 || ratio > 4.2 {
		t.Fatalf("width should scale linearly with size, ratio %.3f", ratio)
	}
	empty, err := r.TextWidth(layout.FontResource{}, 12, "")
	if err != nil || empty != 0 {
		t.Fatalf("empty text should measure 0, got %.2f (%v)", empty, err)
	}
}

func TestTextWidthMissingFont(t *testing.T) {
	r := NewRenderer()
	_, err := r.TextWidth(layout.FontResource{Name: "x", Src: "/does/not/exist.ttf"}, 12, "a")
	if !errors.Is(err, layout.ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}
}

func TestDrawPolygonFillsInterior(t *testing.T) {
	r := NewRenderer()
	doc := raster.New(100, 100, 300, layout.White)
	red := layout.Color{R: 0xff, A: 0xff}
	poly := layout.Polygon{
		Points:    []layout.Point{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 50, Y: 90}},
		Fill:      &red,
		Border:    &layout.Black,
		Thickness: 3,
	}
	if err := r.DrawPolygon(doc, poly); err != nil {
		t.Fatalf("DrawPolygon: %v", err)
	}
	if got := doc.Image().RGBAAt(50, 40); got.R < 0xf0 || got.G > 0x10 || got.B > 0x10 {
		t.Fatalf("interior should be red, got %+v", got)
	}
	if got := doc.Image().RGBAAt(50, 10); got.R > 0x40 {
		t.Fatalf("top edge should carry the black border, got %+v", got)
	}
	if got := doc.Image().RGBAAt(5, 95); got.R != 0xff || got.G != 0xff || got.B != 0xff {
		t.Fatalf("outside should stay white, got %+v", got)
	}
}

func TestDrawPolygonRejectsDegenerate(t *testing.T) {
	r := NewRenderer()
	doc := raster.New(10, 10, 300, layout.White)
	err := r.DrawPolygon(doc, layout.Polygon{Points: []layout.Point{{X: 1, Y: 1}, {X: 5, Y: 5}}, Border: &layout.Black, Thickness: 1})
	if !errors.Is(err, layout.ErrDegeneratePolygon) {
		t.Fatalf("expected ErrDegeneratePolygon, got %v", err)
	}
}

func TestDrawBorderOutlinesBox(t *testing.T) {
	r := NewRenderer()
	doc := raster.New(20, 20, 300, layout.White)
	red := layout.Color{R: 0xff, A: 0xff}
	if err := r.DrawBorder(doc, layout.Box{X0: 2, Y0: 2, X1: 18, Y1: 18}, red); err != nil {
		t.Fatalf("DrawBorder: %v", err)
	}
	if got := doc.Image().RGBAAt(2, 10); got.R < 0xf0 || got.G > 0x40 {
		t.Fatalf("left edge should be red, got %+v", got)
	}
	if got := doc.Image().RGBAAt(10, 10); got.G != 0xff {
		t.Fatalf("inside of the box should stay white, got %+v", got)
	}
}

func TestDrawTextMarksPixels(t *testing.T) {
	r := NewRenderer()
	doc := raster.New(200, 60, 300, layout.White)
	if err := r.DrawText(doc, fonts.Default, 32, layout.Point{X: 10, Y: 40}, layout.Black, "Hello"); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	img := doc.Image()
	dark := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y).R < 0x80 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Fatalf("expected text to darken some pixels")
	}
}
