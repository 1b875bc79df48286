package canvasrenderer

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/montage/fonts"
	"github.com/ByLCY/montage/layout"
	"github.com/ByLCY/montage/raster"
	"github.com/ByLCY/montage/renderer"
)

// mmToPt 换算毫米与点。光栅化分辨率固定为 1 像素/毫米，因此画布上的 1mm 就是 1 像素。
const mmToPt = 72 / 25.4

// drawMu 串行化所有 canvas 绘制调用：canvas 的路径求交（描边、填充）会写包级变量。
var drawMu sync.Mutex

// Renderer draws onto raster documents via github.com/tdewolff/canvas.
type Renderer struct {
	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a canvas-based renderer. One Renderer may serve concurrent runs:
// the font cache is locked and drawing is serialised across all renderers.
func NewRenderer() *Renderer {
	return &Renderer{fontFamilies: map[string]*canvas.FontFamily{}}
}

// TextWidth 实现 layout.Typesetter：返回文本在 size 像素字号下的宽度（像素）。
func (r *Renderer) TextWidth(font layout.FontResource, size float64, text string) (float64, error) {
	face, err := r.fontFace(font, size, layout.Black)
	if err != nil {
		return 0, err
	}
	drawMu.Lock()
	defer drawMu.Unlock()
	return face.TextWidth(text), nil
}

// DrawPolygon 先填充，再描边，最后在每个顶点画实心圆以模拟圆角连接。
func (r *Renderer) DrawPolygon(doc *raster.Document, poly layout.Polygon) error {
	if len(poly.Points) < 3 {
		return fmt.Errorf("%w: 只有 %d 个顶点", layout.ErrDegeneratePolygon, len(poly.Points))
	}
	drawMu.Lock()
	defer drawMu.Unlock()
	ctx := newContext(doc)

	path := &canvas.Path{}
	path.MoveTo(poly.Points[0].X, poly.Points[0].Y)
	for _, p := range poly.Points[1:] {
		path.LineTo(p.X, p.Y)
	}
	path.Close()

	if poly.Fill != nil {
		ctx.SetFillColor(colorFromLayout(*poly.Fill))
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, path)
	}
	if poly.Border == nil {
		return nil
	}
	border := colorFromLayout(*poly.Border)
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(border)
	ctx.SetStrokeWidth(poly.Thickness)
	ctx.DrawPath(0, 0, path)

	if radius := poly.CapRadius(); radius > 0 {
		ctx.SetFillColor(border)
		ctx.SetStrokeColor(canvas.Transparent)
		for _, p := range poly.Points {
			ctx.DrawPath(p.X, p.Y, canvas.Circle(radius))
		}
	}
	return nil
}

// DrawBorder 绘制包围盒边框，覆盖 [X0, X1) × [Y0, Y1) 最外一圈像素。
func (r *Renderer) DrawBorder(doc *raster.Document, box layout.Box, col layout.Color) error {
	w, h := box.Width()-1, box.Height()-1
	if w <= 0 || h <= 0 {
		return nil
	}
	drawMu.Lock()
	defer drawMu.Unlock()
	ctx := newContext(doc)
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(colorFromLayout(col))
	ctx.SetStrokeWidth(1)
	// 描边以路径为中心，偏移半个像素使线条正好落在像素格上
	ctx.DrawPath(box.X0+0.5, box.Y0+0.5, canvas.Rectangle(w, h))
	return nil
}

// DrawText 在基线起点 origin 处绘制文字。
func (r *Renderer) DrawText(doc *raster.Document, font layout.FontResource, size float64, origin layout.Point, col layout.Color, text string) error {
	face, err := r.fontFace(font, size, col)
	if err != nil {
		return err
	}
	drawMu.Lock()
	defer drawMu.Unlock()
	ctx := newContext(doc)
	ctx.DrawText(origin.X, origin.Y, canvas.NewTextLine(face, text, canvas.Left))
	return nil
}

func newContext(doc *raster.Document) *canvas.Context {
	ras := rasterizer.FromImage(doc.Image(), canvas.DPMM(1), canvas.DefaultColorSpace)
	ctx := canvas.NewContext(ras)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与文档坐标一致，左上角为原点
	return ctx
}

func (r *Renderer) fontFace(font layout.FontResource, sizePx float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePx*mmToPt, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, error) {
	if font.Src == "" {
		font = fonts.Default
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[font.Src]; ok {
		return family, nil
	}

	data, err := fonts.Load(font.Src)
	if err != nil {
		return nil, err
	}
	name := font.Name
	if name == "" {
		name = font.Src
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
	}
	r.fontFamilies[font.Src] = family
	return family, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}
