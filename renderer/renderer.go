package renderer

import (
	"github.com/ByLCY/montage/layout"
	"github.com/ByLCY/montage/raster"
)

// Renderer 在文档像素缓冲区上绘制矢量图形与文字，同时负责文本测量。
// 所有坐标与尺寸均为像素，原点在左上角。
type Renderer interface {
	layout.Typesetter

	// DrawPolygon 依次绘制填充、描边与顶点圆形端帽；Fill/Border 为空时跳过对应部分。
	DrawPolygon(doc *raster.Document, poly layout.Polygon) error
	// DrawBorder 绘制一像素宽的矩形边框。
	DrawBorder(doc *raster.Document, box layout.Box, col layout.Color) error
	// DrawText 以 origin 为基线起点绘制单行文字。
	DrawText(doc *raster.Document, font layout.FontResource, size float64, origin layout.Point, col layout.Color, text string) error
}
