package layout

// 该文件定义布局计算、渲染与调试 JSON 共用的几何类型，单位均为像素。

// Box 是轴对齐的包围盒 (X0,Y0)-(X1,Y1)。
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (b Box) Width() float64  { return b.X1 - b.X0 }
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// Rect 记录图片最终放置的位置与尺寸。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Point 是一个像素坐标。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon 描述一次 poly 指令要绘制的图形；Fill 或 Border 为空表示不绘制对应部分。
type Polygon struct {
	Points    []Point `json:"points"`
	Fill      *Color  `json:"fill,omitempty"`
	Border    *Color  `json:"border,omitempty"`
	Thickness float64 `json:"thickness"`
}

// CapRadius 返回顶点处圆形端帽的半径，与线宽为 thickness 的圆角连接效果一致。
func (p Polygon) CapRadius() float64 {
	return (p.Thickness - 1) / 2
}

// FontResource 描述字体资源，Src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}
