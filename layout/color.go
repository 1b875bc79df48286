package layout

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// NamedColorCount 是可按名称引用的标准颜色数量（SVG 1.1 / CSS 颜色关键字）。
const NamedColorCount = 147

// Color 采用 0-255 的 RGB 数值，A 为 255 时表示不透明。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Black 是文字与多边形边框的默认颜色。
var Black = Color{A: 0xff}

// White 是新建文档的默认背景色。
var White = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// NRGBA 返回标准库颜色值，供光栅后端使用。
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor 解析颜色名称（大小写不敏感）或 6 位十六进制（可带 # 前缀）。
func ParseColor(value string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if c, ok := colornames.Map[name]; ok {
		return Color{R: c.R, G: c.G, B: c.B, A: 0xff}, nil
	}
	hex := strings.TrimPrefix(name, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, value)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
