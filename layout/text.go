package layout

import (
	"fmt"
	"math"
	"strings"
)

// 自动缩小字号的策略常量。
const (
	// ShrinkRatio 是每轮缩小字号时的除数。
	ShrinkRatio = 1.1
	// MinFontSize 是缩小字号的下限，到达后即使仍超宽也不再缩小。
	MinFontSize = 8.0
)

// Unconstrained 表示不限制文本最大宽度。
const Unconstrained = math.MaxFloat64

// TextAlign 是文本相对锚点的水平对齐方式。
type TextAlign int

const (
	TextCenter TextAlign = iota
	TextLeft
	TextRight
)

func (a TextAlign) String() string {
	switch a {
	case TextCenter:
		return "center"
	case TextLeft:
		return "left"
	case TextRight:
		return "right"
	default:
		return fmt.Sprintf("TextAlign(%d)", int(a))
	}
}

// ParseTextAlign 解析 text 指令的 align 选项。
func ParseTextAlign(value string) (TextAlign, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "center":
		return TextCenter, nil
	case "left":
		return TextLeft, nil
	case "right":
		return TextRight, nil
	default:
		return TextCenter, fmt.Errorf("%w: %q", ErrInvalidAlignment, value)
	}
}

// TextPlacement 是一次文本排版的结果。
type TextPlacement struct {
	Size  float64 `json:"size"`  // 实际使用的字号
	X     float64 `json:"x"`     // 绘制起点（左端）
	Y     float64 `json:"y"`     // 基线
	Width float64 `json:"width"` // 实际字号下的文本宽度
}

// Autofit 在超出 maxWidth 时按 ShrinkRatio 逐步缩小字号，并根据对齐方式计算绘制起点。
// 字号不会被缩小到 MinFontSize 以下；到达下限后宽度仍可能超过 maxWidth，此时不报错。
// 行距由调用方根据返回的字号决定。
func Autofit(ts Typesetter, font FontResource, text string, size float64, anchor Point, align TextAlign, maxWidth float64) (TextPlacement, error) {
	width, err := ts.TextWidth(font, size, text)
	if err != nil {
		return TextPlacement{}, err
	}
	for width > maxWidth && size > MinFontSize {
		size = math.Max(size/ShrinkRatio, MinFontSize)
		if width, err = ts.TextWidth(font, size, text); err != nil {
			return TextPlacement{}, err
		}
	}

	var x float64
	switch align {
	case TextCenter:
		x = anchor.X - width/2
	case TextLeft:
		x = anchor.X
	case TextRight:
		x = anchor.X - width
	default:
		return TextPlacement{}, fmt.Errorf("%w: %s", ErrInvalidAlignment, align)
	}
	return TextPlacement{Size: size, X: x, Y: anchor.Y, Width: width}, nil
}
