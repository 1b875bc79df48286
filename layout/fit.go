package layout

import (
	"fmt"
	"strings"
)

// Align 是图片在包围盒中的对齐方式。
type Align int

const (
	AlignCenter Align = iota
	AlignTop
	AlignBottom
	AlignLeft
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "center"
	}
}

// ParseAlign 解析 image 指令的 align 选项，空值视为 center。
func ParseAlign(value string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "center":
		return AlignCenter, nil
	case "top":
		return AlignTop, nil
	case "bottom":
		return AlignBottom, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignCenter, fmt.Errorf("%w: %q", ErrInvalidAlignment, value)
	}
}

// Place 计算保持宽高比、放入包围盒后的目标矩形。
//
// 源图比包围盒更"窄"时以高度为约束，left/right 决定水平位置；
// 否则以宽度为约束，top/bottom 决定垂直位置。其余情况均在非约束轴上居中。
// 结果不做裁剪：宽度约束下图片可能在垂直方向超出包围盒。
func Place(srcW, srcH float64, box Box, align Align) Rect {
	boxW, boxH := box.Width(), box.Height()
	if srcW/srcH < boxW/boxH {
		h := boxH
		w := srcW / srcH * h
		x := box.X0 + (boxW-w)/2
		switch align {
		case AlignLeft:
			x = box.X0
		case AlignRight:
			x = box.X1 - w
		}
		return Rect{X: x, Y: box.Y0, W: w, H: h}
	}

	w := boxW
	h := srcH / srcW * w
	y := box.Y0 + (boxH-h)/2
	switch align {
	case AlignTop:
		y = box.Y0
	case AlignBottom:
		y = box.Y1 - h
	}
	return Rect{X: box.X0, Y: y, W: w, H: h}
}
