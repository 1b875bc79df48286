package layout

import (
	"errors"
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// 宽高比与包围盒一致时，图片恰好铺满包围盒。
func TestPlaceExactFit(t *testing.T) {
	box := Box{X0: 0, Y0: 0, X1: 1000, Y1: 500}
	got := Place(2000, 1000, box, AlignCenter)
	want := Rect{X: 0, Y: 0, W: 1000, H: 500}
	if got != want {
		t.Fatalf("期望 %+v，实际 %+v", want, got)
	}
}

// 源图比包围盒窄（0.5 < 2.0）时走高度约束分支：高度铺满，水平居中。
func TestPlaceNarrowSourceIsHeightConstrained(t *testing.T) {
	box := Box{X0: 0, Y0: 0, X1: 1000, Y1: 500}
	got := Place(1000, 2000, box, AlignCenter)
	want := Rect{X: 375, Y: 0, W: 250, H: 500}
	if got != want {
		t.Fatalf("期望 %+v，实际 %+v", want, got)
	}
}

func TestPlacePreservesAspect(t *testing.T) {
	sources := [][2]float64{{2000, 1000}, {1000, 2000}, {640, 480}, {1, 1}, {3000, 7}, {7, 3000}}
	boxes := []Box{{0, 0, 1000, 500}, {10, 20, 110, 420}, {-50, -50, 50, 50}, {0, 0, 1920, 1200}}
	aligns := []Align{AlignCenter, AlignTop, AlignBottom, AlignLeft, AlignRight}
	for _, src := range sources {
		for _, box := range boxes {
			for _, a := range aligns {
				r := Place(src[0], src[1], box, a)
				if !near(r.W/r.H, src[0]/src[1]) {
					t.Fatalf("宽高比未保持: src=%v box=%+v rect=%+v", src, box, r)
				}
				// 约束轴上完全落在包围盒内
				if near(r.H, box.Height()) {
					if !near(r.Y, box.Y0) || r.X < box.X0-1e-6 || r.X+r.W > box.X1+1e-6 {
						t.Fatalf("高度约束结果越界: box=%+v rect=%+v", box, r)
					}
				} else {
					if !near(r.W, box.Width()) || !near(r.X, box.X0) {
						t.Fatalf("宽度约束结果不正确: box=%+v rect=%+v", box, r)
					}
				}
			}
		}
	}
}

func TestPlaceHorizontalAlignments(t *testing.T) {
	box := Box{X0: 100, Y0: 0, X1: 1100, Y1: 500}
	center := Place(100, 100, box, AlignCenter)
	if !near(center.X-box.X0, box.X1-(center.X+center.W)) {
		t.Fatalf("center 应与左右边等距: %+v", center)
	}
	if left := Place(100, 100, box, AlignLeft); !near(left.X, box.X0) {
		t.Fatalf("left 应贴左边: %+v", left)
	}
	if right := Place(100, 100, box, AlignRight); right.X+right.W != box.X1 {
		t.Fatalf("right 应贴右边: %+v", right)
	}
	// top/bottom 只作用于宽度约束分支，这里等同于 center
	if top := Place(100, 100, box, AlignTop); top != center {
		t.Fatalf("高度约束分支不应受 top 影响: %+v", top)
	}
}

func TestPlaceVerticalAlignments(t *testing.T) {
	box := Box{X0: 0, Y0: 100, X1: 500, Y1: 1100}
	center := Place(100, 100, box, AlignCenter)
	if !near(center.Y-box.Y0, box.Y1-(center.Y+center.H)) {
		t.Fatalf("center 应与上下边等距: %+v", center)
	}
	if top := Place(100, 100, box, AlignTop); !near(top.Y, box.Y0) {
		t.Fatalf("top 应贴上边: %+v", top)
	}
	if bottom := Place(100, 100, box, AlignBottom); bottom.Y+bottom.H != box.Y1 {
		t.Fatalf("bottom 应贴下边: %+v", bottom)
	}
	if left := Place(100, 100, box, AlignLeft); left != center {
		t.Fatalf("宽度约束分支不应受 left 影响: %+v", left)
	}
}

func TestParseAlign(t *testing.T) {
	cases := map[string]Align{"": AlignCenter, "center": AlignCenter, "TOP": AlignTop, "bottom": AlignBottom, " left ": AlignLeft, "right": AlignRight}
	for in, want := range cases {
		got, err := ParseAlign(in)
		if err != nil || got != want {
			t.Fatalf("ParseAlign(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseAlign("middle"); !errors.Is(err, ErrInvalidAlignment) {
		t.Fatalf("middle 应返回 ErrInvalidAlignment，实际 %v", err)
	}
}
