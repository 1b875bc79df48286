package layout

import (
	"errors"
	"math"
	"testing"
)

// TestPercentResolve 验证百分比按参照长度换算：p% of L == p*L/100。
func TestPercentResolve(t *testing.T) {
	samples := []struct{ p, l float64 }{{0, 1000}, {2, 1200}, {50, 1920}, {100, 333}, {12.5, 800}, {150, 10}}
	for _, s := range samples {
		m := Measurement{Value: s.p, Unit: UnitPercent}
		got, err := m.Pixels(Along(s.l), 300)
		if err != nil {
			t.Fatalf("%g%% 解析失败: %v", s.p, err)
		}
		if want := s.p * s.l / 100; math.Abs(got-want) > 1e-9 {
			t.Fatalf("%g%% of %g 期望 %g，实际 %g", s.p, s.l, want, got)
		}
	}
}

// TestPercentWithoutReference 验证没有参照长度时百分比报错。
func TestPercentWithoutReference(t *testing.T) {
	_, err := Resolve("50%", Extent{}, 300)
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("期望 ErrUnresolvedReference，实际 %v", err)
	}
	// 绝对单位不需要参照长度
	if _, err := Resolve("2in", Extent{}, 300); err != nil {
		t.Fatalf("2in 不应依赖参照长度: %v", err)
	}
}

// TestPhysicalUnitsRoundTrip 覆盖 1in == 25.4mm == 2.54cm == dpi 像素。
func TestPhysicalUnitsRoundTrip(t *testing.T) {
	for _, dpi := range []float64{72, 96, 150, 300, 600} {
		for _, token := range []string{"1in", "25.4mm", "2.54cm", "1 in", "25.4 MM"} {
			got, err := Resolve(token, Extent{}, dpi)
			if err != nil {
				t.Fatalf("%s 解析失败: %v", token, err)
			}
			if diff := math.Abs(got - dpi); diff > 1e-9 {
				t.Fatalf("%s @ %gdpi 期望 %g，实际 %g", token, dpi, dpi, got)
			}
		}
	}
}

// TestPlainNumberIsPixels 验证纯数字原样作为像素值。
func TestPlainNumberIsPixels(t *testing.T) {
	got, err := Resolve(" 4711 ", Along(10), 300)
	if err != nil || got != 4711 {
		t.Fatalf("期望 4711，实际 %g (%v)", got, err)
	}
	got, err = Resolve("-12.5", Along(10), 300)
	if err != nil || got != -12.5 {
		t.Fatalf("期望 -12.5，实际 %g (%v)", got, err)
	}
}

func TestParseMeasurementRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "abc", "12px", "%", "1.2.3in", "NaN", "inf", "-Inf%", "1e400mm"} {
		if _, err := ParseMeasurement(token); !errors.Is(err, ErrInvalidMeasurement) {
			t.Fatalf("%q 应解析失败，实际 %v", token, err)
		}
	}
}

func TestMeasurementString(t *testing.T) {
	m, err := ParseMeasurement("20 CM")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Unit != UnitCM || m.Value != 20 || m.String() != "20cm" {
		t.Fatalf("unexpected measurement: %#v (%s)", m, m)
	}
}
