package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file defines measurements as written in scripts and their conversion to pixels.

// Unit represents the original unit of a measurement as written in a script.
type Unit int

const (
	UnitPixel   Unit = iota // plain numbers are already absolute pixels
	UnitPercent             // relative to a reference length
	UnitIN                  // inches
	UnitMM                  // millimeters
	UnitCM                  // centimeters
)

// Conversion constants between physical units and inches.
const (
	MmPerInch = 25.4
	CmPerInch = 2.54
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPercent:
		return "%"
	case UnitIN:
		return "in"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	default:
		return ""
	}
}

// Measurement preserves a numeric value with its unit.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (m Measurement) String() string {
	return strconv.FormatFloat(m.Value, 'g', -1, 64) + UnitToString(m.Unit)
}

// Extent is the reference length a percentage is resolved against.
// The zero value is undefined, which makes any percentage fail.
type Extent struct {
	Length  float64
	Defined bool
}

// Along returns a defined extent of the given length.
func Along(length float64) Extent { return Extent{Length: length, Defined: true} }

// Pixels converts the measurement to pixels. Percentages use ref, physical units use dpi.
func (m Measurement) Pixels(ref Extent, dpi float64) (float64, error) {
	switch m.Unit {
	case UnitPercent:
		if !ref.Defined {
			return 0, fmt.Errorf("%w: %s", ErrUnresolvedReference, m)
		}
		return m.Value * ref.Length / 100, nil
	case UnitIN:
		return m.Value * dpi, nil
	case UnitMM:
		return m.Value * dpi / MmPerInch, nil
	case UnitCM:
		return m.Value * dpi / CmPerInch, nil
	default:
		return m.Value, nil
	}
}

// ParseMeasurement parses a script measurement preserving its unit.
// Whitespace between number and unit is allowed ("20 cm").
func ParseMeasurement(value string) (Measurement, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Measurement{}, fmt.Errorf("%w: 空值", ErrInvalidMeasurement)
	}
	unit := UnitPixel
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"%", UnitPercent}, {"in", UnitIN}, {"mm", UnitMM}, {"cm", UnitCM}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Measurement{}, fmt.Errorf("%w: %q", ErrInvalidMeasurement, value)
	}
	return Measurement{Value: f, Unit: unit}, nil
}

// Resolve parses token and converts it to pixels in one step.
func Resolve(token string, ref Extent, dpi float64) (float64, error) {
	m, err := ParseMeasurement(token)
	if err != nil {
		return 0, err
	}
	return m.Pixels(ref, dpi)
}
