package bag

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrConversion signals an error in unit conversion
	ErrConversion = errors.New("Conversion error")
)

// Factor is the multiplier to get DTP points from scaled points.
const Factor ScaledPoint = 0xffff

// A ScaledPoint is a 65535th of a DTP point
type ScaledPoint int

// String returns the value in DTP points, rounded to four decimal places and
// never in exponent notation.
func (s ScaledPoint) String() string {
	pt := math.Round(s.ToPT()*1e4) / 1e4
	if pt == 0 {
		// no negative zero
		pt = 0
	}
	return strconv.FormatFloat(pt, 'f', -1, 64)
}

// ToPT returns the unit as a float64 DTP point. 2 * 0xffff returns 2.0
func (s ScaledPoint) ToPT() float64 {
	return float64(s) / float64(Factor)
}

// ToUnit converts the scaled point to the given unit. The units which are
// interpreted are pt, in, mm, cm, px and pc.
func (s ScaledPoint) ToUnit(unit string) (float64, error) {
	pt := s.ToPT()
	switch unit {
	case "pt":
		return pt, nil
	case "in":
		return pt / 72, nil
	case "mm":
		return pt / 72 * 25.4, nil
	case "cm":
		return pt / 72 * 2.54, nil
	case "px":
		return pt / 72 * 96, nil
	case "pc":
		return pt / 12, nil
	}
	return 0, fmt.Errorf("%w unknown unit %q", ErrConversion, unit)
}

// ScaledPointFromFloat returns a ScaledPoint for the DTP point value pt.
func ScaledPointFromFloat(pt float64) ScaledPoint {
	return ScaledPoint(pt * float64(Factor))
}

// FromMM converts millimeters to a ScaledPoint.
func FromMM(mm float64) ScaledPoint {
	// mm / 10 [cm], / 2.54 [in], * 72 [pt]
	return ScaledPointFromFloat(mm / 10 / 2.54 * 72)
}
