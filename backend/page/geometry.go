// Package page contains the page sizes and margins a document can be built
// with. All lengths are in millimeters.
package page

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/speedata/imgbinder/backend/bag"
)

var (
	// ErrUnknownGeometry is returned for page size keys not in the list of
	// known sizes.
	ErrUnknownGeometry = errors.New("unknown page size")
	// ErrMargin is returned for margins outside of [0, MaxMargin].
	ErrMargin = errors.New("invalid margin")
)

// MaxMargin is the largest margin fraction accepted on each side of a page.
const MaxMargin = 0.20

// Margins is the list of margin fractions offered to the user.
var Margins = []float64{0, 0.02, 0.05, 0.10, 0.15, 0.20}

// Geometry is a named page size.
type Geometry struct {
	Key    string
	Width  float64
	Height float64
}

func (g Geometry) String() string {
	return fmt.Sprintf("%s (%gmm × %gmm)", g.Key, g.Width, g.Height)
}

// Size returns the page dimensions as scaled points.
func (g Geometry) Size() (bag.ScaledPoint, bag.ScaledPoint) {
	return bag.FromMM(g.Width), bag.FromMM(g.Height)
}

// Dimensions returns the page width and height in unit, one of the units
// understood by bag.ScaledPoint.ToUnit.
func (g Geometry) Dimensions(unit string) (float64, float64, error) {
	wd, ht := g.Size()
	w, err := wd.ToUnit(unit)
	if err != nil {
		return 0, 0, err
	}
	h, err := ht.ToUnit(unit)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// The known page sizes.
var (
	Letter  = Geometry{Key: "letter", Width: 215.9, Height: 279.4}
	Legal   = Geometry{Key: "legal", Width: 215.9, Height: 355.6}
	Tabloid = Geometry{Key: "tabloid", Width: 279.4, Height: 431.8}
	A4      = Geometry{Key: "a4", Width: 210, Height: 297}
	A3      = Geometry{Key: "a3", Width: 297, Height: 420}
)

// Default is the page size used when nothing else is requested.
var Default = A4

var geometries = map[string]Geometry{
	Letter.Key:  Letter,
	Legal.Key:   Legal,
	Tabloid.Key: Tabloid,
	A4.Key:      A4,
	A3.Key:      A3,
}

// Lookup returns the page size for key. The key is case insensitive.
func Lookup(key string) (Geometry, error) {
	g, ok := geometries[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Geometry{}, fmt.Errorf("%w %q (known sizes: %s)", ErrUnknownGeometry, key, strings.Join(Keys(), ", "))
	}
	return g, nil
}

// Keys returns the sorted keys of all known page sizes.
func Keys() []string {
	keys := make([]string, 0, len(geometries))
	for k := range geometries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateMargin returns an error wrapping ErrMargin if m is not within
// [0, MaxMargin].
func ValidateMargin(m float64) error {
	if m < 0 || m > MaxMargin || math.IsNaN(m) {
		return fmt.Errorf("%w %g, must be between 0 and %g", ErrMargin, m, MaxMargin)
	}
	return nil
}

// ParseMargin interprets s as a margin. "10", "10%" and "0.1" all denote a
// margin of 10 percent. Values below one without a percent sign are taken as
// fractions. The result must be one of Margins.
func ParseMargin(s string) (float64, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrMargin, s)
	}
	if percent || v >= 1 {
		v /= 100
	}
	for _, m := range Margins {
		if diff := v - m; diff < 1e-9 && diff > -1e-9 {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w %g, allowed are %s", ErrMargin, v, marginList())
}

func marginList() string {
	ret := make([]string, len(Margins))
	for i, m := range Margins {
		ret[i] = strconv.FormatFloat(m*100, 'f', -1, 64) + "%"
	}
	return strings.Join(ret, ", ")
}
