package compose

import (
	"fmt"
	"math"

	"github.com/speedata/imgbinder/backend/page"
	"github.com/speedata/imgbinder/backend/raster"
)

// Rect is a rectangle on a page in page units (millimeters). X and Y are
// measured from the top left corner of the page.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) String() string {
	return fmt.Sprintf("%.2f,%.2f %.2fx%.2f", r.X, r.Y, r.Width, r.Height)
}

// Placement describes where a rotated image goes on a page.
type Placement struct {
	// RotatedWidth and RotatedHeight are the pixel dimensions after the
	// rotation, before scaling.
	RotatedWidth  int
	RotatedHeight int
	// Scale converts pixels to page units.
	Scale float64
	// X, Y, Width and Height are in page units, origin top left.
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Rect returns the rectangle covered by the image.
func (p Placement) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// ComputePlacement returns the largest rectangle with the aspect ratio of the
// w × h bitmap turned by r that fits into the page g minus a margin of m on
// each side. The rectangle is centered on the page. m is clamped to
// [0, page.MaxMargin].
func ComputePlacement(w, h int, r raster.Rotation, g page.Geometry, m float64) Placement {
	ew, eh := r.Effective(w, h)
	m = math.Max(0, math.Min(m, page.MaxMargin))

	aw := g.Width * (1 - 2*m)
	ah := g.Height * (1 - 2*m)
	scale := math.Min(aw/float64(ew), ah/float64(eh))
	sw := float64(ew) * scale
	sh := float64(eh) * scale

	return Placement{
		RotatedWidth:  ew,
		RotatedHeight: eh,
		Scale:         scale,
		X:             (g.Width - sw) / 2,
		Y:             (g.Height - sh) / 2,
		Width:         sw,
		Height:        sh,
	}
}

// PlacementFor returns the placement of the record's bitmap.
func PlacementFor(rec *raster.Record, g page.Geometry, m float64) Placement {
	w, h := rec.Size()
	return ComputePlacement(w, h, rec.Rotation, g, m)
}
