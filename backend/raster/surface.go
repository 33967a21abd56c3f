package raster

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Surface is a scratch drawing area to bake rotations into bitmaps. The pixel
// buffer is reused between calls to Render, so the image returned by Render is
// only valid until the next call.
type Surface struct {
	pix []uint8
	img *image.NRGBA
}

// Render draws src rotated clockwise by r onto the surface and returns the
// result. For 90 and 270 degrees the result has width and height of src
// swapped.
func (s *Surface) Render(src image.Image, r Rotation) *image.NRGBA {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	dw, dh := r.Effective(w, h)
	s.resize(dw, dh)

	if r == Rotate0 {
		draw.Draw(s.img, s.img.Rect, src, sb.Min, draw.Src)
		return s.img
	}
	draw.NearestNeighbor.Transform(s.img, rotationMatrix(r, sb), src, sb, draw.Src, nil)
	return s.img
}

// resize makes the surface w × h pixels large, growing the buffer if
// necessary.
func (s *Surface) resize(w, h int) {
	n := w * h * 4
	if cap(s.pix) < n {
		s.pix = make([]uint8, n)
	}
	s.img = &image.NRGBA{
		Pix:    s.pix[:n],
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// rotationMatrix maps source coordinates within sb to the rotated surface
// whose origin is at 0,0. The y axis points down, so a positive angle turns
// clockwise.
func rotationMatrix(r Rotation, sb image.Rectangle) f64.Aff3 {
	x0, y0 := float64(sb.Min.X), float64(sb.Min.Y)
	w, h := float64(sb.Dx()), float64(sb.Dy())
	switch r {
	case Rotate90:
		// (x, y) -> (h - y, x)
		return f64.Aff3{
			0, -1, h + y0,
			1, 0, -x0,
		}
	case Rotate180:
		// (x, y) -> (w - x, h - y)
		return f64.Aff3{
			-1, 0, w + x0,
			0, -1, h + y0,
		}
	case Rotate270:
		// (x, y) -> (y, w - x)
		return f64.Aff3{
			0, 1, -y0,
			-1, 0, w + x0,
		}
	}
	return f64.Aff3{
		1, 0, -x0,
		0, 1, -y0,
	}
}
