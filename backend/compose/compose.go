// Package compose lays out images on pages, one image per page. Each image is
// rotated, scaled to fit into the margins of the page and centered.
package compose

import (
	"fmt"
	"image"

	"github.com/speedata/imgbinder/backend/bag"
	"github.com/speedata/imgbinder/backend/page"
	"github.com/speedata/imgbinder/backend/raster"
)

// Encoder receives the pages. NewDocument is called for the first page,
// AddPage for every following page. PlaceImage must be done with the bitmap
// when it returns, the bitmap is overwritten by the next page.
type Encoder interface {
	NewDocument(g page.Geometry) error
	AddPage(g page.Geometry) error
	PlaceImage(bitmap image.Image, r Rect) error
}

// ProgressFunc gets the percentage (0 to 100) of images placed so far.
type ProgressFunc func(percent float64)

// Task is the work for one page.
type Task struct {
	Index     int
	Record    *raster.Record
	Placement Placement
}

// Plan returns one task per record in the order of recs. The margin must be
// valid and all records must have a valid rotation.
func Plan(recs []raster.Record, g page.Geometry, m float64) ([]Task, error) {
	if err := page.ValidateMargin(m); err != nil {
		return nil, err
	}
	tasks := make([]Task, len(recs))
	for i := range recs {
		rec := &recs[i]
		if !rec.Rotation.Valid() {
			return nil, fmt.Errorf("compose: image %q: %w: %d", rec.Name, raster.ErrRotation, rec.Rotation)
		}
		tasks[i] = Task{
			Index:     i,
			Record:    rec,
			Placement: PlacementFor(rec, g, m),
		}
	}
	return tasks, nil
}

// Compose places every record on a page of its own in the order of recs and
// returns the number of pages placed. Without records Compose does nothing,
// enc is not called at all. The first error stops the run. progress may be
// nil.
func Compose(recs []raster.Record, g page.Geometry, m float64, enc Encoder, progress ProgressFunc) (int, error) {
	if len(recs) == 0 {
		bag.Logger.Debug("Compose: no images")
		return 0, nil
	}
	tasks, err := Plan(recs, g, m)
	if err != nil {
		return 0, err
	}
	bag.Logger.Infof("Compose %d image(s) on %s, margin %g%%", len(tasks), g, m*100)

	var surface raster.Surface
	for _, t := range tasks {
		if err = t.run(&surface, g, enc); err != nil {
			return t.Index, fmt.Errorf("compose: image %q: %w", t.Record.Name, err)
		}
		if progress != nil {
			progress(100 * float64(t.Index+1) / float64(len(tasks)))
		}
	}
	return len(tasks), nil
}

func (t Task) run(surface *raster.Surface, g page.Geometry, enc Encoder) error {
	bitmap := surface.Render(t.Record.Bitmap, t.Record.Rotation)

	var err error
	if t.Index == 0 {
		err = enc.NewDocument(g)
	} else {
		err = enc.AddPage(g)
	}
	if err != nil {
		return err
	}
	r := t.Placement.Rect()
	bag.Logger.Debugf("Page %d: %s at %s, scale %g", t.Index+1, t.Record, r, t.Placement.Scale)
	return enc.PlaceImage(bitmap, r)
}
