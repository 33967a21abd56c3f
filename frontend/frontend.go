// Package frontend has the convenience functions to turn a list of image
// files into a PDF document with one image per page.
package frontend

import (
	"fmt"

	"github.com/speedata/imgbinder/backend/bag"
	"github.com/speedata/imgbinder/backend/compose"
	"github.com/speedata/imgbinder/backend/document"
	"github.com/speedata/imgbinder/backend/page"
	"github.com/speedata/imgbinder/backend/raster"
)

// Converter owns the images the user has selected and the settings for the
// conversion.
type Converter struct {
	Images   *raster.Collection
	Geometry page.Geometry
	// Margin is the fraction of the page width and height left empty on
	// each side.
	Margin      float64
	Title       string
	Author      string
	Subject     string
	Keywords    string
	JPEGQuality int
	Trace       bool
	Progress    compose.ProgressFunc
}

// New returns a converter with an empty collection, A4 pages and no margin.
func New() *Converter {
	return &Converter{
		Images:   raster.NewCollection(),
		Geometry: page.Default,
	}
}

// AddFiles loads the image files and appends them to the collection in the
// given order. Loading stops at the first file that cannot be decoded, the
// images loaded before stay in the collection. AddFiles returns the IDs of
// the new records.
func (c *Converter) AddFiles(filenames ...string) ([]string, error) {
	var ids []string
	for _, fn := range filenames {
		rec, err := raster.Load(fn)
		if err != nil {
			bag.Logger.Errorf("Cannot load %s: %s", fn, err)
			return ids, err
		}
		c.Images.Add(rec)
		ids = append(ids, rec.ID)
		bag.Logger.Infof("Added %s", rec)
	}
	return ids, nil
}

// AddFileSpecs loads images given as file name with an optional rotation,
// see ParseFileSpec.
func (c *Converter) AddFileSpecs(specs ...string) error {
	for _, spec := range specs {
		filename, rot, err := ParseFileSpec(spec)
		if err != nil {
			return err
		}
		ids, err := c.AddFiles(filename)
		if err != nil {
			return err
		}
		if err = c.Images.SetRotation(ids[0], int(rot)); err != nil {
			return err
		}
	}
	return nil
}

// Convert writes all images of the collection to the PDF file filename (the
// default name if empty) and returns the number of pages. With no images
// nothing is written. If an image cannot be placed, no file is written.
func (c *Converter) Convert(filename string) (int, error) {
	if filename == "" {
		filename = document.DefaultFilename
	}
	if err := page.ValidateMargin(c.Margin); err != nil {
		return 0, err
	}
	recs := c.Images.Records()
	if len(recs) == 0 {
		bag.Logger.Warn("No images, nothing to convert")
		return 0, nil
	}

	d := document.New()
	d.Title = c.Title
	d.Author = c.Author
	d.Subject = c.Subject
	d.Keywords = c.Keywords
	d.Creator = "imgbinder"
	d.JPEGQuality = c.JPEGQuality
	if c.Trace {
		d.SetVTrace(document.VTraceImages)
		d.SetMarginTrace(c.Margin)
	}

	n, err := compose.Compose(recs, c.Geometry, c.Margin, d, c.Progress)
	if err != nil {
		d.Close()
		return n, err
	}
	if err = d.Save(filename); err != nil {
		return n, fmt.Errorf("save %s: %w", filename, err)
	}
	return n, nil
}
