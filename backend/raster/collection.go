package raster

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an ID is not part of a collection.
var ErrNotFound = errors.New("image not found")

// Collection is the ordered set of images the user has selected. The order
// of the collection is the order of the pages. A Collection is not safe for
// concurrent use.
type Collection struct {
	records []*Record
}

// NewCollection returns a collection holding recs in the given order.
func NewCollection(recs ...*Record) *Collection {
	c := &Collection{}
	c.Add(recs...)
	return c
}

// Add appends the records to the end of the collection.
func (c *Collection) Add(recs ...*Record) {
	c.records = append(c.records, recs...)
}

// Len returns the number of images.
func (c *Collection) Len() int {
	return len(c.records)
}

// Get returns the record with the ID id.
func (c *Collection) Get(id string) (*Record, error) {
	i, err := c.index(id)
	if err != nil {
		return nil, err
	}
	return c.records[i], nil
}

// Remove deletes the record with the ID id.
func (c *Collection) Remove(id string) error {
	i, err := c.index(id)
	if err != nil {
		return err
	}
	c.records = append(c.records[:i], c.records[i+1:]...)
	return nil
}

// Rotate turns the image with the given ID by deg degrees clockwise and
// returns the new rotation.
func (c *Collection) Rotate(id string, deg int) (Rotation, error) {
	rec, err := c.Get(id)
	if err != nil {
		return 0, err
	}
	r, err := rec.Rotation.Add(deg)
	if err != nil {
		return rec.Rotation, err
	}
	rec.Rotation = r
	return r, nil
}

// SetRotation sets the absolute rotation of the image with the given ID.
func (c *Collection) SetRotation(id string, deg int) error {
	rec, err := c.Get(id)
	if err != nil {
		return err
	}
	r, err := NewRotation(deg)
	if err != nil {
		return err
	}
	rec.Rotation = r
	return nil
}

// Clear removes all images.
func (c *Collection) Clear() {
	c.records = nil
}

// Records returns a snapshot of the records in page order. Changing the
// collection afterwards does not change the returned slice.
func (c *Collection) Records() []Record {
	ret := make([]Record, len(c.records))
	for i, rec := range c.records {
		ret[i] = *rec
	}
	return ret
}

func (c *Collection) index(id string) (int, error) {
	for i, rec := range c.records {
		if rec.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
}
