// Package raster holds the images that end up on the pages of a document:
// decoding, the per image rotation and the scratch surface that bakes a
// rotation into a bitmap.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	// image/gif, image/jpeg and image/png are registered by imaging. The
	// x/image decoders add the formats a camera or scanner might produce.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/speedata/imgbinder/backend/bag"
)

var (
	// ErrDecode is returned when an image cannot be decoded.
	ErrDecode = errors.New("cannot decode image")
	// ErrRotation is returned for angles that are not a multiple of 90 degrees.
	ErrRotation = errors.New("rotation must be a multiple of 90 degrees")
)

// Rotation is a clockwise rotation in degrees. Valid values are 0, 90, 180
// and 270.
type Rotation int

// The valid rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// NewRotation normalizes deg into the range 0..270. Negative angles turn
// counter clockwise, so -90 is the same as 270.
func NewRotation(deg int) (Rotation, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrRotation, deg)
	}
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return Rotation(deg), nil
}

// Valid reports whether r is one of the four valid rotations.
func (r Rotation) Valid() bool {
	return r == Rotate0 || r == Rotate90 || r == Rotate180 || r == Rotate270
}

// Swaps reports whether the rotation exchanges width and height.
func (r Rotation) Swaps() bool {
	return r == Rotate90 || r == Rotate270
}

// Add returns the rotation turned by deg degrees.
func (r Rotation) Add(deg int) (Rotation, error) {
	return NewRotation(int(r) + deg)
}

// Effective returns the width and height of a w × h bitmap after it has been
// rotated by r.
func (r Rotation) Effective(w, h int) (int, int) {
	if r.Swaps() {
		return h, w
	}
	return w, h
}

// Record is an image selected by the user together with its rotation. The
// composer only reads records.
type Record struct {
	ID       string
	Name     string
	Format   string
	Bitmap   image.Image
	Rotation Rotation
}

// Size returns the intrinsic pixel dimensions of the bitmap.
func (rec *Record) Size() (int, int) {
	b := rec.Bitmap.Bounds()
	return b.Dx(), b.Dy()
}

func (rec *Record) String() string {
	w, h := rec.Size()
	return fmt.Sprintf("%s (%s %dx%d, %d°)", rec.Name, rec.Format, w, h, rec.Rotation)
}

// NewRecord wraps an already decoded bitmap. The record gets a fresh ID.
func NewRecord(name string, bitmap image.Image) *Record {
	return &Record{
		ID:     uuid.NewString(),
		Name:   name,
		Bitmap: bitmap,
	}
}

// Decode reads an image from r. The name is only used for messages. EXIF
// orientation of JPEG files is applied, so the bitmap is upright as a viewer
// would display it.
func Decode(name string, r io.Reader) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %s", ErrDecode, name, err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %s", ErrDecode, name, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %s", ErrDecode, name, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w %s: empty bitmap", ErrDecode, name)
	}
	rec := NewRecord(name, img)
	rec.Format = format
	bag.Logger.Debugf("Decoded %s", rec)
	return rec, nil
}

// Load reads and decodes the image file filename.
func Load(filename string) (*Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(filepath.Base(filename), f)
}
