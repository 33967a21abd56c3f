package document

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
)

// writeBitmap encodes img into the file base plus an extension and returns
// the file name. Transparent images are put on a white background first, so
// the file never has an alpha channel. The result is JPEG compressed if the
// document has a JPEG quality, otherwise it is stored as PNG.
func (d *PDFDocument) writeBitmap(img image.Image, base string) (string, error) {
	img = flatten(img)
	format := imaging.PNG
	filename := base + ".png"
	var opts []imaging.EncodeOption
	if d.JPEGQuality > 0 {
		format = imaging.JPEG
		filename = base + ".jpg"
		opts = append(opts, imaging.JPEGQuality(d.JPEGQuality))
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err = imaging.Encode(f, img, format, opts...); err != nil {
		f.Close()
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	return filename, nil
}

// flatten returns img unchanged if it is opaque and a copy composed over
// white otherwise.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Point{}, 1)
}
