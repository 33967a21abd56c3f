package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	pdf "github.com/speedata/baseline-pdf"
	"github.com/speedata/imgbinder/backend/bag"
	"github.com/speedata/imgbinder/backend/compose"
	"github.com/speedata/imgbinder/backend/page"
)

// DefaultFilename is the name of the PDF file if the user does not choose one.
const DefaultFilename = "converted-images.pdf"

var (
	// ErrNotStarted is returned when pages or images are added before
	// NewDocument has been called.
	ErrNotStarted = errors.New("document not started")
	// ErrStarted is returned when NewDocument is called twice.
	ErrStarted = errors.New("document already started")
	// ErrFinished is returned when a finished document is changed.
	ErrFinished = errors.New("document already finished")
)

// Object is an image placed on a page. X and Y denote the top left corner
// of the image, measured from the top left corner of the page.
type Object struct {
	X         bag.ScaledPoint
	Y         bag.ScaledPoint
	Width     bag.ScaledPoint
	Height    bag.ScaledPoint
	ImageFile *pdf.Imagefile
}

// A Page struct represents a page in a PDF file.
type Page struct {
	document *PDFDocument
	Geometry page.Geometry
	Height   bag.ScaledPoint
	Width    bag.ScaledPoint
	Objects  []Object
	Finished bool
}

// PDFDocument collects pages with images and writes them as a PDF file. It
// implements compose.Encoder.
type PDFDocument struct {
	Author        string
	CompressLevel uint
	Creator       string
	CreationDate  time.Time
	CurrentPage   *Page
	// JPEGQuality (1-100) makes images JPEG compressed. With 0 all images
	// are stored lossless.
	JPEGQuality int
	Keywords    string
	Pages       []*Page
	PDFWriter   *pdf.PDF
	Subject     string
	Title       string
	buf         bytes.Buffer
	closed      bool
	finished    bool
	imagecount  int
	producer    string
	tmpdir      string
	traceMargin float64
	tracing     VTrace
}

var _ compose.Encoder = &PDFDocument{}

// New creates an empty document. NewDocument starts the first page.
func New() *PDFDocument {
	d := &PDFDocument{
		CreationDate:  time.Now(),
		CompressLevel: 9,
		producer:      "speedata/imgbinder",
	}
	d.PDFWriter = pdf.NewPDFWriter(&d.buf)
	return d
}

// NewDocument starts the document with a first page of size g.
func (d *PDFDocument) NewDocument(g page.Geometry) error {
	if d.closed {
		return ErrFinished
	}
	if d.tmpdir != "" {
		return ErrStarted
	}
	tmpdir, err := os.MkdirTemp("", "imgbinder")
	if err != nil {
		return err
	}
	d.tmpdir = tmpdir
	bag.Logger.Debugf("New document, temporary directory %s", tmpdir)
	d.NewPage(g)
	return nil
}

// AddPage appends a page of size g and makes it the current page.
func (d *PDFDocument) AddPage(g page.Geometry) error {
	if d.closed {
		return ErrFinished
	}
	if d.tmpdir == "" {
		return ErrNotStarted
	}
	d.NewPage(g)
	return nil
}

// NewPage creates a new Page object and adds it to the page list in the
// document. The CurrentPage field of the document is set to the page.
func (d *PDFDocument) NewPage(g page.Geometry) *Page {
	wd, ht := g.Size()
	d.CurrentPage = &Page{
		document: d,
		Geometry: g,
		Width:    wd,
		Height:   ht,
	}
	d.Pages = append(d.Pages, d.CurrentPage)
	return d.CurrentPage
}

// PlaceImage writes the bitmap to the document and places it on the current
// page at the rectangle r (in millimeters). The bitmap is not used after
// PlaceImage returns. The PDF writer keeps each image file open until the
// document is finished, so a document holds one file descriptor per image
// and very large runs can exceed the process limit for open files.
func (d *PDFDocument) PlaceImage(bitmap image.Image, r compose.Rect) error {
	if d.closed {
		return ErrFinished
	}
	if d.tmpdir == "" || d.CurrentPage == nil {
		return ErrNotStarted
	}
	d.imagecount++
	filename, err := d.writeBitmap(bitmap, filepath.Join(d.tmpdir, fmt.Sprintf("img%04d", d.imagecount)))
	if err != nil {
		return err
	}
	imgf, err := pdf.LoadImageFileWithBox(d.PDFWriter, filename, "/MediaBox", 1)
	if err != nil {
		return err
	}
	d.CurrentPage.OutputAt(bag.FromMM(r.X), bag.FromMM(r.Y), bag.FromMM(r.Width), bag.FromMM(r.Height), imgf)
	return nil
}

// OutputAt places the image file at the position. x and y are the top left
// corner of the image.
func (p *Page) OutputAt(x, y, wd, ht bag.ScaledPoint, imgf *pdf.Imagefile) {
	p.Objects = append(p.Objects, Object{X: x, Y: y, Width: wd, Height: ht, ImageFile: imgf})
}

// Shipout places all objects on a page and finishes this page.
func (p *Page) Shipout() {
	if p.Finished {
		return
	}
	p.Finished = true
	d := p.document
	bag.Logger.Debugf("Shipout %s page with %d image(s)", p.Geometry.Key, len(p.Objects))

	pageObjectNumber := d.PDFWriter.NextObject()
	st := d.PDFWriter.NewObject()
	st.SetCompression(d.CompressLevel)

	if d.IsTrace(VTraceMargins) {
		fmt.Fprint(st.Data, p.marginBox())
	}
	var images []*pdf.Imagefile
	used := make(map[*pdf.Imagefile]bool)
	for _, obj := range p.Objects {
		ifile := obj.ImageFile
		if !used[ifile] {
			used[ifile] = true
			images = append(images, ifile)
		}
		// PDF has the origin in the lower left corner
		posx := obj.X
		posy := p.Height - obj.Y - obj.Height
		scaleX := obj.Width.ToPT() / ifile.ScaleX
		scaleY := obj.Height.ToPT() / ifile.ScaleY
		if d.IsTrace(VTraceImages) {
			fmt.Fprintf(st.Data, "q 0.2 w %s %s %s %s re S Q\n", posx, posy, obj.Width, obj.Height)
		}
		fmt.Fprintf(st.Data, "q %f 0 0 %f %s %s cm %s Do Q\n", scaleX, scaleY, posx, posy, ifile.InternalName())
	}

	pg := d.PDFWriter.AddPage(st, pageObjectNumber)
	pg.Width = p.Width.ToPT()
	pg.Height = p.Height.ToPT()
	pg.Images = images
}

// Finish writes all pages, the metadata and the XRef section. A document
// without pages cannot be finished. The temporary files are removed in any
// case.
func (d *PDFDocument) Finish() error {
	if d.finished {
		return nil
	}
	if d.closed {
		return ErrFinished
	}
	defer d.Close()
	if len(d.Pages) == 0 {
		return ErrNotStarted
	}
	for _, p := range d.Pages {
		p.Shipout()
	}

	rdf := d.PDFWriter.NewObject()
	rdf.Data.WriteString(d.getMetadata())
	rdf.Dictionary = pdf.Dict{
		"Type":    "/Metadata",
		"Subtype": "/XML",
	}
	if err := rdf.Save(); err != nil {
		return err
	}
	d.PDFWriter.Catalog = pdf.Dict{
		"Metadata": rdf.ObjectNumber.Ref(),
	}
	if d.Title != "" {
		d.PDFWriter.Catalog["ViewerPreferences"] = "<< /DisplayDocTitle true >>"
	}
	d.PDFWriter.DefaultPageWidth = d.Pages[0].Width.ToPT()
	d.PDFWriter.DefaultPageHeight = d.Pages[0].Height.ToPT()

	d.PDFWriter.InfoDict = pdf.Dict{
		"Producer": pdf.StringToPDF(d.producer),
	}
	if t := d.Title; t != "" {
		d.PDFWriter.InfoDict["Title"] = pdf.StringToPDF(t)
	}
	if t := d.Author; t != "" {
		d.PDFWriter.InfoDict["Author"] = pdf.StringToPDF(t)
	}
	if t := d.Creator; t != "" {
		d.PDFWriter.InfoDict["Creator"] = pdf.StringToPDF(t)
	}
	if t := d.Subject; t != "" {
		d.PDFWriter.InfoDict["Subject"] = pdf.StringToPDF(t)
	}
	if t := d.Keywords; t != "" {
		d.PDFWriter.InfoDict["Keywords"] = pdf.StringToPDF(t)
	}
	d.PDFWriter.InfoDict["CreationDate"] = d.CreationDate.Format("(D:20060102150405)")

	if err := d.PDFWriter.Finish(); err != nil {
		return err
	}
	d.finished = true
	bag.Logger.Infof("PDF finished, %d page(s), %d bytes", len(d.Pages), d.PDFWriter.Size())
	return nil
}

// WriteTo finishes the document and writes it to w.
func (d *PDFDocument) WriteTo(w io.Writer) (int64, error) {
	if err := d.Finish(); err != nil {
		return 0, err
	}
	return io.Copy(w, bytes.NewReader(d.buf.Bytes()))
}

// Save finishes the document and writes it to the file filename. The file is
// only replaced once the document has been written completely.
func (d *PDFDocument) Save(filename string) error {
	if filename == "" {
		filename = DefaultFilename
	}
	if err := d.Finish(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+"-*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(d.buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	bag.Logger.Infow("Output written", "filename", filename, "bytes", d.buf.Len())
	return nil
}

// Close removes the temporary image files. A document that is closed before
// it is finished is discarded.
func (d *PDFDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	err := os.RemoveAll(d.tmpdir)
	d.tmpdir = ""
	return err
}
