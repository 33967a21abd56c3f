package document

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/speedata/imgbinder/backend/bag"
	"github.com/speedata/imgbinder/backend/compose"
	"github.com/speedata/imgbinder/backend/page"
)

func solid(w, h int, a uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{200, 100, 50, a})
		}
	}
	return img
}

func TestNotStarted(t *testing.T) {
	d := New()
	if err := d.AddPage(page.A4); !errors.Is(err, ErrNotStarted) {
		t.Errorf("AddPage() err = %v, want ErrNotStarted", err)
	}
	if err := d.PlaceImage(solid(1, 1, 255), compose.Rect{}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("PlaceImage() err = %v, want ErrNotStarted", err)
	}
	if err := d.Finish(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Finish() err = %v, want ErrNotStarted", err)
	}
}

func TestDocument(t *testing.T) {
	d := New()
	d.Title = "Holiday <2023>"
	if err := d.NewDocument(page.Letter); err != nil {
		t.Fatal(err)
	}
	tmpdir := d.tmpdir
	if err := d.NewDocument(page.Letter); !errors.Is(err, ErrStarted) {
		t.Errorf("second NewDocument() err = %v, want ErrStarted", err)
	}
	if err := d.PlaceImage(solid(8, 6, 255), compose.Rect{X: 21.59, Y: 74.93, Width: 172.72, Height: 129.54}); err != nil {
		t.Fatal(err)
	}
	if err := d.AddPage(page.A4); err != nil {
		t.Fatal(err)
	}
	if err := d.PlaceImage(solid(6, 8, 128), compose.Rect{X: 10, Y: 20, Width: 60, Height: 80}); err != nil {
		t.Fatal(err)
	}
	if got := len(d.Pages); got != 2 {
		t.Fatalf("len(Pages) = %d, want 2", got)
	}
	if got, want := d.Pages[1].Width, bag.FromMM(210); got != want {
		t.Errorf("second page width = %s, want %s", got, want)
	}

	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with %%PDF-")
	}
	if !bytes.Contains(buf.Bytes(), []byte("%%EOF")) {
		t.Errorf("output has no %%%%EOF marker")
	}
	if _, err := os.Stat(tmpdir); !os.IsNotExist(err) {
		t.Errorf("temporary directory %s still exists", tmpdir)
	}
	if err := d.AddPage(page.A4); !errors.Is(err, ErrFinished) {
		t.Errorf("AddPage() after Finish() err = %v, want ErrFinished", err)
	}
	if err := d.Finish(); err != nil {
		t.Errorf("second Finish() = %v, want nil", err)
	}
}

func TestPageOrigin(t *testing.T) {
	d := New()
	if err := d.NewDocument(page.A4); err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if err := d.PlaceImage(solid(2, 2, 255), compose.Rect{X: 10, Y: 20, Width: 30, Height: 40}); err != nil {
		t.Fatal(err)
	}
	obj := d.CurrentPage.Objects[0]
	if obj.X != bag.FromMM(10) || obj.Y != bag.FromMM(20) {
		t.Errorf("object at %s,%s, want 10mm,20mm", obj.X, obj.Y)
	}
	if obj.Width != bag.FromMM(30) || obj.Height != bag.FromMM(40) {
		t.Errorf("object size %sx%s, want 30mm x 40mm", obj.Width, obj.Height)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, DefaultFilename)

	empty := New()
	if err := empty.Save(filename); err == nil {
		t.Error("Save() of an empty document succeeded")
	}
	if _, err := os.Stat(filename); !os.IsNotExist(err) {
		t.Errorf("Save() of an empty document created %s", filename)
	}

	d := New()
	d.JPEGQuality = 80
	if err := d.NewDocument(page.A3); err != nil {
		t.Fatal(err)
	}
	if err := d.PlaceImage(solid(4, 4, 255), compose.Rect{Width: 297, Height: 297}); err != nil {
		t.Fatal(err)
	}
	if err := d.Save(filename); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("%s is not a PDF file", filename)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestDiscard(t *testing.T) {
	d := New()
	if err := d.NewDocument(page.A4); err != nil {
		t.Fatal(err)
	}
	tmpdir := d.tmpdir
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(tmpdir); !os.IsNotExist(err) {
		t.Errorf("temporary directory %s still exists", tmpdir)
	}
	if err := d.Finish(); !errors.Is(err, ErrFinished) {
		t.Errorf("Finish() after Close() err = %v, want ErrFinished", err)
	}
}

func TestWriteBitmap(t *testing.T) {
	dir := t.TempDir()
	testdata := []struct {
		quality int
		alpha   uint8
		ext     string
	}{
		{0, 255, ".png"},
		{0, 128, ".png"},
		{90, 255, ".jpg"},
		{90, 100, ".jpg"},
	}
	for _, tc := range testdata {
		d := &PDFDocument{JPEGQuality: tc.quality}
		fn, err := d.writeBitmap(solid(3, 3, tc.alpha), filepath.Join(dir, "x"))
		if err != nil {
			t.Fatal(err)
		}
		if got := filepath.Ext(fn); got != tc.ext {
			t.Errorf("quality %d alpha %d: extension %s, want %s", tc.quality, tc.alpha, got, tc.ext)
		}
	}
}

func TestWriteBitmapFlattens(t *testing.T) {
	d := &PDFDocument{}
	fn, err := d.writeBitmap(solid(4, 2, 128), filepath.Join(t.TempDir(), "x"))
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(fn)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if o, ok := img.(interface{ Opaque() bool }); !ok || !o.Opaque() {
		t.Fatalf("%T has an alpha channel", img)
	}
	// 200 at half opacity over white
	got := color.NRGBAModel.Convert(img.At(1, 1)).(color.NRGBA)
	if got.A != 255 || got.R < 225 || got.R > 229 {
		t.Errorf("pixel = %v, want about {227 177 152 255}", got)
	}
}

var cmOperator = regexp.MustCompile(`q ([\d.]+) 0 0 ([\d.]+) ([\d.-]+) ([\d.-]+) cm /`)

func TestPageStructure(t *testing.T) {
	d := New()
	d.CompressLevel = 0
	if err := d.NewDocument(page.Letter); err != nil {
		t.Fatal(err)
	}
	// 800x600 pixels on Letter with a 10% margin
	if err := d.PlaceImage(solid(8, 6, 255), compose.Rect{X: 21.59, Y: 74.93, Width: 172.72, Height: 129.54}); err != nil {
		t.Fatal(err)
	}
	if err := d.AddPage(page.A3); err != nil {
		t.Fatal(err)
	}
	if err := d.PlaceImage(solid(16, 4, 128), compose.Rect{X: 10, Y: 20, Width: 277, Height: 69.25}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if got := strings.Count(out, "/Type /Page\n"); got != 2 {
		t.Errorf("PDF has %d page objects, want 2", got)
	}
	for _, box := range []string{"/MediaBox [0 0 612 792]", "/MediaBox [0 0 841.89 1190.55]"} {
		if !strings.Contains(out, box) {
			t.Errorf("PDF has no %s", box)
		}
	}
	if strings.Contains(out, "/SMask") {
		t.Error("PDF contains a soft mask")
	}

	// a, d, e, f of the cm operator in points
	want := []float64{489.6, 367.2, 61.2, 212.4}
	found := false
	for _, m := range cmOperator.FindAllStringSubmatch(out, -1) {
		match := true
		for i, w := range want {
			v, err := strconv.ParseFloat(m[i+1], 64)
			if err != nil || math.Abs(v-w) > 0.01 {
				match = false
				break
			}
		}
		if match {
			found = true
		}
	}
	if !found {
		t.Errorf("no image placed with cm operands %v, found %q", want, cmOperator.FindAllString(out, -1))
	}
}

func TestVTrace(t *testing.T) {
	d := New()
	if d.IsTrace(VTraceImages) {
		t.Error("tracing on by default")
	}
	d.SetVTrace(VTraceImages)
	d.SetMarginTrace(0.1)
	if !d.IsTrace(VTraceImages) || !d.IsTrace(VTraceMargins) {
		t.Error("SetVTrace() did not enable tracing")
	}
	d.ClearVTrace(VTraceImages)
	if d.IsTrace(VTraceImages) {
		t.Error("ClearVTrace() did not disable tracing")
	}
	p := d.NewPage(page.A4)
	if box := p.marginBox(); !strings.Contains(box, " re S Q") {
		t.Errorf("marginBox() = %q", box)
	}
}

func TestMetadataOptionalFields(t *testing.T) {
	md := New().getMetadata()
	for _, tag := range []string{"pdf:Keywords", "dc:description"} {
		if strings.Contains(md, tag) {
			t.Errorf("metadata without keywords and subject contains %s", tag)
		}
	}
}

func TestMetadata(t *testing.T) {
	d := New()
	d.Title = "Cats & Dogs"
	d.Author = "<someone>"
	d.Keywords = "pets"
	d.Subject = "Vet visit"
	md := d.getMetadata()
	for _, want := range []string{
		"<dc:title>Cats &amp; Dogs</dc:title>",
		"<dc:creator>&lt;someone></dc:creator>",
		"<pdf:Keywords>pets</pdf:Keywords>",
		"<dc:description>Vet visit</dc:description>",
		"<pdf:Producer>speedata/imgbinder</pdf:Producer>",
		"uuid:",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("metadata does not contain %q", want)
		}
	}
}
