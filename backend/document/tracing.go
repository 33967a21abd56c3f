package document

import (
	"fmt"

	"github.com/speedata/imgbinder/backend/bag"
)

// VTrace determines the type of visual tracing
type VTrace int

const (
	// VTraceImages shows bounding box of images
	VTraceImages VTrace = iota
	// VTraceMargins shows the area within the page margins
	VTraceMargins
)

// SetMarginTrace outlines the area inside a margin of m on every page.
func (d *PDFDocument) SetMarginTrace(m float64) {
	d.traceMargin = m
	d.SetVTrace(VTraceMargins)
}

// SetVTrace sets the visual tracing
func (d *PDFDocument) SetVTrace(t VTrace) {
	d.tracing |= 1 << t
}

// ClearVTrace removes the visual tracing.
func (d *PDFDocument) ClearVTrace(t VTrace) {
	d.tracing &^= (1 << t)
}

// IsTrace returns true if tracing t is set
func (d *PDFDocument) IsTrace(t VTrace) bool {
	return (d.tracing>>t)&1 == 1
}

// marginBox returns the PDF instructions for a dashed rectangle around the
// area inside the margins.
func (p *Page) marginBox() string {
	m := p.document.traceMargin
	x := bag.ScaledPoint(float64(p.Width) * m)
	y := bag.ScaledPoint(float64(p.Height) * m)
	return fmt.Sprintf("q 0.2 w [2 2] 0 d 1 0 0 RG %s %s %s %s re S Q\n", x, y, p.Width-2*x, p.Height-2*y)
}
