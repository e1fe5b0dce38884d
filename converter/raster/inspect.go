package raster

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document summarizes a PDF before rendering.
type Document struct {
	PageCount int
	PageDims  []types.Dim // media box of each page, in points
}

// Inspect parses the PDF at path with relaxed validation and reports its
// page count and page sizes.
func Inspect(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to determine page count: %w", err)
	}

	doc := &Document{PageCount: ctx.PageCount}
	if doc.PageCount == 0 {
		return doc, nil
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page boxes: %w", err)
	}
	doc.PageDims = dims
	return doc, nil
}

// PixelSize returns the expected raster size of page i (zero-based) at dpi.
func (d *Document) PixelSize(i, dpi int) (w, h int) {
	if i < 0 || i >= len(d.PageDims) {
		return 0, 0
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	scale := float64(dpi) / 72
	return int(d.PageDims[i].Width*scale + 0.5), int(d.PageDims[i].Height*scale + 0.5)
}
