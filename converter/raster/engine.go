// Package raster renders PDF documents to page images and reduces them to
// what the output format can hold.
package raster

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"convertany/converter/format"
)

// ErrNoPages is returned for documents without any page.
var ErrNoPages = errors.New("PDF has no pages")

// Engine rasterizes PDF documents.
type Engine struct {
	renderer Renderer
	log      *slog.Logger
}

// NewEngine creates an engine that renders through r. A nil logger discards
// diagnostics.
func NewEngine(r Renderer, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{renderer: r, log: log}
}

// Rasterize renders every page of the PDF at dpi (DefaultDPI when zero) and
// returns the images to encode for d: all pages in order when d is a
// multi-page format, otherwise a single image with the pages stacked
// vertically.
func (e *Engine) Rasterize(pdfPath string, d format.Descriptor, dpi int) ([]image.Image, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	doc, err := Inspect(pdfPath)
	switch {
	case err != nil:
		// MuPDF and poppler accept documents pdfcpu rejects; let the
		// renderer decide.
		e.log.Debug("pdf inspection failed", "file", pdfPath, "error", err)
	case doc.PageCount == 0:
		return nil, ErrNoPages
	default:
		w, h := doc.PixelSize(0, dpi)
		e.log.Debug("pdf inspected", "file", pdfPath, "pages", doc.PageCount, "first_page_px", fmt.Sprintf("%dx%d", w, h))
	}

	pages, err := e.renderer.RenderToImages(pdfPath, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	if doc != nil && doc.PageCount != len(pages) {
		e.log.Warn("rendered page count differs from document", "file", pdfPath, "expected", doc.PageCount, "rendered", len(pages))
	}
	e.log.Debug("pdf rendered", "file", pdfPath, "pages", len(pages), "dpi", dpi)

	if len(pages) == 1 || d.MultiPage {
		return pages, nil
	}
	return []image.Image{Stack(pages)}, nil
}
