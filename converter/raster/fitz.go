package raster

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzRenderer renders pages with MuPDF through go-fitz.
type FitzRenderer struct{}

func (FitzRenderer) RenderToImages(pdfPath string, dpi int) ([]image.Image, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("mupdf: unable to open document: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	images := make([]image.Image, 0, numPages)
	for n := 0; n < numPages; n++ {
		img, err := doc.ImageDPI(n, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("mupdf: unable to render page %d: %w", n+1, err)
		}
		images = append(images, img)
	}

	return images, nil
}
