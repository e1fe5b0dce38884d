package encode

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// pdfEncoder builds a PDF with one page per image. Page size follows the
// image at p.DPI (pdfcpu's default when unset).
type pdfEncoder struct{}

func (e pdfEncoder) Encode(w io.Writer, img image.Image, p Params) error {
	return e.EncodePages(w, []image.Image{img}, p)
}

func (pdfEncoder) EncodePages(w io.Writer, pages []image.Image, p Params) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	tempDir, err := os.MkdirTemp("", "convertany-pdf-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	imagePaths := make([]string, 0, len(pages))
	for i, page := range pages {
		path := filepath.Join(tempDir, fmt.Sprintf("page-%03d.png", i+1))
		if err := savePNG(path, page); err != nil {
			return fmt.Errorf("failed to save page %d: %w", i+1, err)
		}
		imagePaths = append(imagePaths, path)
	}

	imp := pdfcpu.DefaultImportConfig()
	if p.DPI > 0 {
		imp.DPI = p.DPI
	}

	outPath := filepath.Join(tempDir, "out.pdf")
	if err := api.ImportImagesFile(imagePaths, outPath, imp, nil); err != nil {
		return fmt.Errorf("pdfcpu import failed: %w", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
