package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultDPI is the render resolution used when none is requested.
const DefaultDPI = 72

// RendererKind selects the PDF page rendering backend.
type RendererKind string

const (
	RendererAuto    RendererKind = "auto"
	RendererMuPDF   RendererKind = "mupdf"
	RendererPoppler RendererKind = "poppler"
)

// ErrUnknownRenderer is returned by NewRenderer for unrecognized kinds.
var ErrUnknownRenderer = errors.New("unknown renderer")

// ErrNoRenderer is returned when no backend could render the document.
var ErrNoRenderer = errors.New("no PDF renderer available")

// Renderer turns every page of a PDF into an image, in page order.
type Renderer interface {
	RenderToImages(pdfPath string, dpi int) ([]image.Image, error)
}

// NewRenderer returns the renderer for kind. An empty kind means auto.
func NewRenderer(kind RendererKind) (Renderer, error) {
	switch RendererKind(strings.ToLower(string(kind))) {
	case RendererAuto, "":
		return AutoRenderer{Backends: []Renderer{FitzRenderer{}, PopplerRenderer{}}}, nil
	case RendererMuPDF:
		return FitzRenderer{}, nil
	case RendererPoppler:
		return PopplerRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected auto, mupdf or poppler)", ErrUnknownRenderer, kind)
	}
}

// AutoRenderer tries each backend in order and returns the first success.
type AutoRenderer struct {
	Backends []Renderer
}

func (r AutoRenderer) RenderToImages(pdfPath string, dpi int) ([]image.Image, error) {
	var errs []error
	for _, b := range r.Backends {
		images, err := b.RenderToImages(pdfPath, dpi)
		if err == nil {
			return images, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoRenderer, errors.Join(errs...))
}

// PopplerRenderer renders through poppler-utils, pdftoppm first and
// pdftocairo as fallback.
type PopplerRenderer struct{}

func (r PopplerRenderer) RenderToImages(pdfPath string, dpi int) ([]image.Image, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	tempDir, err := os.MkdirTemp("", "convertany-render-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	images, err := r.render("pdftoppm", pdfPath, tempDir, dpi)
	if err == nil {
		return images, nil
	}

	images, cairoErr := r.render("pdftocairo", pdfPath, tempDir, dpi)
	if cairoErr == nil {
		return images, nil
	}

	return nil, fmt.Errorf("poppler: %w; %w (install poppler-utils: brew install poppler, apt install poppler-utils)", err, cairoErr)
}

func (r PopplerRenderer) render(tool, pdfPath, tempDir string, dpi int) ([]image.Image, error) {
	if _, err := exec.LookPath(tool); err != nil {
		return nil, fmt.Errorf("%s not found: %w", tool, err)
	}

	// Each tool gets its own directory so pages left by a failed run are
	// never picked up by the next one.
	dir := filepath.Join(tempDir, tool)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s output directory: %w", tool, err)
	}
	outputPrefix := filepath.Join(dir, "page")

	cmd := exec.Command(tool,
		"-png",
		"-r", strconv.Itoa(dpi),
		pdfPath,
		outputPrefix,
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s failed: %w\nOutput: %s", tool, err, string(output))
	}

	return loadImagesFromDir(dir)
}

// loadImagesFromDir loads the rendered page PNGs in page order.
func loadImagesFromDir(dir string) ([]image.Image, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob images: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no rendered images found")
	}

	// pdftoppm pads page numbers to the width of the page count, so a
	// lexical sort is not enough.
	sort.Slice(matches, func(i, j int) bool {
		return extractPageNumber(matches[i]) < extractPageNumber(matches[j])
	})

	images := make([]image.Image, 0, len(matches))
	for _, path := range matches {
		img, err := loadPNG(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", path, err)
		}
		images = append(images, img)
	}

	return images, nil
}

// extractPageNumber extracts the page number from a name like "page-01.png".
func extractPageNumber(filename string) int {
	base := filepath.Base(filename)
	base = strings.TrimPrefix(base, "page-")
	base = strings.TrimPrefix(base, "page")
	base = strings.TrimSuffix(base, ".png")
	num, _ := strconv.Atoi(base)
	return num
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return png.Decode(f)
}
