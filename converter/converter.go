// Package converter converts single files and whole directories into one
// output format.
package converter

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"convertany/converter/colors"
	"convertany/converter/decode"
	"convertany/converter/encode"
	"convertany/converter/format"
	"convertany/converter/metadata"
	"convertany/converter/raster"
)

// Request describes the conversion of one file.
type Request struct {
	Input   string
	Output  string
	Format  format.Format
	DPI     int // 0 leaves the resolution unset
	Quality int // 1..100, 0 selects the format default
}

// Options holds the converter-wide settings.
type Options struct {
	Background    colors.Color    // fill for transparent pixels in JPEG output
	KeepSourceDPI bool            // embed the input's own resolution when it has one
	Renderer      raster.Renderer // PDF page renderer, auto when nil
	Logger        *slog.Logger
}

// Converter turns one input file into one output file.
type Converter struct {
	registry      *format.Registry
	pdf           *raster.Engine
	background    colors.Color
	keepSourceDPI bool
	log           *slog.Logger
}

// New creates a Converter.
func New(registry *format.Registry, opts Options) *Converter {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Renderer == nil {
		opts.Renderer, _ = raster.NewRenderer(raster.RendererAuto)
	}
	if opts.Background == (colors.Color{}) {
		opts.Background = colors.DefaultBackground()
	}

	return &Converter{
		registry:      registry,
		pdf:           raster.NewEngine(opts.Renderer, opts.Logger),
		background:    opts.Background,
		keepSourceDPI: opts.KeepSourceDPI,
		log:           opts.Logger,
	}
}

// Convert performs req. PDFs are rasterized, every other input is decoded
// as an image. A failure is returned as a *ConversionError and no output
// file is left behind.
func (c *Converter) Convert(req Request) error {
	if _, err := os.Stat(req.Input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(NotFound, req.Input, err)
		}
		return newError(IOError, req.Input, err)
	}

	d := c.registry.Describe(req.Format)

	if format.IsPDF(req.Input) {
		pages, err := c.pdf.Rasterize(req.Input, d, req.DPI)
		if err != nil {
			return newError(DecodeFailed, req.Input, err)
		}
		return c.write(req, d, pages, req.DPI)
	}

	if !c.registry.IsInput(req.Input) {
		return newError(UnsupportedFormat, req.Input, fmt.Errorf("extension not supported"))
	}

	img, err := decode.Open(req.Input)
	if err != nil {
		if errors.Is(err, decode.ErrUnsupported) {
			return newError(UnsupportedFormat, req.Input, err)
		}
		return newError(DecodeFailed, req.Input, err)
	}

	dpi := req.DPI
	if c.keepSourceDPI {
		if src, ok := metadata.SourceDPI(req.Input); ok {
			c.log.Debug("using source resolution", "file", req.Input, "dpi", src)
			dpi = int(math.Round(src))
		}
	}

	return c.write(req, d, []image.Image{img}, dpi)
}

func (c *Converter) write(req Request, d format.Descriptor, pages []image.Image, dpi int) error {
	flatten := d.Format == format.JPEG
	prepared := make([]image.Image, len(pages))
	for i, p := range pages {
		prepared[i] = colors.Prepare(p, d.Mode, flatten, c.background)
	}

	params := encode.ParamsFor(d, dpi, req.Quality)
	if err := encode.WriteFile(req.Output, d.Format, prepared, params); err != nil {
		var pathErr *fs.PathError
		var linkErr *os.LinkError
		if errors.As(err, &pathErr) || errors.As(err, &linkErr) {
			return newError(IOError, req.Output, err)
		}
		return newError(EncodeFailed, req.Output, err)
	}
	return nil
}
