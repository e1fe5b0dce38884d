// Package encode maps a format descriptor to encode parameters and writes
// images in every supported output format.
package encode

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"convertany/converter/format"
)

// ErrNoPages is returned when an encoder is handed nothing to write.
var ErrNoPages = errors.New("no pages to encode")

// ErrSinglePage is returned when several pages are written to a format that
// holds one image per file.
var ErrSinglePage = errors.New("format holds a single image")

// Params are the per-file encode settings derived from a descriptor and the
// run's dpi and quality.
type Params struct {
	DPI         int // 0 leaves the resolution unset
	Quality     int // 0 for formats without a quality knob
	Optimize    bool
	Lossless    bool
	Compression format.Compression
}

// ParamsFor derives encode parameters. dpi is embedded only for formats that
// can carry it. A zero quality selects the descriptor default. WEBP is
// encoded losslessly only when quality is 100 or unset; any lower quality
// gives a lossy file at that quality, for raster and PDF inputs alike.
func ParamsFor(d format.Descriptor, dpi, quality int) Params {
	p := Params{Compression: d.Compression}
	if d.SupportsDPI && dpi > 0 {
		p.DPI = dpi
	}

	if !d.HasQuality() {
		return p
	}
	q := quality
	if q <= 0 {
		q = d.Quality
	}

	switch d.Format {
	case format.JPEG:
		p.Quality = q
		p.Optimize = true
	case format.WEBP:
		if d.Lossless && (quality <= 0 || quality == 100) {
			p.Lossless = true
		} else {
			p.Quality = q
		}
	default:
		p.Quality = q
	}
	return p
}

// Encoder writes one image.
type Encoder interface {
	Encode(w io.Writer, img image.Image, p Params) error
}

// PageEncoder writes several images into a single file, in order.
type PageEncoder interface {
	Encoder
	EncodePages(w io.Writer, pages []image.Image, p Params) error
}

// For returns the encoder of f.
func For(f format.Format) Encoder {
	switch f {
	case format.PNG:
		return pngEncoder{}
	case format.GIF, format.BMP:
		return nativeEncoder{format: f}
	case format.JPEG, format.WEBP, format.ICO, format.PPM, format.TGA, format.PCX:
		return magickEncoder{format: f}
	case format.TIFF:
		return tiffEncoder{}
	case format.AVIF:
		return avifEncoder{}
	case format.PDF:
		return pdfEncoder{}
	default:
		panic(fmt.Sprintf("encode: no encoder for %s", f))
	}
}

// FileMode is the permission set on every written output file.
const FileMode os.FileMode = 0o644

// WriteFile encodes pages into path. Several pages require a format whose
// encoder implements PageEncoder. The file is written to a temporary name in
// the same directory and renamed into place, so a failed encode never leaves
// a truncated output behind.
func WriteFile(path string, f format.Format, pages []image.Image, p Params) (err error) {
	if len(pages) == 0 {
		return ErrNoPages
	}
	enc := For(f)
	var pe PageEncoder
	if len(pages) > 1 {
		var ok bool
		if pe, ok = enc.(PageEncoder); !ok {
			return fmt.Errorf("%w: %s got %d pages", ErrSinglePage, f, len(pages))
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".convertany-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if err = tmp.Chmod(FileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}

	if pe != nil {
		err = pe.EncodePages(tmp, pages, p)
	} else {
		err = enc.Encode(tmp, pages[0], p)
	}
	closeErr := tmp.Close()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f, err)
	}
	if closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
