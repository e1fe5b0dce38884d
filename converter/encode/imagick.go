package encode

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"gopkg.in/gographics/imagick.v2/imagick"

	"convertany/converter/format"
	"convertany/converter/magick"
)

// icoMaxSide is the largest icon edge the ICO container can describe.
const icoMaxSide = 256

var magickNames = map[format.Format]string{
	format.JPEG: "JPEG",
	format.WEBP: "WEBP",
	format.ICO:  "ICO",
	format.PPM:  "PPM",
	format.TGA:  "TGA",
	format.PCX:  "PCX",
	format.TIFF: "TIFF",
}

// magickEncoder writes single-image formats through ImageMagick.
type magickEncoder struct {
	format format.Format
}

func (e magickEncoder) Encode(w io.Writer, img image.Image, p Params) error {
	if e.format == format.ICO {
		b := img.Bounds()
		if b.Dx() > icoMaxSide || b.Dy() > icoMaxSide {
			img = imaging.Fit(img, icoMaxSide, icoMaxSide, imaging.Lanczos)
		}
	}

	mw, err := magick.FromImage(img)
	if err != nil {
		return err
	}
	defer mw.Destroy()

	if err := configure(mw, e.format, p); err != nil {
		return err
	}
	_, err = w.Write(mw.GetImageBlob())
	return err
}

// tiffEncoder writes one or more pages into a TIFF with the descriptor's
// compression.
type tiffEncoder struct{}

func (e tiffEncoder) Encode(w io.Writer, img image.Image, p Params) error {
	return e.EncodePages(w, []image.Image{img}, p)
}

func (tiffEncoder) EncodePages(w io.Writer, pages []image.Image, p Params) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	doc := imagick.NewMagickWand()
	defer doc.Destroy()

	for i, page := range pages {
		pw, err := magick.FromImage(page)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		err = configure(pw, format.TIFF, p)
		if err == nil {
			err = doc.AddImage(pw)
		}
		pw.Destroy()
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}

	if err := doc.SetFormat(magickNames[format.TIFF]); err != nil {
		return err
	}
	doc.ResetIterator()
	_, err := w.Write(doc.GetImagesBlob())
	return err
}

// configure applies p to the wand's current image.
func configure(mw *imagick.MagickWand, f format.Format, p Params) error {
	name, ok := magickNames[f]
	if !ok {
		return fmt.Errorf("imagemagick cannot write %s", f)
	}
	if err := mw.SetImageFormat(name); err != nil {
		return fmt.Errorf("set format %s: %w", name, err)
	}

	if p.DPI > 0 {
		if err := mw.SetImageUnits(imagick.RESOLUTION_PIXELS_PER_INCH); err != nil {
			return err
		}
		if err := mw.SetImageResolution(float64(p.DPI), float64(p.DPI)); err != nil {
			return err
		}
	}

	if p.Quality > 0 {
		if err := mw.SetImageCompressionQuality(uint(p.Quality)); err != nil {
			return err
		}
	}

	switch f {
	case format.JPEG:
		if p.Optimize {
			if err := mw.SetOption("jpeg:optimize-coding", "true"); err != nil {
				return err
			}
		}
	case format.WEBP:
		if p.Lossless {
			if err := mw.SetOption("webp:lossless", "true"); err != nil {
				return err
			}
		}
	case format.TIFF:
		if p.Compression == format.CompressionLZW {
			if err := mw.SetImageCompression(imagick.COMPRESSION_LZW); err != nil {
				return err
			}
		}
	}
	return nil
}
