// Package magick bridges Go images and ImageMagick wands. ImageMagick must be
// started once per process with Start before any other call.
package magick

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gopkg.in/gographics/imagick.v2/imagick"
)

// ErrPixelExport is returned when ImageMagick hands back pixels in an
// unexpected storage type.
var ErrPixelExport = errors.New("unexpected pixel storage from ImageMagick")

// Start initializes ImageMagick and returns the matching shutdown func.
func Start() (stop func()) {
	imagick.Initialize()
	return imagick.Terminate
}

// FromImage builds a single-frame wand holding img. Opaque images are
// imported without an alpha channel so formats like PPM and PCX do not
// receive a matte. The caller owns the returned wand.
func FromImage(img image.Image) (*imagick.MagickWand, error) {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	pmap, pix := "RGBA", nrgba.Pix
	if nrgba.Opaque() {
		pmap, pix = "RGB", dropAlpha(nrgba.Pix)
	}

	mw := imagick.NewMagickWand()
	if err := mw.ConstituteImage(uint(w), uint(h), pmap, imagick.PIXEL_CHAR, pix); err != nil {
		mw.Destroy()
		return nil, fmt.Errorf("constitute %dx%d %s image: %w", w, h, pmap, err)
	}
	return mw, nil
}

// ToImage exports the wand's current frame as 8-bit NRGBA.
func ToImage(mw *imagick.MagickWand) (*image.NRGBA, error) {
	w, h := mw.GetImageWidth(), mw.GetImageHeight()

	px, err := mw.ExportImagePixels(0, 0, w, h, "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, fmt.Errorf("export pixels: %w", err)
	}
	pix, ok := px.([]byte)
	if !ok || len(pix) != int(w)*int(h)*4 {
		return nil, ErrPixelExport
	}

	return &image.NRGBA{
		Pix:    pix,
		Stride: int(w) * 4,
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}, nil
}

// Decode reads the first frame of any file ImageMagick understands.
func Decode(path string) (image.Image, error) {
	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, fmt.Errorf("imagemagick read: %w", err)
	}
	mw.SetFirstIterator()

	return ToImage(mw)
}

// dropAlpha packs NRGBA pixels into RGB triples.
func dropAlpha(pix []byte) []byte {
	out := make([]byte, 0, len(pix)/4*3)
	for i := 0; i+3 < len(pix); i += 4 {
		out = append(out, pix[i], pix[i+1], pix[i+2])
	}
	return out
}
