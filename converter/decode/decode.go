// Package decode opens raster inputs. Formats with a Go decoder (JPEG, PNG,
// GIF, BMP, TIFF, WEBP, AVIF) are decoded natively and keep their original
// pixel type; everything else goes through ImageMagick.
package decode

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"

	"convertany/converter/magick"
)

// ErrUnsupported is returned when no decoder recognizes the input.
var ErrUnsupported = errors.New("no decoder for input")

// Open decodes the first frame of the image at path.
func Open(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	img, err := imaging.Open(path)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	img, merr := magick.Decode(path)
	if merr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupported, path, merr)
	}
	return img, nil
}
