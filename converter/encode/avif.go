package encode

import (
	"image"
	"io"

	"github.com/gen2brain/avif"
)

const (
	avifSpeed          = 6
	avifDefaultQuality = 95
)

type avifEncoder struct{}

func (avifEncoder) Encode(w io.Writer, img image.Image, p Params) error {
	q := p.Quality
	if q <= 0 {
		q = avifDefaultQuality
	}
	return avif.Encode(w, img, avif.Options{
		Quality:           q,
		QualityAlpha:      q,
		Speed:             avifSpeed,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	})
}
