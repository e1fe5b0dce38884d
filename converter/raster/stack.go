package raster

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"convertany/converter/colors"
)

// Stack joins pages top to bottom into one image. The result is as wide as
// the widest page and as tall as all pages together; narrower pages sit at
// x=0 over a black background.
func Stack(pages []image.Image) image.Image {
	if len(pages) == 1 {
		return pages[0]
	}

	width, height := 0, 0
	for _, p := range pages {
		b := p.Bounds()
		width = max(width, b.Dx())
		height += b.Dy()
	}

	canvas := imaging.New(width, height, colors.Black.ToRGBA())
	y := 0
	for _, p := range pages {
		b := p.Bounds()
		draw.Draw(canvas, image.Rect(0, y, b.Dx(), y+b.Dy()), p, b.Min, draw.Src)
		y += b.Dy()
	}
	return canvas
}
