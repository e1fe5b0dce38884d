package colors

import (
	"image"

	"github.com/disintegration/imaging"
)

// Mode names the pixel layout of a decoded image
type Mode string

const (
	ModeNone    Mode = ""
	ModeRGB     Mode = "RGB"
	ModeRGBA    Mode = "RGBA"
	ModeGray    Mode = "L"
	ModePalette Mode = "P"
	ModeCMYK    Mode = "CMYK"
)

type opaquer interface {
	Opaque() bool
}

// ModeOf classifies img. Truecolor images whose alpha is fully opaque count
// as RGB, so only images that actually carry transparency report RGBA.
func ModeOf(img image.Image) Mode {
	switch m := img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.CMYK:
		return ModeCMYK
	case *image.YCbCr:
		return ModeRGB
	case opaquer:
		if m.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	default:
		return ModeRGBA
	}
}

// NeedsFlatten reports whether img must be composited onto a solid
// background before it can be written to a format without alpha.
func NeedsFlatten(img image.Image) bool {
	switch ModeOf(img) {
	case ModeRGBA, ModePalette:
		return true
	default:
		return false
	}
}

// Flatten composites img onto an opaque background of the same size, using
// img's own alpha as the mask. Palette entries carry their alpha, so
// paletted images are expanded by the compositing itself.
func Flatten(img image.Image, bg Color) *image.NRGBA {
	b := img.Bounds()
	background := imaging.New(b.Dx(), b.Dy(), bg.ToRGBA())
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

// Convert returns img in the requested mode. Dropping to RGB discards alpha
// without compositing; use Flatten when transparency should become a color.
// Modes other than RGB and RGBA are returned unchanged.
func Convert(img image.Image, mode Mode) image.Image {
	switch mode {
	case ModeRGB:
		out := imaging.Clone(img)
		for i := 3; i < len(out.Pix); i += 4 {
			out.Pix[i] = 0xff
		}
		return out
	case ModeRGBA:
		return imaging.Clone(img)
	default:
		return img
	}
}

// Prepare applies the color policy for one output: when flattenAlpha is set
// and img has transparency or a palette, it is flattened onto bg; otherwise
// it is converted to target unless it is already there.
func Prepare(img image.Image, target Mode, flattenAlpha bool, bg Color) image.Image {
	if flattenAlpha && NeedsFlatten(img) {
		return Flatten(img, bg)
	}
	if target != ModeNone && ModeOf(img) != target {
		return Convert(img, target)
	}
	return img
}
