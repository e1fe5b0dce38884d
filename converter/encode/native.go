package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"

	"convertany/converter/format"
	"convertany/converter/metadata"
)

// pngEncoder writes PNG through imaging and patches in a pHYs chunk when a
// resolution is requested.
type pngEncoder struct{}

func (pngEncoder) Encode(w io.Writer, img image.Image, p Params) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return err
	}

	data := buf.Bytes()
	if p.DPI > 0 {
		var err error
		if data, err = metadata.SetPNGResolution(data, p.DPI); err != nil {
			return fmt.Errorf("set resolution: %w", err)
		}
	}
	_, err := w.Write(data)
	return err
}

// nativeEncoder covers the formats imaging writes without extra settings.
type nativeEncoder struct {
	format format.Format
}

func (e nativeEncoder) Encode(w io.Writer, img image.Image, _ Params) error {
	var f imaging.Format
	switch e.format {
	case format.GIF:
		f = imaging.GIF
	case format.BMP:
		f = imaging.BMP
	default:
		return fmt.Errorf("imaging cannot write %s", e.format)
	}
	return imaging.Encode(w, img, f)
}
