package metadata

import (
	"os"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

const resolutionUnitCentimeter = 3

// SourceDPI returns the horizontal resolution recorded in the file at path,
// looking at the PNG pHYs chunk first and EXIF tags otherwise. ok is false
// when the file records no usable resolution.
func SourceDPI(path string) (dpi float64, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	if dpi, ok := PNGResolution(data); ok {
		return dpi, true
	}
	return EXIFResolution(data)
}

// EXIFResolution reads XResolution and ResolutionUnit from the EXIF block
// embedded in data (JPEG APP1 or a TIFF header).
func EXIFResolution(data []byte) (dpi float64, ok bool) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return 0, false
	}

	im := exifcommon.NewIfdMapping()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return 0, false
	}
	ti := exif.NewTagIndex()

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return 0, false
	}

	tags, err := index.RootIfd.FindTagWithName("XResolution")
	if err != nil || len(tags) == 0 {
		return 0, false
	}
	val, err := tags[0].Value()
	if err != nil {
		return 0, false
	}
	rats, isRat := val.([]exifcommon.Rational)
	if !isRat || len(rats) == 0 || rats[0].Denominator == 0 {
		return 0, false
	}
	dpi = float64(rats[0].Numerator) / float64(rats[0].Denominator)

	if tags, err := index.RootIfd.FindTagWithName("ResolutionUnit"); err == nil && len(tags) > 0 {
		if val, err := tags[0].Value(); err == nil {
			if units, isShort := val.([]uint16); isShort && len(units) > 0 && units[0] == resolutionUnitCentimeter {
				dpi *= 2.54
			}
		}
	}

	if dpi <= 0 {
		return 0, false
	}
	return dpi, true
}
