// Package metadata reads and writes the resolution stored alongside pixels:
// the PNG pHYs chunk and EXIF X/YResolution tags.
package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"math"
)

const (
	physChunk     = "pHYs"
	ihdrChunk     = "IHDR"
	unitMeter     = 1
	metersPerInch = 0.0254
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ErrNotPNG is returned when the data does not start with a PNG signature.
var ErrNotPNG = errors.New("not a PNG stream")

// SetPNGResolution returns a copy of the PNG stream with a pHYs chunk
// declaring dpi in both directions. Any existing pHYs chunk is replaced.
func SetPNGResolution(data []byte, dpi int) ([]byte, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}

	var out bytes.Buffer
	out.Grow(len(data) + 21)
	out.Write(pngSignature)

	rest := data[len(pngSignature):]
	for len(rest) >= 12 {
		length := binary.BigEndian.Uint32(rest[:4])
		chunkType := string(rest[4:8])
		end := 12 + int(length)
		if end > len(rest) {
			return nil, io.ErrUnexpectedEOF
		}
		chunk := rest[:end]
		rest = rest[end:]

		if chunkType == physChunk {
			continue
		}
		out.Write(chunk)
		if chunkType == ihdrChunk {
			writePhys(&out, dpi)
		}
	}
	return out.Bytes(), nil
}

func writePhys(w *bytes.Buffer, dpi int) {
	ppm := uint32(math.Round(float64(dpi) / metersPerInch))

	body := make([]byte, 4+9)
	copy(body, physChunk)
	binary.BigEndian.PutUint32(body[4:], ppm)
	binary.BigEndian.PutUint32(body[8:], ppm)
	body[12] = unitMeter

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], 9)
	w.Write(length[:])
	w.Write(body)

	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], crc32.ChecksumIEEE(body))
	w.Write(crc[:])
}

// PNGResolution returns the horizontal resolution declared by the pHYs
// chunk, in dots per inch. ok is false when the chunk is missing or its
// unit is unknown.
func PNGResolution(data []byte) (dpi float64, ok bool) {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, false
	}
	buf := bytes.NewReader(data[len(pngSignature):])

	for {
		var length uint32
		if err := binary.Read(buf, binary.BigEndian, &length); err != nil {
			return 0, false
		}

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(buf, chunkType); err != nil {
			return 0, false
		}

		if string(chunkType) == physChunk {
			var pxPerUnitX, pxPerUnitY uint32
			var unit byte
			if err := binary.Read(buf, binary.BigEndian, &pxPerUnitX); err != nil {
				return 0, false
			}
			if err := binary.Read(buf, binary.BigEndian, &pxPerUnitY); err != nil {
				return 0, false
			}
			if err := binary.Read(buf, binary.BigEndian, &unit); err != nil {
				return 0, false
			}
			if unit != unitMeter {
				return 0, false
			}
			return float64(pxPerUnitX) * metersPerInch, true
		}

		// skip chunk data + CRC
		if _, err := buf.Seek(int64(length)+4, io.SeekCurrent); err != nil {
			return 0, false
		}
	}
}
