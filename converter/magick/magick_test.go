package magick

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	stop := Start()
	code := m.Run()
	stop()
	os.Exit(code)
}

func TestFromImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(2, 1, color.NRGBA{B: 255, A: 128})

	mw, err := FromImage(src)
	require.NoError(t, err)
	defer mw.Destroy()

	assert.EqualValues(t, 3, mw.GetImageWidth())
	assert.EqualValues(t, 2, mw.GetImageHeight())

	out, err := ToImage(mw)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), out.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, uint8(128), out.NRGBAAt(2, 1).A)
}

func TestFromImageOpaqueHasNoAlpha(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.Pix[0] = 0x40

	mw, err := FromImage(src)
	require.NoError(t, err)
	defer mw.Destroy()

	out, err := ToImage(mw)
	require.NoError(t, err)
	assert.True(t, out.Opaque())
	assert.Equal(t, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 255}, out.NRGBAAt(0, 0))
}

func TestDecodeFirstFrame(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xff
	}
	mw, err := FromImage(src)
	require.NoError(t, err)
	require.NoError(t, mw.SetImageFormat("PPM"))
	path := filepath.Join(t.TempDir(), "frame.ppm")
	require.NoError(t, os.WriteFile(path, mw.GetImageBlob(), 0o644))
	mw.Destroy()

	img, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.tga"))
	assert.Error(t, err)
}

func TestDropAlpha(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 3, 5, 6, 7}, dropAlpha([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
}
