package converter

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"convertany/converter/format"
	"convertany/logger"
)

func newTestBatch(t *testing.T) (*Batch, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	console := logger.NewConsole(&logger.RichLoggerOptions{Output: &buf})
	reg := format.NewRegistry()
	return NewBatch(New(reg, Options{}), reg, console), &buf
}

func fillInputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(8, 8, color.White), filepath.Join(dir, "a.png")))
	require.NoError(t, imaging.Save(imaging.New(4, 6, color.Black), filepath.Join(dir, "b.GIF")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "._a.png"), []byte("resource fork"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))
	return dir
}

func TestBatchRun(t *testing.T) {
	in := fillInputDir(t)
	out := filepath.Join(t.TempDir(), "converted", "jpeg")
	b, buf := newTestBatch(t)

	res, err := b.Run(in, out, format.JPEG, 300, 90)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assert.Empty(t, res.Failed)
	assert.Equal(t, "JPEG", res.Format)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "a.png", res.Files[0].Input)
	assert.Equal(t, "a.jpg", res.Files[0].Output)
	assert.Equal(t, "b.jpg", res.Files[1].Output)
	assert.Positive(t, res.Files[0].OutputBytes)

	assert.FileExists(t, filepath.Join(out, "a.jpg"))
	assert.FileExists(t, filepath.Join(out, "b.jpg"))

	log := buf.String()
	assert.Contains(t, log, "[1/2] Converting: a.png -> a.jpg")
	assert.Contains(t, log, "[2/2] Converting: b.GIF -> b.jpg")
	assert.Contains(t, log, "Succeeded: 2/2")
}

func TestBatchRunRecordsFailures(t *testing.T) {
	in := fillInputDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(in, "0-broken.png"), []byte("\x89PNG\r\n\x1a\nbad"), 0o644))
	out := t.TempDir()
	b, buf := newTestBatch(t)
	b.ShowTable = true

	res, err := b.Run(in, out, format.PNG, 400, 100)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []string{"0-broken.png"}, res.Failed)
	assert.False(t, res.Files[0].OK)
	assert.Equal(t, DecodeFailed.String(), res.Files[0].Kind)
	assert.NoFileExists(t, filepath.Join(out, "0-broken.png"))
	assert.FileExists(t, filepath.Join(out, "a.png"))

	log := buf.String()
	assert.Contains(t, log, "Failed to convert 0-broken.png")
	assert.Contains(t, log, "  - 0-broken.png")
	assert.Contains(t, log, "failed (decode failed)")
}

func TestBatchRunDefaultOutputDir(t *testing.T) {
	in := fillInputDir(t)
	t.Chdir(t.TempDir())
	b, _ := newTestBatch(t)

	res, err := b.Run(in, "", format.BMP, 400, 100)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, res.OutputDir)
	assert.FileExists(t, filepath.Join(DefaultOutputDir, "a.bmp"))
}

func TestBatchRunConfigurationErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.png")
	require.NoError(t, imaging.Save(imaging.New(1, 1, color.White), file))
	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "readme.md"), nil, 0o644))
	good := fillInputDir(t)

	tests := []struct {
		name    string
		in      string
		dpi     int
		quality int
		want    error
		outDir  bool
	}{
		{name: "missing dir", in: filepath.Join(empty, "nope"), dpi: 400, quality: 100, want: ErrInputDirNotFound},
		{name: "file not dir", in: file, dpi: 400, quality: 100, want: ErrNotADirectory},
		{name: "nothing to convert", in: empty, dpi: 400, quality: 100, want: ErrNoSupportedFiles, outDir: true},
		{name: "quality too low", in: good, dpi: 400, quality: 0, want: ErrInvalidQuality},
		{name: "quality too high", in: good, dpi: 400, quality: 101, want: ErrInvalidQuality},
		{name: "negative dpi", in: good, dpi: -1, quality: 100, want: ErrInvalidDPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out")
			b, _ := newTestBatch(t)

			res, err := b.Run(tt.in, out, format.PNG, tt.dpi, tt.quality)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, res)
			if tt.outDir {
				assert.DirExists(t, out)
			} else {
				assert.NoDirExists(t, out)
			}
		})
	}
}

func TestNoSupportedFilesListsExtensions(t *testing.T) {
	b, _ := newTestBatch(t)
	_, err := b.Run(t.TempDir(), filepath.Join(t.TempDir(), "out"), format.PNG, 400, 100)
	require.ErrorIs(t, err, ErrNoSupportedFiles)
	assert.Contains(t, err.Error(), ".avif, .bmp, .dib")
	assert.Contains(t, err.Error(), ".pdf")
}

func TestWriteReport(t *testing.T) {
	in := fillInputDir(t)
	b, _ := newTestBatch(t)
	res, err := b.Run(in, t.TempDir(), format.GIF, 400, 100)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, WriteReport(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got BatchResult
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, res.Total, got.Total)
	assert.Equal(t, res.Succeeded, got.Succeeded)
	assert.Equal(t, "GIF", got.Format)
	require.Len(t, got.Files, 2)
	assert.Equal(t, "a.gif", got.Files[0].Output)
	assert.Contains(t, string(data), "failed: []")
}
