package cmd

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convertany/converter/magick"
)

func TestMain(m *testing.M) {
	stop := magick.Start()
	code := m.Run()
	stop()
	os.Exit(code)
}

// execute runs the root command with args from a clean state and returns
// everything it printed.
func execute(t *testing.T, args ...string) string {
	t.Helper()

	viper.Reset()
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func inputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(10, 10, color.White), filepath.Join(dir, "one.png")))
	require.NoError(t, imaging.Save(imaging.New(5, 5, color.Black), filepath.Join(dir, "two.bmp")))
	return dir
}

func TestLicenseAndCopyright(t *testing.T) {
	out := execute(t, "--license")
	assert.Contains(t, out, "GNU GENERAL PUBLIC LICENSE")
	assert.NotContains(t, out, "Type '--license'")

	out = execute(t, "--copyright")
	assert.Contains(t, out, appTitle)
	assert.Contains(t, out, "free software licensed under GPL v3")
}

func TestNoInputShowsGuide(t *testing.T) {
	t.Chdir(t.TempDir())
	out := execute(t)

	assert.Contains(t, out, "ConvertAnyImage v1.0 - Copyright (C) 2025 leastbit")
	assert.Contains(t, out, "=== USAGE ===")
	assert.Contains(t, out, "Supported: JPEG, PNG, TIFF, BMP, GIF, WEBP, ICO, PPM, TGA, PCX, AVIF, PDF")
	assert.Contains(t, out, "ERROR: Input folder is required.")
}

func TestConvertDirectory(t *testing.T) {
	in := inputDir(t)
	outDir := filepath.Join(t.TempDir(), "out")

	out := execute(t, in, outDir, "-f", "jpeg", "-d", "300", "-q", "85", "--no-color")
	assert.Contains(t, out, "Found 2 files, converting to JPEG...")
	assert.Contains(t, out, "Quality: 85%, DPI: 300")
	assert.Contains(t, out, "Succeeded: 2/2")

	assert.FileExists(t, filepath.Join(outDir, "one.jpg"))
	assert.FileExists(t, filepath.Join(outDir, "two.jpg"))
}

func TestQualityOutOfRange(t *testing.T) {
	in := inputDir(t)
	outDir := filepath.Join(t.TempDir(), "out")

	for _, q := range []string{"0", "101"} {
		out := execute(t, in, outDir, "-q", q)
		assert.Contains(t, out, "quality must be in range 1-100")
		assert.NoDirExists(t, outDir)
	}
}

func TestUsageErrorsPrintHelp(t *testing.T) {
	in := inputDir(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown format", args: []string{in, "-f", "HEIC"}, want: "unknown output format"},
		{name: "unknown flag", args: []string{in, "--sharpen"}, want: "unknown flag: --sharpen"},
		{name: "bad background", args: []string{in, "--background", "#12"}, want: "invalid --background"},
		{name: "unknown renderer", args: []string{in, "--renderer", "gs"}, want: "unknown renderer"},
		{name: "too many args", args: []string{in, "out", "extra"}, want: "expected at most 2 arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := execute(t, tt.args...)
			assert.Contains(t, out, "Error: ")
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "=== PARAMETERS ===")
		})
	}
}

func TestMissingInputDirectory(t *testing.T) {
	out := execute(t, filepath.Join(t.TempDir(), "missing"), "--no-color")
	assert.Contains(t, out, "input directory does not exist")
}

func TestConfigFileAndEnvironment(t *testing.T) {
	in := inputDir(t)
	dir := t.TempDir()

	cfg := filepath.Join(dir, "convertany.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: gif\nquality: 50\n"), 0o644))

	outDir := filepath.Join(dir, "from-config")
	execute(t, in, outDir, "--config", cfg, "--no-color")
	assert.FileExists(t, filepath.Join(outDir, "one.gif"))

	t.Setenv("CONVERTANY_FORMAT", "tiff")
	outDir = filepath.Join(dir, "from-env")
	execute(t, in, outDir, "--config", cfg, "--no-color")
	assert.FileExists(t, filepath.Join(outDir, "one.tiff"))

	outDir = filepath.Join(dir, "from-flag")
	execute(t, in, outDir, "--config", cfg, "-f", "bmp", "--no-color")
	assert.FileExists(t, filepath.Join(outDir, "one.bmp"))
}

func TestMissingConfigFile(t *testing.T) {
	out := execute(t, inputDir(t), "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Contains(t, out, "ERROR: failed to read config")
}

func TestReportAndVerbose(t *testing.T) {
	in := inputDir(t)
	dir := t.TempDir()
	report := filepath.Join(dir, "report.yaml")

	out := execute(t, in, filepath.Join(dir, "out"), "--report", report, "--verbose", "--no-color")
	assert.Contains(t, out, "│ File")
	assert.Contains(t, out, "Report written to: "+report)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "succeeded: 2")
}

func TestShortVersion(t *testing.T) {
	defer func(v string) { version = v }(version)

	for in, want := range map[string]string{"1.0.0": "1.0", "v2.3.1": "2.3", "dev": "1.0"} {
		version = in
		assert.Equal(t, want, shortVersion(), in)
	}
}
