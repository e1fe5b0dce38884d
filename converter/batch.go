package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"convertany/converter/format"
	"convertany/logger"
)

// DefaultOutputDir is used when no output directory is given.
const DefaultOutputDir = "output"

const bytesPerMB = 1024 * 1024

// FileRecord is the outcome of one file in a batch.
type FileRecord struct {
	Input       string        `yaml:"input"`
	Output      string        `yaml:"output"`
	OK          bool          `yaml:"ok"`
	Error       string        `yaml:"error,omitempty"`
	Kind        string        `yaml:"kind,omitempty"`
	InputBytes  int64         `yaml:"input_bytes,omitempty"`
	OutputBytes int64         `yaml:"output_bytes,omitempty"`
	Duration    time.Duration `yaml:"duration"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	InputDir  string        `yaml:"input_dir"`
	OutputDir string        `yaml:"output_dir"`
	Format    string        `yaml:"format"`
	DPI       int           `yaml:"dpi"`
	Quality   int           `yaml:"quality"`
	Total     int           `yaml:"total"`
	Succeeded int           `yaml:"succeeded"`
	Failed    []string      `yaml:"failed"`
	Elapsed   time.Duration `yaml:"elapsed"`
	Files     []FileRecord  `yaml:"files"`
}

// Batch converts every supported file of a directory, one at a time.
type Batch struct {
	conv     *Converter
	registry *format.Registry
	console  *logger.Console

	// ShowTable prints a per-file table after the summary.
	ShowTable bool
}

// NewBatch creates a batch orchestrator reporting to console.
func NewBatch(conv *Converter, registry *format.Registry, console *logger.Console) *Batch {
	return &Batch{conv: conv, registry: registry, console: console}
}

// Run converts the supported files directly inside inputDir into outputDir
// (DefaultOutputDir when empty). The output directory is created once the
// input directory checks out, before files are listed. Configuration
// problems are returned as errors before any file is converted; per-file failures are recorded in the
// result and never stop the batch.
func (b *Batch) Run(inputDir, outputDir string, f format.Format, dpi, quality int) (*BatchResult, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}
	if dpi < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDPI, dpi)
	}

	if err := checkInputDir(inputDir); err != nil {
		return nil, err
	}

	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := b.collectFiles(inputDir)
	if err != nil {
		return nil, err
	}

	d := b.registry.Describe(f)
	result := &BatchResult{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Format:    d.Name,
		DPI:       dpi,
		Quality:   quality,
		Total:     len(files),
		Failed:    []string{},
	}

	b.console.Info("Found %d files, converting to %s...", len(files), d.Name)
	b.console.Log("Quality: %d%%, DPI: %d", quality, dpi)
	timer := b.console.StartTimer("Batch conversion")

	for i, name := range files {
		outName := strings.TrimSuffix(name, filepath.Ext(name)) + d.Extension
		rec := FileRecord{Input: name, Output: outName}
		b.console.Log("[%d/%d] Converting: %s -> %s", i+1, len(files), name, outName)

		start := time.Now()
		inPath := filepath.Join(inputDir, name)
		outPath := filepath.Join(outputDir, outName)
		err := b.conv.Convert(Request{
			Input:   inPath,
			Output:  outPath,
			Format:  f,
			DPI:     dpi,
			Quality: quality,
		})
		rec.Duration = time.Since(start)

		if err != nil {
			b.console.Error("Failed to convert %s: %v", name, err)
			rec.Error = err.Error()
			if k := KindOf(err); k != 0 {
				rec.Kind = k.String()
			}
			result.Failed = append(result.Failed, name)
			result.Files = append(result.Files, rec)
			continue
		}

		rec.OK = true
		result.Succeeded++
		inInfo, inErr := os.Stat(inPath)
		outInfo, outErr := os.Stat(outPath)
		if inErr == nil && outErr == nil {
			rec.InputBytes, rec.OutputBytes = inInfo.Size(), outInfo.Size()
			b.console.Success("Done: %.1fMB -> %.1fMB", toMB(rec.InputBytes), toMB(rec.OutputBytes))
		} else {
			b.console.Success("Done")
		}
		result.Files = append(result.Files, rec)
	}

	result.Elapsed = timer.End()
	b.summarize(result)
	return result, nil
}

func checkInputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputDirNotFound, dir)
		}
		return fmt.Errorf("failed to access input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}
	return nil
}

// collectFiles lists the convertible regular files directly inside dir,
// sorted by name. AppleDouble "._" companions are skipped.
func (b *Batch) collectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "._") {
			continue
		}
		if b.registry.IsInput(name) {
			files = append(files, name)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s (supported: %s)", ErrNoSupportedFiles, dir,
			strings.Join(b.registry.InputExtensions(), ", "))
	}
	return files, nil
}

func (b *Batch) summarize(r *BatchResult) {
	b.console.Info("Conversion complete! Succeeded: %d/%d, elapsed: %.1fs", r.Succeeded, r.Total, r.Elapsed.Seconds())
	b.console.Info("Output saved to: %s", r.OutputDir)

	if len(r.Failed) > 0 {
		b.console.Warn("Failed files:")
		for _, name := range r.Failed {
			b.console.Log("  - %s", name)
		}
	}

	if !b.ShowTable {
		return
	}
	table := b.console.NewTable([]string{"File", "Output", "Input MB", "Output MB", "Time", "Status"})
	for _, rec := range r.Files {
		status, inMB, outMB := "ok", "", ""
		if !rec.OK {
			status = "failed"
			if rec.Kind != "" {
				status += " (" + rec.Kind + ")"
			}
		}
		if rec.InputBytes > 0 || rec.OutputBytes > 0 {
			inMB = fmt.Sprintf("%.2f", toMB(rec.InputBytes))
			outMB = fmt.Sprintf("%.2f", toMB(rec.OutputBytes))
		}
		table.AddRow(rec.Input, rec.Output, inMB, outMB, rec.Duration.Round(time.Millisecond).String(), status)
	}
	table.Print()
}

func toMB(n int64) float64 {
	return float64(n) / bytesPerMB
}
