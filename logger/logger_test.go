package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainConsole(buf *bytes.Buffer, level slog.Level) *Console {
	return NewConsole(&RichLoggerOptions{
		Output:       buf,
		Level:        level,
		EnableColors: false,
	})
}

func TestConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	c := plainConsole(&buf, slog.LevelInfo)

	c.Success("converted %d files", 3)
	c.Info("starting")
	c.Warn("slow page %d", 2)
	c.Error("failed: %s", "a.png")
	c.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "✓ converted 3 files", lines[0])
	assert.Equal(t, "ℹ starting", lines[1])
	assert.Equal(t, "WARN  ⚠ slow page 2", lines[2])
	assert.Equal(t, "ERROR ✖ failed: a.png", lines[3])
	assert.NotContains(t, buf.String(), "\033[")
}

func TestConsoleDebugWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	c := plainConsole(&buf, slog.LevelDebug)

	c.Debug("rendered %d pages", 4)
	assert.Equal(t, "DEBUG rendered 4 pages\n", buf.String())
}

func TestConsoleColors(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&RichLoggerOptions{Output: &buf, EnableColors: true})

	c.Success("done")
	assert.Contains(t, buf.String(), Green)
	assert.Contains(t, buf.String(), Reset)
}

func TestHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewRichLogger(&RichLoggerOptions{Output: &buf})

	log.WithGroup("pdf").Info("rendered", "pages", 3)
	assert.Equal(t, "rendered pdf.pages=3\n", buf.String())
}

func TestConsoleLoggerWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&RichLoggerOptions{Output: &buf, Level: slog.LevelDebug})

	c.Logger.Debug("using source resolution", "dpi", 300)
	assert.Equal(t, "DEBUG using source resolution dpi=300\n", buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable([]string{"File", "Status"}, &buf)
	table.AddRow("a.png", "ok")
	table.AddRow("long-name.tiff")
	table.AddRow("x", "failed", "ignored")
	table.Print()

	want := strings.Join([]string{
		"┌────────────────┬────────┐",
		"│ File           │ Status │",
		"├────────────────┼────────┤",
		"│ a.png          │ ok     │",
		"│ long-name.tiff │        │",
		"│ x              │ failed │",
		"└────────────────┴────────┘",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTimer(t *testing.T) {
	var buf bytes.Buffer
	c := plainConsole(&buf, slog.LevelDebug)

	timer := c.StartTimer("batch")
	d := timer.End()
	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))
	assert.True(t, strings.HasPrefix(buf.String(), "DEBUG batch completed in "))
}
