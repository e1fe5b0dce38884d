package logger

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

type Console struct {
	Logger    *slog.Logger
	Out       io.Writer
	Colorized bool
}

func NewConsole(opts *RichLoggerOptions) *Console {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Console{
		Logger:    NewRichLogger(opts),
		Out:       opts.Output,
		Colorized: opts.EnableColors,
	}
}

func (c *Console) StartTimer(name string) *Timer {
	return &Timer{
		Name:      name,
		StartTime: time.Now(),
		Console:   c,
	}
}

func (c *Console) Success(format string, args ...any) {
	msg := "✓ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Green + Bold + msg + Reset
	}
	c.Logger.Info(msg)
}

func (c *Console) Info(format string, args ...any) {
	msg := "ℹ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Blue + Bold + msg + Reset
	}
	c.Logger.Info(msg)
}

func (c *Console) Log(format string, args ...any) {
	c.Logger.Info(fmt.Sprintf(format, args...))
}

func (c *Console) Debug(format string, args ...any) {
	c.Logger.Debug(fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...any) {
	msg := "⚠ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Yellow + Bold + msg + Reset
	}
	c.Logger.Warn(msg)
}

func (c *Console) Error(format string, args ...any) {
	msg := "✖ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Red + Bold + msg + Reset
	}
	c.Logger.Error(msg)
}

func (c *Console) NewTable(headers []string) *Table {
	return NewTable(headers, c.Out)
}
