package converter

import (
	"errors"
	"fmt"
)

// Configuration errors abort a run before any file is converted.
var (
	ErrInputDirNotFound = errors.New("input directory does not exist")
	ErrNotADirectory    = errors.New("input path is not a directory")
	ErrNoSupportedFiles = errors.New("no supported files found")
	ErrInvalidQuality   = errors.New("quality must be between 1 and 100")
	ErrInvalidDPI       = errors.New("dpi must be positive")
)

// ErrorKind classifies a per-file conversion failure.
type ErrorKind int

const (
	NotFound ErrorKind = iota + 1
	UnsupportedFormat
	DecodeFailed
	EncodeFailed
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case UnsupportedFormat:
		return "unsupported format"
	case DecodeFailed:
		return "decode failed"
	case EncodeFailed:
		return "encode failed"
	case IOError:
		return "i/o error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ConversionError reports why one file could not be converted.
type ConversionError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, path string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind of a ConversionError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
