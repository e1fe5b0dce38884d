// Package format is the registry of supported input extensions and output
// formats with their default encode parameters.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"convertany/converter/colors"
)

// ErrUnknownFormat is returned by Parse for names outside the registry.
var ErrUnknownFormat = errors.New("unknown output format")

// Format identifies an output format.
type Format int

const (
	JPEG Format = iota
	PNG
	TIFF
	BMP
	GIF
	WEBP
	ICO
	PPM
	TGA
	PCX
	AVIF
	PDF
)

// Compression identifies the compression scheme written into the output.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionLZW  Compression = "tiff_lzw"
)

// PDFExtension is the extension routed to the PDF rasterizer.
const PDFExtension = ".pdf"

// Descriptor holds an output format's extension and default encode parameters.
type Descriptor struct {
	Format      Format
	Name        string
	Extension   string
	Mode        colors.Mode // colors.ModeNone when the encoder takes any mode
	Quality     int         // 0 when the format has no quality knob
	Compression Compression
	Lossless    bool
	SupportsDPI bool // resolution can be embedded in the file
	MultiPage   bool // every PDF page can be written into one file
}

// HasQuality reports whether the format is quality-driven.
func (d Descriptor) HasQuality() bool {
	return d.Quality > 0
}

func (f Format) String() string {
	if d, ok := descriptors[f]; ok {
		return d.Name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// descriptors is keyed by Format; order is the order of the const block.
var descriptors = map[Format]Descriptor{
	JPEG: {Format: JPEG, Name: "JPEG", Extension: ".jpg", Mode: colors.ModeRGB, Quality: 95, SupportsDPI: true},
	PNG:  {Format: PNG, Name: "PNG", Extension: ".png", Mode: colors.ModeRGBA, SupportsDPI: true},
	TIFF: {Format: TIFF, Name: "TIFF", Extension: ".tiff", Compression: CompressionLZW, SupportsDPI: true, MultiPage: true},
	BMP:  {Format: BMP, Name: "BMP", Extension: ".bmp"},
	GIF:  {Format: GIF, Name: "GIF", Extension: ".gif"},
	WEBP: {Format: WEBP, Name: "WEBP", Extension: ".webp", Quality: 95, Lossless: true},
	ICO:  {Format: ICO, Name: "ICO", Extension: ".ico"},
	PPM:  {Format: PPM, Name: "PPM", Extension: ".ppm"},
	TGA:  {Format: TGA, Name: "TGA", Extension: ".tga"},
	PCX:  {Format: PCX, Name: "PCX", Extension: ".pcx"},
	AVIF: {Format: AVIF, Name: "AVIF", Extension: ".avif", Quality: 95},
	PDF:  {Format: PDF, Name: "PDF", Extension: ".pdf", SupportsDPI: true, MultiPage: true},
}

// imageInputs are the raster extensions accepted as conversion input.
var imageInputs = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp",
	".ico", ".ppm", ".pgm", ".pbm", ".pnm", ".dib", ".eps", ".pcx",
	".sgi", ".tga", ".xbm", ".xpm", ".im", ".msp", ".avif",
}

// Registry is an immutable view over the supported formats. The zero value
// is not usable; build one with NewRegistry.
type Registry struct {
	byName  map[string]Descriptor
	order   []Format
	inputs  map[string]bool
	inputLs []string
}

// NewRegistry builds the registry. It panics if two formats share an
// extension, which would make output names ambiguous.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]Descriptor, len(descriptors)),
		inputs: make(map[string]bool, len(imageInputs)+1),
	}

	seen := make(map[string]Format, len(descriptors))
	for f := JPEG; f <= PDF; f++ {
		d := descriptors[f]
		if prev, dup := seen[d.Extension]; dup {
			panic(fmt.Sprintf("format: extension %s registered by %s and %s", d.Extension, prev, f))
		}
		seen[d.Extension] = f
		r.byName[d.Name] = d
		r.order = append(r.order, f)
	}

	for _, ext := range append(append([]string{}, imageInputs...), PDFExtension) {
		r.inputs[ext] = true
		r.inputLs = append(r.inputLs, ext)
	}
	sort.Strings(r.inputLs)

	return r
}

// Lookup returns the descriptor for name, case-insensitively. Unknown names
// fall back to PNG; user-facing input goes through Parse first, so the
// fallback only protects internal callers.
func (r *Registry) Lookup(name string) Descriptor {
	if d, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return d
	}
	return descriptors[PNG]
}

// Parse resolves name to a Format or returns ErrUnknownFormat.
func (r *Registry) Parse(name string) (Format, error) {
	d, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, name, strings.Join(r.Names(), ", "))
	}
	return d.Format, nil
}

// Describe returns the descriptor of f.
func (r *Registry) Describe(f Format) Descriptor {
	if d, ok := descriptors[f]; ok {
		return d
	}
	return descriptors[PNG]
}

// Names returns the output format names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, f := range r.order {
		names = append(names, descriptors[f].Name)
	}
	return names
}

// IsInput reports whether a file with this path or extension can be converted.
func (r *Registry) IsInput(path string) bool {
	return r.inputs[strings.ToLower(filepath.Ext(path))]
}

// IsPDF reports whether path names a PDF document.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), PDFExtension)
}

// InputExtensions returns every accepted input extension, sorted.
func (r *Registry) InputExtensions() []string {
	out := make([]string, len(r.inputLs))
	copy(out, r.inputLs)
	return out
}
