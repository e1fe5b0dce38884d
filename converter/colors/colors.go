package colors

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color represents a color with both normalized (0-1) and 8-bit (0-255) values
type Color struct {
	R8, G8, B8 uint8   // 8-bit values (0-255)
	R, G, B    float64 // Normalized values (0-1)
}

// NewColorFromHex creates a Color from a hex string (e.g., "#ffffff", "ffffff" or "#fff")
func NewColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color: %s (expected 3 or 6 characters)", hex)
	}

	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid red component in hex: %s", hex)
	}
	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid green component in hex: %s", hex)
	}
	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid blue component in hex: %s", hex)
	}

	return NewColorFromRGB8(uint8(r), uint8(g), uint8(b)), nil
}

// NewColorFromRGB8 creates a Color from 8-bit RGB values
func NewColorFromRGB8(r, g, b uint8) Color {
	return Color{
		R8: r, G8: g, B8: b,
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// ToRGBA converts to an opaque color.NRGBA
func (c Color) ToRGBA() color.NRGBA {
	return color.NRGBA{R: c.R8, G: c.G8, B: c.B8, A: 255}
}

// Hex returns the hex string representation
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R8, c.G8, c.B8)
}

var (
	// White is the default background transparent pixels are flattened onto
	White = NewColorFromRGB8(255, 255, 255)

	// Black fills the gaps left when pages of different widths are stacked
	Black = NewColorFromRGB8(0, 0, 0)
)

// DefaultBackground returns the background used when none is configured
func DefaultBackground() Color {
	return White
}
