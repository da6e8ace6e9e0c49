package voxel

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// ParseColor parses "#rrggbb" or "#rgb", with or without the leading '#'.
func ParseColor(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Floats returns the color channels normalized to [0, 1].
func (c RGB) Floats() [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}
