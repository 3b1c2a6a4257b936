package sketch

import (
	"fmt"
	"image/color"
	"strconv"
)

// ParseHex parses an sRGB hex color string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", each with an
// optional leading '#'. Malformed input yields ErrInvalidColor.
//
// Example:
//
//	c, err := sketch.ParseHex("#1e90ff")
func ParseHex(s string) (color.NRGBA, error) {
	hex := s
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint64
	a := uint64(255)
	var err error

	switch len(hex) {
	case 3: // RGB
		err = parseDigits(hex, 1, &r, &g, &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		err = parseDigits(hex, 1, &r, &g, &b, &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		err = parseDigits(hex, 2, &r, &g, &b)
	case 8: // RRGGBBAA
		err = parseDigits(hex, 2, &r, &g, &b, &a)
	default:
		err = fmt.Errorf("length %d", len(hex))
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}

	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}

func parseDigits(hex string, width int, out ...*uint64) error {
	for i, v := range out {
		n, err := strconv.ParseUint(hex[i*width:(i+1)*width], 16, 8)
		if err != nil {
			return err
		}
		*v = n
	}
	return nil
}

// FormatHex returns c as "#rrggbb", or "#rrggbbaa" when c is translucent.
func FormatHex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
