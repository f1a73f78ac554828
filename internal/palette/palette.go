// Package palette parses the color strings stored on nodes. A color is either
// a CSS/X11 color name ("lightblue") or a hex triplet ("#add8e6", "#abc",
// or the 12-digit "#rrrrggggbbbb" form some color pickers return).
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Well known colors used by the renderer.
const (
	DefaultNode = "lightblue"
	Selected    = "lightgreen"
	Outline     = "black"
	Highlight   = "red"
)

// ErrUnknownColor is returned for strings that are neither a known name nor a hex value.
var ErrUnknownColor = errors.New("unknown color")

// Parse converts a color string to an opaque RGBA value.
func Parse(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("%w: empty string", ErrUnknownColor)
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	// Names are matched case-insensitively and ignore spaces ("Light Blue")
	name := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// Valid reports whether s can be parsed.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// MustParse is like Parse but falls back to fallback when s is not a color.
func MustParse(s string, fallback color.RGBA) color.RGBA {
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c
}

// Hex returns the #rrggbb form of c.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

func parseHex(s string) (color.RGBA, error) {
	switch len(s) {
	case 4, 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
		}
		r, g, b := c.Clamped().RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
	case 13:
		// 16 bits per channel, keep the high byte of each
		short := "#" + s[1:3] + s[5:7] + s[9:11]
		for _, ch := range s[1:] {
			if !isHexDigit(ch) {
				return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
			}
		}
		return parseHex(short)
	default:
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
