package glow

import (
	"image/color"

	"github.com/chewxy/math32"
)

// RGBA represents a linear color with red, green, blue and alpha components.
// Components are typically in [0, 1] but are never clamped by the shading
// model: glow output is additive and routinely exceeds 1.
type RGBA struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// RGBA2 creates a color from RGBA components.
func RGBA2(r, g, b, a float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without a
// leading '#'. Unparseable input yields opaque black and ok=false.
func Hex(hex string) (c RGBA, ok bool) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255
	ok = true

	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) &&
			parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) &&
			parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	default:
		ok = false
	}
	if !ok {
		return RGB(0, 0, 0), false
	}

	return RGBA{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}, true
}

// parseHex parses a run of hex digits into val.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// Add returns the component-wise sum, alpha included.
func (c RGBA) Add(o RGBA) RGBA {
	return RGBA{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A + o.A}
}

// Scale multiplies all four components by s.
func (c RGBA) Scale(s float32) RGBA {
	return RGBA{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A * s}
}

// ScaleRGB multiplies the color channels by s and leaves alpha unchanged.
func (c RGBA) ScaleRGB(s float32) RGBA {
	return RGBA{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float32) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Premultiply returns a premultiplied color.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// IsFinite reports whether every component is a finite number.
func (c RGBA) IsFinite() bool {
	return isFinite(c.R) && isFinite(c.G) && isFinite(c.B) && isFinite(c.A)
}

// Approx returns true if two colors are approximately equal within epsilon.
func (c RGBA) Approx(o RGBA, epsilon float32) bool {
	return math32.Abs(c.R-o.R) < epsilon &&
		math32.Abs(c.G-o.G) < epsilon &&
		math32.Abs(c.B-o.B) < epsilon &&
		math32.Abs(c.A-o.A) < epsilon
}

// Color converts RGBA to the standard color.Color interface, clamping each
// component to [0, 1]. No transfer function is applied; see package render
// for tone mapping and sRGB encoding.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to a straight-alpha RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// clamp255 restricts a value to [0, 255] and rounds to the nearest integer.
func clamp255(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return math32.Floor(x + 0.5)
}

func isFinite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Orange      = RGB(1, 0.5, 0)
	PortalBlue  = RGB(0, 0.5, 1)
	Transparent = RGBA2(0, 0, 0, 0)
)
