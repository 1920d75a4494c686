// Package color converts unbounded linear shading output into displayable
// 8-bit sRGB.
//
// The shading model produces linear RGB that routinely exceeds 1. Display
// takes two steps: a ToneMapper compresses the range into [0, 1], then the
// sRGB transfer function encodes it. Alpha is linear throughout and is only
// clamped.
package color

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/chewxy/math32"
)

// ToneMapper compresses one linear channel into [0, 1].
type ToneMapper func(x float32) float32

// Tone mapping operators.
var (
	// Clamp cuts everything above 1. Bright glow saturates to white.
	Clamp ToneMapper = func(x float32) float32 { return clamp01(x) }

	// Reinhard maps x to x/(1+x). It never saturates.
	Reinhard ToneMapper = func(x float32) float32 {
		if !(x > 0) {
			return 0
		}
		return x / (1 + x)
	}

	// ACESFilm is Narkowicz's fitted ACES filmic curve.
	ACESFilm ToneMapper = func(x float32) float32 {
		if !(x > 0) {
			return 0
		}
		const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
		return clamp01((x * (a*x + b)) / (x*(c*x+d) + e))
	}
)

// ParseToneMapper returns the operator for a name: "clamp", "reinhard" or
// "aces".
func ParseToneMapper(name string) (ToneMapper, error) {
	switch strings.ToLower(name) {
	case "clamp", "":
		return Clamp, nil
	case "reinhard":
		return Reinhard, nil
	case "aces", "acesfilm":
		return ACESFilm, nil
	}
	return nil, fmt.Errorf("color: unknown tone mapper %q", name)
}

// Encode tone maps a linear straight-alpha color and encodes it as sRGB.
func Encode(r, g, b, a float32, tm ToneMapper) color.NRGBA {
	if tm == nil {
		tm = Clamp
	}
	return color.NRGBA{
		R: LinearToSRGBFast(tm(r)),
		G: LinearToSRGBFast(tm(g)),
		B: LinearToSRGBFast(tm(b)),
		A: uint8(clamp01(a)*255 + 0.5),
	}
}

// Decode converts an 8-bit sRGB color into linear straight-alpha
// components, the inverse of Encode with the Clamp operator.
func Decode(c color.NRGBA) (r, g, b, a float32) {
	return SRGBToLinearFast(c.R), SRGBToLinearFast(c.G), SRGBToLinearFast(c.B), float32(c.A) / 255
}

// clamp01 restricts x to [0, 1]; NaN maps to 0.
func clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	return math32.Min(x, 1)
}
