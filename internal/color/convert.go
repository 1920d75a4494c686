package color

import "github.com/chewxy/math32"

// SRGBToLinear converts an sRGB component to linear (EOTF).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math32.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear component to sRGB (OETF).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math32.Pow(l, 1.0/2.4) - 0.055
}
