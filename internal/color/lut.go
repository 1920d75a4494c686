package color

// sRGBToLinearLUT converts an sRGB byte to linear float32 in one lookup.
var sRGBToLinearLUT [256]float32

// linearToSRGBLUT converts linear [0, 1] at 12-bit precision, which is
// more than an 8-bit sRGB output can resolve.
var linearToSRGBLUT [4096]uint8

func init() {
	for i := range 256 {
		sRGBToLinearLUT[i] = SRGBToLinear(float32(i) / 255)
	}
	for i := range 4096 {
		s := LinearToSRGB(float32(i) / 4095)
		v := int(s*255 + 0.5)
		v = max(0, min(255, v))
		linearToSRGBLUT[i] = uint8(v) //nolint:gosec // clamped to [0,255]
	}
}

// SRGBToLinearFast converts an sRGB byte to linear float32.
//
//	r := SRGBToLinearFast(128) // ~0.2159 (not 0.5!)
func SRGBToLinearFast(s uint8) float32 {
	return sRGBToLinearLUT[s]
}

// LinearToSRGBFast converts linear float32 to an sRGB byte. Input is clamped
// to [0, 1]; NaN encodes as 0.
//
//	s := LinearToSRGBFast(0.5) // 188 (not 128!)
func LinearToSRGBFast(l float32) uint8 {
	l = clamp01(l)
	index := int(l*4095 + 0.5)
	if index > 4095 {
		index = 4095
	}
	return linearToSRGBLUT[index]
}
