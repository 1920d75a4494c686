package glow

// NoiseFunc maps a 2D point to a noise value in [0, 1).
type NoiseFunc func(p Vec2) float32

// DefaultOctaves is the octave count FractalNoise uses when given zero.
const DefaultOctaves = 4

// ValueNoise returns smoothly interpolated lattice noise in [0, 1).
//
// Each integer lattice point gets a hashed value; the result is the
// bilinear blend of the four surrounding values with Hermite-smoothed
// weights. The hash is integer-only so the WGSL port reproduces it exactly.
func ValueNoise(p Vec2) float32 {
	cell := p.Floor()
	fx := p.X - cell.X
	fy := p.Y - cell.Y
	ix := int32(cell.X)
	iy := int32(cell.Y)

	a := latticeValue(ix, iy)
	b := latticeValue(ix+1, iy)
	c := latticeValue(ix, iy+1)
	d := latticeValue(ix+1, iy+1)

	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)

	top := a + (b-a)*ux
	bottom := c + (d-c)*ux
	return top + (bottom-top)*uy
}

// FractalNoise sums octaves of ValueNoise, doubling frequency and halving
// amplitude each octave. The sum is normalized back into [0, 1).
// octaves <= 0 uses DefaultOctaves.
func FractalNoise(p Vec2, octaves int) float32 {
	if octaves <= 0 {
		octaves = DefaultOctaves
	}
	var sum, norm float32
	amp := float32(0.5)
	freq := float32(1)
	for range octaves {
		sum += amp * ValueNoise(p.Mul(freq))
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

// latticeValue hashes an integer lattice point to [0, 1).
func latticeValue(x, y int32) float32 {
	h := hash2(uint32(x), uint32(y))
	return float32(h>>8) / (1 << 24)
}

// hash2 is a 32-bit avalanche hash over two coordinates.
func hash2(x, y uint32) uint32 {
	h := x*0x8da6b343 ^ y*0xd8163841
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// clamp01 restricts x to [0, 1]; NaN maps to 0.
func clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
