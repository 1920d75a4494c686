//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"

	"github.com/gogpu/glow"
)

// Uniform buffer sizes in bytes. Each matches the WGSL struct of the same
// name; every field is a 4-byte float and vec4 fields come first, so no
// implicit padding appears.
const (
	frameUniformSize    = 48 // Frame: 3 x vec4<f32>
	glowUniformSize     = 32 // Glow: vec4<f32> + 4 x f32
	dissolveUniformSize = 32 // Dissolve: vec4<f32> + 4 x f32
	unlitUniformSize    = 16 // Unlit: vec4<f32>
)

// FrameUniforms describes the view the effect shaders ray cast: a sphere at
// the origin seen from a camera on the +Z axis.
type FrameUniforms struct {
	Width, Height uint32

	// CameraDistance is the camera's Z coordinate.
	CameraDistance float32

	// FOV is the vertical field of view in degrees.
	FOV float32

	// SphereRadius is the radius of the shaded sphere.
	SphereRadius float32

	// Background is the linear color behind the sphere.
	Background glow.RGBA

	// Reinhard selects Reinhard tone mapping instead of clamping.
	Reinhard bool
}

// DefaultFrameUniforms matches the software renderer's default camera.
func DefaultFrameUniforms(width, height uint32) FrameUniforms {
	return FrameUniforms{
		Width:          width,
		Height:         height,
		CameraDistance: 3,
		FOV:            45,
		SphereRadius:   1,
		Background:     glow.RGB(0.02, 0.02, 0.04),
		Reinhard:       true,
	}
}

// PackFrameUniforms serializes the Frame uniform.
func PackFrameUniforms(f FrameUniforms) []byte {
	buf := make([]byte, frameUniformSize)
	var aspect float32 = 1
	if f.Height > 0 {
		aspect = float32(f.Width) / float32(f.Height)
	}
	var toneMap float32
	if f.Reinhard {
		toneMap = 1
	}
	putFloats(buf,
		0, 0, f.CameraDistance, math32.Tan(f.FOV*math32.Pi/360),
		float32(f.Width), float32(f.Height), aspect, f.SphereRadius,
		f.Background.R, f.Background.G, f.Background.B, toneMap,
	)
	return buf
}

// PackGlowUniforms serializes glow parameters into the Glow uniform.
func PackGlowUniforms(p glow.GlowParameters) []byte {
	buf := make([]byte, glowUniformSize)
	putFloats(buf,
		p.Color.R, p.Color.G, p.Color.B, p.Color.A,
		p.Intensity, p.Radius, p.Falloff, 0,
	)
	return buf
}

// PackDissolveUniforms serializes dissolve parameters into the Dissolve
// uniform. octaves below 2 select plain value noise in the shader.
func PackDissolveUniforms(p glow.PortalDissolveParameters, octaves int) []byte {
	buf := make([]byte, dissolveUniformSize)
	putFloats(buf,
		p.PortalColor.R, p.PortalColor.G, p.PortalColor.B, p.PortalColor.A,
		p.DissolveProgress, p.NoiseScale, p.EdgeWidth, float32(max(octaves, 0)),
	)
	return buf
}

// PackUnlitUniforms serializes the fallback color.
func PackUnlitUniforms(c glow.RGBA) []byte {
	buf := make([]byte, unlitUniformSize)
	putFloats(buf, c.R, c.G, c.B, c.A)
	return buf
}

func putFloats(buf []byte, vals ...float32) {
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
