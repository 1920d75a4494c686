package glow

import "github.com/chewxy/math32"

// GlowBlendWeight is the weight of the fresnel term in the glow factor; the
// radial term gets the remainder. It is fixed, not a parameter.
const GlowBlendWeight = 0.5

// MinFalloff replaces a falloff that is zero, negative or NaN during
// evaluation. Validate rejects such values; this clamp only keeps an
// unvalidated record from producing NaN.
const MinFalloff = 1.0

// Fragment is the result of one shading evaluation.
type Fragment struct {
	Color RGBA

	// Discard reports that the fragment is not rendered at all.
	Discard bool
}

// ShadingModel evaluates one effect for one surface sample.
//
// Implementations must be pure: Shade is called concurrently from many
// goroutines with no synchronization.
type ShadingModel interface {
	Shade(s SurfaceSample) Fragment
}

// Smoothstep performs cubic Hermite interpolation between edge0 and edge1.
// x is clamped to the edges first. When the edges coincide the result is a
// step: 0 below the edge, 1 at or above it.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Fresnel returns 1 - max(dot(normalize(normal), view), 0) for a unit view
// direction. Back-facing and grazing samples saturate to 1; the dot product
// is also capped at 1 so rounding never makes the term negative.
func Fresnel(normal, view Vec3) float32 {
	d := normal.Normalize().Dot(view)
	return 1 - clamp01(d)
}

// RadialGlow returns 1 - smoothstep(0, 1, |uv - (0.5, 0.5)| * radius).
// It is 1 at the texture center and 0 once the scaled distance reaches 1.
// A negative radius behaves like zero.
func RadialGlow(uv Vec2, radius float32) float32 {
	d := uv.Sub(V2(0.5, 0.5)).Length() * math32.Max(radius, 0)
	return 1 - Smoothstep(0, 1, d)
}

// GlowFactor blends the fresnel and radial terms with GlowBlendWeight.
func GlowFactor(fresnel, radial float32) float32 {
	return GlowBlendWeight*fresnel + (1-GlowBlendWeight)*radial
}

// EvaluateGlow computes the glow color for one sample.
//
// The fresnel term is raised to Falloff and scaled by Intensity, then
// averaged with the radial term. The result is added on top of the base
// color: rgb = color.rgb + factor * color.rgb * intensity. Alpha is
// color.a unchanged. The output is not clamped.
func EvaluateGlow(s SurfaceSample, p GlowParameters) RGBA {
	falloff := p.Falloff
	if !(falloff > 0) {
		falloff = MinFalloff
	}

	fresnel := Fresnel(s.Normal, s.ViewDirection())
	fresnel = math32.Pow(fresnel, falloff) * p.Intensity
	radial := RadialGlow(s.UV, p.Radius)
	factor := GlowFactor(fresnel, radial)

	c := p.Color
	k := factor * p.Intensity
	return RGBA{
		R: c.R + k*c.R,
		G: c.G + k*c.G,
		B: c.B + k*c.B,
		A: c.A,
	}
}

// DissolveEdge applies the dissolve threshold to a noise value.
// The fragment is discarded when noise < progress. Otherwise edge is
// smoothstep(progress, progress+edgeWidth, noise): 0 right at the threshold,
// rising to 1 at the far side of the band. A negative width behaves like
// zero.
func DissolveEdge(progress, edgeWidth, noise float32) (edge float32, discard bool) {
	if noise < progress {
		return 0, true
	}
	return Smoothstep(progress, progress+math32.Max(edgeWidth, 0), noise), false
}

// EvaluateDissolve computes the portal dissolve for one sample using
// ValueNoise at uv * noiseScale. Discarded fragments return Transparent.
// Kept fragments return PortalColor scaled by (1 - edge): the band right
// above the threshold glows in the portal color and fades out beyond it.
func EvaluateDissolve(s SurfaceSample, p PortalDissolveParameters) (RGBA, bool) {
	f := DissolveModel{Params: p}.Shade(s)
	return f.Color, f.Discard
}

// GlowModel is the ShadingModel for the glow effect.
type GlowModel struct {
	Params GlowParameters
}

// Shade implements ShadingModel.
func (m GlowModel) Shade(s SurfaceSample) Fragment {
	return Fragment{Color: EvaluateGlow(s, m.Params)}
}

// DissolveModel is the ShadingModel for the portal dissolve effect.
type DissolveModel struct {
	Params PortalDissolveParameters

	// Noise overrides the noise source. Nil selects ValueNoise, or
	// FractalNoise when Octaves > 1.
	Noise NoiseFunc

	// Octaves selects fractal noise when greater than 1.
	Octaves int
}

// Shade implements ShadingModel.
func (m DissolveModel) Shade(s SurfaceSample) Fragment {
	n := m.noise(s.UV.Mul(m.Params.NoiseScale))
	edge, discard := DissolveEdge(m.Params.DissolveProgress, m.Params.EdgeWidth, n)
	if discard {
		return Fragment{Color: Transparent, Discard: true}
	}
	return Fragment{Color: m.Params.PortalColor.Scale(1 - edge)}
}

func (m DissolveModel) noise(p Vec2) float32 {
	switch {
	case m.Noise != nil:
		return m.Noise(p)
	case m.Octaves > 1:
		return FractalNoise(p, m.Octaves)
	default:
		return ValueNoise(p)
	}
}

// UnlitModel shades every sample with one solid color. Hosts use it when a
// backend reports ErrFallbackToUnlit.
type UnlitModel struct {
	Color RGBA
}

// Shade implements ShadingModel.
func (m UnlitModel) Shade(SurfaceSample) Fragment {
	return Fragment{Color: m.Color}
}
