package glow

import (
	"errors"
	"fmt"
)

// Parameter contract violations. Validate wraps one of these with the
// offending value; check with errors.Is.
var (
	ErrInvalidIntensity  = errors.New("glow: intensity must be >= 0")
	ErrInvalidRadius     = errors.New("glow: radius must be > 0")
	ErrInvalidFalloff    = errors.New("glow: falloff must be > 0")
	ErrInvalidColor      = errors.New("glow: color components must be finite")
	ErrInvalidProgress   = errors.New("glow: dissolve progress must be in [0, 1]")
	ErrInvalidNoiseScale = errors.New("glow: noise scale must be > 0")
	ErrInvalidEdgeWidth  = errors.New("glow: edge width must be >= 0")
)

// GlowParameters configures the glow effect.
//
// GlowParameters is an immutable value: the With* methods return a modified
// copy, and a host replaces its whole snapshot on every edit.
type GlowParameters struct {
	// Intensity scales both the fresnel term and the additive glow.
	Intensity float32

	// Color is the base color. Alpha passes through to the output unchanged.
	Color RGBA

	// Radius scales the centered texture-coordinate distance before the
	// radial smoothstep. Larger values shrink the radial glow.
	Radius float32

	// Falloff is the fresnel exponent. Larger values tighten the rim.
	Falloff float32
}

// DefaultGlowParameters returns an orange glow: intensity 2, radius 1,
// falloff 3.
func DefaultGlowParameters() GlowParameters {
	return GlowParameters{
		Intensity: 2.0,
		Color:     RGBA2(1.0, 0.5, 0.0, 1.0),
		Radius:    1.0,
		Falloff:   3.0,
	}
}

// WithIntensity returns a copy with the given intensity.
func (p GlowParameters) WithIntensity(v float32) GlowParameters {
	p.Intensity = v
	return p
}

// WithColor returns a copy with the given base color.
func (p GlowParameters) WithColor(c RGBA) GlowParameters {
	p.Color = c
	return p
}

// WithRadius returns a copy with the given radius.
func (p GlowParameters) WithRadius(v float32) GlowParameters {
	p.Radius = v
	return p
}

// WithFalloff returns a copy with the given falloff.
func (p GlowParameters) WithFalloff(v float32) GlowParameters {
	p.Falloff = v
	return p
}

// Validate reports the first contract violation, or nil.
func (p GlowParameters) Validate() error {
	switch {
	case !isFinite(p.Intensity) || p.Intensity < 0:
		return fmt.Errorf("%w: got %v", ErrInvalidIntensity, p.Intensity)
	case !p.Color.IsFinite():
		return fmt.Errorf("%w: got %v", ErrInvalidColor, p.Color)
	case !isFinite(p.Radius) || p.Radius <= 0:
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, p.Radius)
	case !isFinite(p.Falloff) || p.Falloff <= 0:
		return fmt.Errorf("%w: got %v", ErrInvalidFalloff, p.Falloff)
	}
	return nil
}

// Clamp returns a copy with every numeric field clamped to GlowRanges.
func (p GlowParameters) Clamp() GlowParameters {
	p.Intensity = GlowRanges.Intensity.Clamp(p.Intensity)
	p.Radius = GlowRanges.Radius.Clamp(p.Radius)
	p.Falloff = GlowRanges.Falloff.Clamp(p.Falloff)
	return p
}

// PortalDissolveParameters configures the portal dissolve effect.
// Like GlowParameters it is an immutable value.
type PortalDissolveParameters struct {
	// DissolveProgress is the noise threshold in [0, 1]. Fragments whose
	// noise falls below it are discarded. Callers clamp it; the model does not.
	DissolveProgress float32

	// PortalColor is the edge highlight color.
	PortalColor RGBA

	// NoiseScale multiplies the texture coordinate before sampling noise.
	NoiseScale float32

	// EdgeWidth is the width of the highlight band above the threshold.
	EdgeWidth float32
}

// DefaultPortalDissolveParameters returns a fully materialized blue portal.
func DefaultPortalDissolveParameters() PortalDissolveParameters {
	return PortalDissolveParameters{
		DissolveProgress: 0.0,
		PortalColor:      RGBA2(0.0, 0.5, 1.0, 1.0),
		NoiseScale:       1.0,
		EdgeWidth:        0.1,
	}
}

// WithProgress returns a copy with the given dissolve progress.
func (p PortalDissolveParameters) WithProgress(v float32) PortalDissolveParameters {
	p.DissolveProgress = v
	return p
}

// WithPortalColor returns a copy with the given portal color.
func (p PortalDissolveParameters) WithPortalColor(c RGBA) PortalDissolveParameters {
	p.PortalColor = c
	return p
}

// WithNoiseScale returns a copy with the given noise scale.
func (p PortalDissolveParameters) WithNoiseScale(v float32) PortalDissolveParameters {
	p.NoiseScale = v
	return p
}

// WithEdgeWidth returns a copy with the given edge width.
func (p PortalDissolveParameters) WithEdgeWidth(v float32) PortalDissolveParameters {
	p.EdgeWidth = v
	return p
}

// Validate reports the first contract violation, or nil.
func (p PortalDissolveParameters) Validate() error {
	switch {
	case !isFinite(p.DissolveProgress) || p.DissolveProgress < 0 || p.DissolveProgress > 1:
		return fmt.Errorf("%w: got %v", ErrInvalidProgress, p.DissolveProgress)
	case !p.PortalColor.IsFinite():
		return fmt.Errorf("%w: got %v", ErrInvalidColor, p.PortalColor)
	case !isFinite(p.NoiseScale) || p.NoiseScale <= 0:
		return fmt.Errorf("%w: got %v", ErrInvalidNoiseScale, p.NoiseScale)
	case !isFinite(p.EdgeWidth) || p.EdgeWidth < 0:
		return fmt.Errorf("%w: got %v", ErrInvalidEdgeWidth, p.EdgeWidth)
	}
	return nil
}

// Clamp returns a copy with every numeric field clamped to DissolveRanges.
func (p PortalDissolveParameters) Clamp() PortalDissolveParameters {
	p.DissolveProgress = DissolveRanges.Progress.Clamp(p.DissolveProgress)
	p.NoiseScale = DissolveRanges.NoiseScale.Clamp(p.NoiseScale)
	p.EdgeWidth = DissolveRanges.EdgeWidth.Clamp(p.EdgeWidth)
	return p
}

// Range is a closed interval of valid control values.
type Range struct {
	Min, Max float32
}

// Clamp restricts v to the range. NaN maps to Min.
func (r Range) Clamp(v float32) float32 {
	if !(v >= r.Min) {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float32) bool {
	return v >= r.Min && v <= r.Max
}

// Lerp maps t in [0, 1] onto the range.
func (r Range) Lerp(t float32) float32 {
	return r.Min + (r.Max-r.Min)*clamp01(t)
}

// GlowRanges are the control ranges for interactive glow editing.
var GlowRanges = struct {
	Intensity, Radius, Falloff Range
}{
	Intensity: Range{Min: 0, Max: 5},
	Radius:    Range{Min: 0.1, Max: 2},
	Falloff:   Range{Min: 1, Max: 5},
}

// DissolveRanges are the control ranges for interactive portal editing.
var DissolveRanges = struct {
	Progress, NoiseScale, EdgeWidth Range
}{
	Progress:   Range{Min: 0, Max: 1},
	NoiseScale: Range{Min: 0.1, Max: 5},
	EdgeWidth:  Range{Min: 0, Max: 0.2},
}
