// Package glow provides a portable glow and dissolve shading model for Go.
//
// # Overview
//
// glow evaluates two surface effects as pure functions of a geometry sample
// and a small parameter record:
//
//   - Glow: a fresnel rim term blended with a radial falloff around the
//     texture-space center, added on top of a base color.
//   - Dissolve: a value-noise threshold that discards fragments below the
//     dissolve progress and highlights an edge band above it.
//
// The same math ships as WGSL (package gpu), as Kage (cmd/glowview) and as
// Go code in this package, which is the reference every backend is tested
// against.
//
// # Quick Start
//
//	import "github.com/gogpu/glow"
//
//	params := glow.DefaultGlowParameters()
//	sample := glow.SurfaceSample{
//	    Position: glow.V3(0, 0, 1),
//	    Normal:   glow.V3(0, 0, 1),
//	    Camera:   glow.V3(0, 0, 5),
//	    UV:       glow.V2(0.5, 0.5),
//	}
//	c := glow.EvaluateGlow(sample, params) // (2, 1, 0, 1)
//
// # Parameters
//
// GlowParameters and PortalDissolveParameters are immutable values. Editing
// methods (WithIntensity, WithProgress, ...) return a new value. Validate
// parameters where they are constructed (NewGlowParameters,
// NewPortalDissolveParameters, package config); the evaluation functions
// assume validated input and clamp the few values that would otherwise
// produce NaN.
//
// # Concurrency
//
// Every evaluation function is reentrant and reads no package-level mutable
// state, so a renderer may call them from any number of goroutines.
//
// # Backends
//
// A MaterialBackend receives parameter snapshots and owns whatever program
// renders them. SoftwareBackend is always available; importing package gpu
// registers a WebGPU backend.
//
// # Output range
//
// Output RGB is not clamped. Tone mapping is the responsibility of the
// display stage (see package render).
package glow

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
