//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"
)

//go:embed shaders/common.wgsl
var commonShaderSource string

//go:embed shaders/glow.wgsl
var glowEffectSource string

//go:embed shaders/dissolve.wgsl
var dissolveEffectSource string

//go:embed shaders/unlit.wgsl
var unlitEffectSource string

// Effect selects one of the shading programs.
type Effect int

const (
	// EffectGlow is the fresnel/radial glow.
	EffectGlow Effect = iota
	// EffectDissolve is the noise-threshold portal dissolve.
	EffectDissolve
	// EffectUnlit is the solid-color fallback.
	EffectUnlit

	effectCount
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectGlow:
		return "glow"
	case EffectDissolve:
		return "dissolve"
	case EffectUnlit:
		return "unlit"
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// ShaderSource returns the complete WGSL module for an effect: the shared
// frame prelude followed by the effect's fragment stage.
func ShaderSource(e Effect) (string, error) {
	var body string
	switch e {
	case EffectGlow:
		body = glowEffectSource
	case EffectDissolve:
		body = dissolveEffectSource
	case EffectUnlit:
		body = unlitEffectSource
	default:
		return "", fmt.Errorf("gpu: unknown effect %v", e)
	}
	if body == "" || commonShaderSource == "" {
		return "", fmt.Errorf("gpu: %v shader source is empty", e)
	}
	return commonShaderSource + "\n" + body, nil
}
