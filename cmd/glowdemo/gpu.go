//go:build !nogpu

package main

import (
	"errors"
	"image"

	"github.com/gogpu/glow"
	"github.com/gogpu/glow/internal/gpu"
	"github.com/gogpu/glow/render"
)

// renderGPU draws one effect with the WebGPU backend. The GPU path has no
// supersampling; reinhard selects Reinhard over clamp tone mapping.
func renderGPU(effect string, gp glow.GlowParameters, dp glow.PortalDissolveParameters, reinhard bool, opts render.Options) (image.Image, error) {
	a := gpu.NewMaterialAccelerator()
	a.Octaves = glow.DefaultOctaves
	if err := a.Init(); err != nil {
		return nil, err
	}
	defer a.Close()
	a.SetLogger(glow.Logger())

	e := gpu.EffectGlow
	err := a.SetGlow(gp)
	if effect == "dissolve" {
		e = gpu.EffectDissolve
		err = a.SetDissolve(dp)
	}
	if err != nil && !errors.Is(err, glow.ErrFallbackToUnlit) {
		return nil, err
	}

	frame := gpu.DefaultFrameUniforms(uint32(opts.Width), uint32(opts.Height)) //nolint:gosec // flag values
	frame.Background = opts.Background
	frame.Reinhard = reinhard
	return a.Render(e, frame)
}
