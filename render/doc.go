// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render is a CPU preview renderer for glow shading models.
//
// It ray casts a single sphere, standing in for both the glowing object and
// the portal, and hands every hit to a glow.ShadingModel as a
// glow.SurfaceSample. Discarded fragments show the background. The unbounded linear output is tone mapped and sRGB encoded
// through internal/color.
//
// # Usage
//
//	r := render.NewRenderer()
//	defer r.Close()
//
//	img, err := r.Render(ctx, glow.GlowModel{Params: glow.DefaultGlowParameters()},
//	    render.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	_ = render.SavePNG("glow.png", img)
//
// # Parallelism
//
// Rows are split into bands and shaded on a worker pool. The shading model
// is called concurrently with no synchronization, which is safe because
// every glow model is pure.
//
// # Beyond single frames
//
// ContactSheet lays out labeled panels (one per parameter preset, for
// example) and DissolveAnimation renders the dissolve progress sweep as an
// animated GIF.
package render
