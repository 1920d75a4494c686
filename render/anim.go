// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"

	"golang.org/x/image/draw"

	"github.com/gogpu/glow"
)

// ErrTooFewFrames is returned when an animation needs at least two frames.
var ErrTooFewFrames = errors.New("render: animation needs at least 2 frames")

// AnimationOptions controls DissolveAnimation.
type AnimationOptions struct {
	Options

	// Frames is the number of frames from progress 0 to 1 inclusive.
	Frames int

	// Delay is the per-frame delay in 100ths of a second.
	Delay int

	// PingPong appends the reverse sweep so the portal dissolves and then
	// materializes again.
	PingPong bool

	// Octaves is passed to the dissolve model.
	Octaves int
}

// DefaultAnimationOptions renders 24 frames at 256x256.
func DefaultAnimationOptions() AnimationOptions {
	o := DefaultOptions()
	o.Width, o.Height = 256, 256
	o.Samples = 1
	return AnimationOptions{
		Options:  o,
		Frames:   24,
		Delay:    6,
		PingPong: true,
	}
}

// ProgressSteps returns n evenly spaced progress values from 0 to 1.
func ProgressSteps(n int) []float32 {
	if n < 2 {
		return nil
	}
	steps := make([]float32, n)
	for i := range steps {
		steps[i] = float32(i) / float32(n-1)
	}
	return steps
}

// DissolveAnimation renders params at every progress step and assembles a
// looping GIF. The progress in params is ignored; every other field is kept.
func (r *Renderer) DissolveAnimation(ctx context.Context, params glow.PortalDissolveParameters, opts AnimationOptions) (*gif.GIF, error) {
	steps := ProgressSteps(opts.Frames)
	if steps == nil {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewFrames, opts.Frames)
	}
	if opts.PingPong {
		for i := len(steps) - 2; i > 0; i-- {
			steps = append(steps, steps[i])
		}
	}

	anim := &gif.GIF{LoopCount: 0}
	for i, progress := range steps {
		model := glow.DissolveModel{Params: params.WithProgress(progress), Octaves: opts.Octaves}
		frame, err := r.Render(ctx, model, opts.Options)
		if err != nil {
			return nil, fmt.Errorf("render: frame %d: %w", i, err)
		}
		anim.Image = append(anim.Image, quantize(frame))
		anim.Delay = append(anim.Delay, opts.Delay)
	}
	glow.Logger().Info("render: dissolve animation assembled", "frames", len(anim.Image))
	return anim, nil
}

// quantize maps a frame onto the Plan9 palette with Floyd-Steinberg
// dithering.
func quantize(img image.Image) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), img, img.Bounds().Min)
	return p
}
