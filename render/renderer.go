// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/glow"
	"github.com/gogpu/glow/internal/color"
	"github.com/gogpu/glow/internal/parallel"
)

// ErrInvalidSize is returned for non-positive image dimensions.
var ErrInvalidSize = errors.New("render: width and height must be positive")

// Options controls one Render call.
type Options struct {
	Width, Height int

	// Samples is the supersampling factor per axis. Values below 2 render
	// one sample per pixel.
	Samples int

	// Background is the linear color behind the sphere and behind
	// discarded fragments.
	Background glow.RGBA

	// ToneMap compresses the unbounded shading output. Nil selects
	// color.Clamp.
	ToneMap color.ToneMapper
}

// DefaultOptions renders 512x512 with 2x2 supersampling on a dark
// background.
func DefaultOptions() Options {
	return Options{
		Width:      512,
		Height:     512,
		Samples:    2,
		Background: glow.RGB(0.02, 0.02, 0.04),
		ToneMap:    color.Reinhard,
	}
}

// Renderer ray casts one sphere and shades it with a glow.ShadingModel.
//
// A Renderer owns a worker pool; call Close when done. Render may be
// called from several goroutines at once.
type Renderer struct {
	Camera Camera
	Sphere Sphere

	pool *parallel.WorkerPool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithCamera sets the camera.
func WithCamera(c Camera) RendererOption {
	return func(r *Renderer) {
		r.Camera = c
	}
}

// WithSphere sets the geometry.
func WithSphere(s Sphere) RendererOption {
	return func(r *Renderer) {
		r.Sphere = s
	}
}

// WithWorkers sets the worker count. Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) RendererOption {
	return func(r *Renderer) {
		r.pool.Close()
		r.pool = parallel.NewWorkerPool(n)
	}
}

// NewRenderer creates a renderer with DefaultCamera and UnitSphere.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		Camera: DefaultCamera(),
		Sphere: UnitSphere(),
		pool:   parallel.NewWorkerPool(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close stops the worker pool.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Render shades the scene with model and returns an 8-bit sRGB image.
//
// Cancellation is checked before each row band; a cancelled render returns
// ctx.Err() and no image.
func (r *Renderer) Render(ctx context.Context, model glow.ShadingModel, opts Options) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	if model == nil {
		model = glow.UnlitModel{Color: glow.White}
	}
	samples := max(opts.Samples, 1)
	w, h := opts.Width*samples, opts.Height*samples

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	b := r.Camera.basis(w, h)

	bands := parallel.RowBands(h, r.pool.Workers()*4)
	work := make([]func(), len(bands))
	for i, band := range bands {
		work[i] = func() {
			if ctx.Err() != nil {
				return
			}
			r.shadeBand(img, band, b, model, opts)
		}
	}
	r.pool.ExecuteAll(work)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	glow.Logger().Debug("render: frame shaded", "width", w, "height", h, "bands", len(bands))

	if samples == 1 {
		return img, nil
	}
	return Downsample(img, opts.Width, opts.Height), nil
}

func (r *Renderer) shadeBand(img *image.NRGBA, band parallel.Band, b basis, model glow.ShadingModel, opts Options) {
	bg := opts.Background
	for y := band.Y0; y < band.Y1; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < img.Rect.Dx(); x++ {
			c := bg
			dir := b.ray(x, y)
			if t, ok := r.Sphere.Intersect(b.origin, dir); ok {
				s := r.Sphere.Sample(b.origin, dir, t, r.Camera.Position)
				c = Composite(model.Shade(s), bg)
			}
			px := color.Encode(c.R, c.G, c.B, c.A, opts.ToneMap)
			i := x * 4
			row[i+0] = px.R
			row[i+1] = px.G
			row[i+2] = px.B
			row[i+3] = px.A
		}
	}
}

// Composite places a shaded fragment over a background color with
// straight-alpha "over". Discarded fragments leave the background as is.
func Composite(f glow.Fragment, bg glow.RGBA) glow.RGBA {
	if f.Discard {
		return bg
	}
	a := f.Color.A
	return glow.RGBA{
		R: f.Color.R*a + bg.R*(1-a),
		G: f.Color.G*a + bg.G*(1-a),
		B: f.Color.B*a + bg.B*(1-a),
		A: a + bg.A*(1-a),
	}
}

// Downsample scales img to width x height with a Catmull-Rom filter.
func Downsample(img image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Fill returns a width x height image of a single linear color.
func Fill(width, height int, c glow.RGBA, tm color.ToneMapper) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	px := color.Encode(c.R, c.G, c.B, c.A, tm)
	draw.Draw(img, img.Bounds(), image.NewUniform(px), image.Point{}, draw.Src)
	return img
}
