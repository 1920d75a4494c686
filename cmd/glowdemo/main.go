// Command glowdemo renders the glow and portal dissolve effects on a sphere
// and writes the result as PNG (single effect, contact sheet) or GIF
// (dissolve animation).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/gogpu/glow"
	"github.com/gogpu/glow/config"
	"github.com/gogpu/glow/internal/color"
	"github.com/gogpu/glow/render"
)

type options struct {
	preset   string
	name     string
	effect   string
	width    int
	height   int
	samples  int
	progress float64
	tonemap  string
	output   string
	verbose  bool
	gpu      bool
}

func main() {
	var o options
	flag.StringVar(&o.preset, "preset", "", "YAML preset file (default: built-in defaults)")
	flag.StringVar(&o.name, "name", "default", "preset name")
	flag.StringVar(&o.effect, "effect", "glow", "effect to render: glow, dissolve, sheet or anim")
	flag.IntVar(&o.width, "width", 512, "image width")
	flag.IntVar(&o.height, "height", 512, "image height")
	flag.IntVar(&o.samples, "samples", 2, "supersampling factor per axis")
	flag.Float64Var(&o.progress, "progress", -1, "dissolve progress override in [0,1]")
	flag.StringVar(&o.tonemap, "tonemap", "reinhard", "tone mapper: clamp, reinhard or aces")
	flag.StringVar(&o.output, "output", "", "output file (default: <effect>.png or dissolve.gif)")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.BoolVar(&o.gpu, "gpu", false, "render glow and dissolve with the WebGPU backend")
	flag.Parse()

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	glow.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		log.Fatalf("glowdemo: %v", err)
	}
}

func run(ctx context.Context, o options) error {
	presets := config.Default()
	if o.preset != "" {
		f, err := config.Load(o.preset)
		if err != nil {
			return err
		}
		presets = f
	}

	tm, err := color.ParseToneMapper(o.tonemap)
	if err != nil {
		return err
	}
	opts := render.DefaultOptions()
	opts.Width, opts.Height = o.width, o.height
	opts.Samples = o.samples
	opts.ToneMap = tm

	if o.output == "" {
		o.output = defaultOutput(o.effect)
	}

	if glow.Backend() == nil {
		sb := glow.NewSoftwareBackend()
		sb.Octaves = glow.DefaultOctaves
		if err := glow.RegisterBackend(sb); err != nil {
			return err
		}
	}

	switch o.effect {
	case "glow", "dissolve":
		return renderSingle(ctx, presets, o, opts)
	case "sheet":
		return renderSheet(ctx, presets, o, opts)
	case "anim":
		return renderAnim(ctx, presets, o, tm)
	}
	return fmt.Errorf("unknown effect %q", o.effect)
}

func defaultOutput(effect string) string {
	if effect == "anim" {
		return "dissolve.gif"
	}
	return effect + ".png"
}

// portalParams looks up the named portal preset and applies -progress.
func portalParams(presets *config.File, o options) (glow.PortalDissolveParameters, error) {
	p, err := presets.PortalParams(o.name)
	if err != nil {
		return p, err
	}
	if o.progress >= 0 {
		p = p.WithProgress(glow.DissolveRanges.Progress.Clamp(float32(o.progress)))
	}
	return p, nil
}

func renderSingle(ctx context.Context, presets *config.File, o options, opts render.Options) error {
	gp := glow.DefaultGlowParameters()
	dp := glow.DefaultPortalDissolveParameters()
	var err error
	if o.effect == "glow" {
		gp, err = presets.GlowParams(o.name)
	} else {
		dp, err = portalParams(presets, o)
	}
	if err != nil {
		return err
	}
	model, err := backendModel(glow.Backend(), o.effect, gp, dp)
	if err != nil {
		return err
	}

	if o.gpu {
		reinhard, err := gpuReinhard(o.tonemap)
		if err != nil {
			return err
		}
		img, err := renderGPU(o.effect, gp, dp, reinhard, opts)
		if err != nil {
			return err
		}
		return save(o.output, img)
	}

	r := render.NewRenderer()
	defer r.Close()
	img, err := r.Render(ctx, model, opts)
	if err != nil {
		return err
	}
	return save(o.output, img)
}

// renderSheet renders every glow preset followed by the named portal
// preset at five progress steps.
func renderSheet(ctx context.Context, presets *config.File, o options, opts render.Options) error {
	r := render.NewRenderer()
	defer r.Close()

	var panels []render.Panel
	for _, name := range presets.GlowNames() {
		p, err := presets.GlowParams(name)
		if err != nil {
			return err
		}
		img, err := r.Render(ctx, glow.GlowModel{Params: p}, opts)
		if err != nil {
			return err
		}
		panels = append(panels, render.Panel{Label: "glow " + name, Image: img})
	}

	portal, err := portalParams(presets, o)
	if err != nil {
		return err
	}
	for _, progress := range render.ProgressSteps(5) {
		model := glow.DissolveModel{Params: portal.WithProgress(progress), Octaves: glow.DefaultOctaves}
		img, err := r.Render(ctx, model, opts)
		if err != nil {
			return err
		}
		panels = append(panels, render.Panel{Label: fmt.Sprintf("%s %.2f", o.name, progress), Image: img})
	}

	return save(o.output, render.ContactSheet(panels, 4))
}

func renderAnim(ctx context.Context, presets *config.File, o options, tm color.ToneMapper) error {
	portal, err := portalParams(presets, o)
	if err != nil {
		return err
	}

	ao := render.DefaultAnimationOptions()
	ao.Width, ao.Height = o.width, o.height
	ao.Samples = o.samples
	ao.ToneMap = tm
	ao.Octaves = glow.DefaultOctaves

	r := render.NewRenderer()
	defer r.Close()
	anim, err := r.DissolveAnimation(ctx, portal, ao)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(o.output, ".gif") {
		glow.Logger().Warn("animation output is GIF regardless of extension", "output", o.output)
	}
	if err := render.SaveGIF(o.output, anim); err != nil {
		return err
	}
	glow.Logger().Info("animation saved", "output", o.output, "frames", len(anim.Image))
	return nil
}

// backendModel hands the effect's parameters to b and returns the model
// the CPU renderer draws. A software backend renders from the snapshot it
// just stored; other backends only receive the parameters, and the CPU
// path draws a model built from them directly.
func backendModel(b glow.MaterialBackend, effect string, gp glow.GlowParameters, dp glow.PortalDissolveParameters) (glow.ShadingModel, error) {
	var err error
	if effect == "glow" {
		err = b.SetGlow(gp)
	} else {
		err = b.SetDissolve(dp)
	}
	if err != nil && !errors.Is(err, glow.ErrFallbackToUnlit) {
		return nil, err
	}

	if sb, ok := b.(*glow.SoftwareBackend); ok {
		if effect == "glow" {
			return sb.GlowModel(), nil
		}
		return sb.DissolveModel(), nil
	}
	if effect == "glow" {
		return glow.GlowModel{Params: gp}, nil
	}
	return glow.DissolveModel{Params: dp, Octaves: glow.DefaultOctaves}, nil
}

// gpuReinhard maps a -tonemap name onto the GPU shaders' tone mapping
// switch. The shaders implement only clamp and Reinhard.
func gpuReinhard(name string) (bool, error) {
	switch strings.ToLower(name) {
	case "clamp", "":
		return false, nil
	case "reinhard":
		return true, nil
	}
	if _, err := color.ParseToneMapper(name); err != nil {
		return false, err
	}
	return false, fmt.Errorf("tone mapper %q is not supported with -gpu (use clamp or reinhard)", name)
}

func save(path string, img image.Image) error {
	if err := render.SavePNG(path, img); err != nil {
		return err
	}
	b := img.Bounds()
	log.Printf("saved %s (%dx%d)", path, b.Dx(), b.Dy())
	return nil
}
