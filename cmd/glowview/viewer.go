package main

import (
	"image/color"
	"strings"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gogpu/glow"
	"github.com/gogpu/glow/config"
	icolor "github.com/gogpu/glow/internal/color"
	"github.com/gogpu/glow/render"
)

// Viewer implements ebiten.Game. Parameters live in a glow.SoftwareBackend
// snapshot; the Kage shaders read the snapshot every frame.
type Viewer struct {
	presets *config.File
	name    string
	size    int

	state   *state
	backend *glow.SoftwareBackend
	camera  render.Camera

	glowShader     *ebiten.Shader
	dissolveShader *ebiten.Shader
}

// NewViewer starts from the named presets. A name missing from either
// section falls back to that section's defaults.
func NewViewer(presets *config.File, name string, size int) (*Viewer, error) {
	b := glow.NewSoftwareBackend()
	if err := glow.RegisterBackend(b); err != nil {
		return nil, err
	}
	v := &Viewer{
		presets:        presets,
		name:           name,
		size:           size,
		backend:        b,
		camera:         render.DefaultCamera(),
		glowShader:     compileShader("glow", glowShaderSource),
		dissolveShader: compileShader("dissolve", dissolveShaderSource),
	}
	v.reset()
	return v, nil
}

func (v *Viewer) reset() {
	g, err := v.presets.GlowParams(v.name)
	if err != nil {
		g = glow.DefaultGlowParameters()
	}
	p, err := v.presets.PortalParams(v.name)
	if err != nil {
		p = glow.DefaultPortalDissolveParameters()
	}
	mode := modeGlow
	if v.state != nil {
		mode = v.state.mode
	}
	v.state = newState(g, p)
	v.state.mode = mode
	v.upload()
}

// upload hands the current parameters to the backend.
func (v *Viewer) upload() {
	if err := v.backend.SetGlow(v.state.glow); err != nil {
		glow.Logger().Warn("glowview: glow rejected", "err", err)
	}
	if err := v.backend.SetDissolve(v.state.portal); err != nil {
		glow.Logger().Warn("glowview: dissolve rejected", "err", err)
	}
}

// Update handles keyboard input.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	s := v.state
	changed := false
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		s.toggleMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		s.moveSelection(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		s.moveSelection(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.cycleColor()
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.animating = !s.animating
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.reset()
		return nil
	}

	step := float32(1)
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		step = 0.2
	}
	if repeat(ebiten.KeyLeft) {
		s.nudge(-step)
		changed = true
	}
	if repeat(ebiten.KeyRight) {
		s.nudge(step)
		changed = true
	}

	if s.animating {
		s.advance(1 / float32(ebiten.TPS()) / 2)
		changed = true
	}
	if changed {
		v.upload()
	}
	return nil
}

// repeat reports a key press on the first tick and then every 3 ticks after
// a short delay.
func repeat(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > 15 && d%3 == 0)
}

// Draw renders the active effect and the HUD.
func (v *Viewer) Draw(screen *ebiten.Image) {
	bg := render.DefaultOptions().Background
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	shader, uniforms, base := v.effect()
	if shader == nil {
		v.drawUnlit(screen, base, bg)
	} else {
		uniforms["CameraZ"] = v.camera.Position.Length()
		uniforms["TanHalfFOV"] = math32.Tan(v.camera.FOV * math32.Pi / 360)
		uniforms["Background"] = []float32{bg.R, bg.G, bg.B}
		screen.DrawRectShader(w, h, shader, &ebiten.DrawRectShaderOptions{Uniforms: uniforms})
	}

	ebitenutil.DebugPrint(screen, strings.Join(v.state.lines(), "\n"))
}

// effect returns the shader and uniforms for the active mode, plus the base
// color an unlit fallback uses.
func (v *Viewer) effect() (*ebiten.Shader, map[string]any, glow.RGBA) {
	if v.state.mode == modePortal {
		p := v.backend.Dissolve()
		return v.dissolveShader, map[string]any{
			"PortalColor": rgba(p.PortalColor),
			"Progress":    p.DissolveProgress,
			"NoiseScale":  p.NoiseScale,
			"EdgeWidth":   p.EdgeWidth,
			"Octaves":     float32(glow.DefaultOctaves),
		}, p.PortalColor
	}
	p := v.backend.Glow()
	return v.glowShader, map[string]any{
		"GlowColor": rgba(p.Color),
		"Intensity": p.Intensity,
		"Radius":    p.Radius,
		"Falloff":   p.Falloff,
	}, p.Color
}

// drawUnlit fills the sphere's silhouette with a flat color.
func (v *Viewer) drawUnlit(screen *ebiten.Image, base, bg glow.RGBA) {
	screen.Fill(encode(bg))
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	d := v.camera.Position.Length()
	tanHalf := math32.Tan(v.camera.FOV * math32.Pi / 360)
	r := h / 2 / math32.Sqrt(d*d-1) / tanHalf
	c := glow.UnlitModel{Color: base}.Shade(glow.SurfaceSample{}).Color
	vector.DrawFilledCircle(screen, w/2, h/2, r, encode(c), true)
}

func encode(c glow.RGBA) color.NRGBA {
	return icolor.Encode(c.R, c.G, c.B, c.A, icolor.Reinhard)
}

func rgba(c glow.RGBA) []float32 {
	return []float32{c.R, c.G, c.B, c.A}
}

// Layout keeps the logical screen at the configured size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.size, v.size
}
