package main

import (
	"fmt"

	"github.com/gogpu/glow"
)

type mode int

const (
	modeGlow mode = iota
	modePortal
)

func (m mode) String() string {
	if m == modePortal {
		return "portal"
	}
	return "glow"
}

// stepsPerRange is how many coarse steps cross a control's full range.
const stepsPerRange = 50

type glowControl struct {
	label string
	rng   glow.Range
	get   func(glow.GlowParameters) float32
	set   func(glow.GlowParameters, float32) glow.GlowParameters
}

type portalControl struct {
	label string
	rng   glow.Range
	get   func(glow.PortalDissolveParameters) float32
	set   func(glow.PortalDissolveParameters, float32) glow.PortalDissolveParameters
}

var glowControls = []glowControl{
	{"intensity", glow.GlowRanges.Intensity,
		func(p glow.GlowParameters) float32 { return p.Intensity }, glow.GlowParameters.WithIntensity},
	{"radius", glow.GlowRanges.Radius,
		func(p glow.GlowParameters) float32 { return p.Radius }, glow.GlowParameters.WithRadius},
	{"falloff", glow.GlowRanges.Falloff,
		func(p glow.GlowParameters) float32 { return p.Falloff }, glow.GlowParameters.WithFalloff},
}

var portalControls = []portalControl{
	{"progress", glow.DissolveRanges.Progress,
		func(p glow.PortalDissolveParameters) float32 { return p.DissolveProgress }, glow.PortalDissolveParameters.WithProgress},
	{"noise scale", glow.DissolveRanges.NoiseScale,
		func(p glow.PortalDissolveParameters) float32 { return p.NoiseScale }, glow.PortalDissolveParameters.WithNoiseScale},
	{"edge width", glow.DissolveRanges.EdgeWidth,
		func(p glow.PortalDissolveParameters) float32 { return p.EdgeWidth }, glow.PortalDissolveParameters.WithEdgeWidth},
}

var palette = []glow.RGBA{
	glow.Orange,
	glow.PortalBlue,
	glow.White,
	glow.RGB(0.2, 1, 0.4),
	glow.RGB(1, 0.2, 0.6),
}

// state is the viewer's editable parameter set. Every edit replaces the
// parameter value with a new, clamped one.
type state struct {
	mode     mode
	selected int

	glow   glow.GlowParameters
	portal glow.PortalDissolveParameters

	colorIndex int

	animating bool
	direction float32
}

func newState(g glow.GlowParameters, p glow.PortalDissolveParameters) *state {
	return &state{glow: g.Clamp(), portal: p.Clamp(), direction: 1}
}

func (s *state) controlCount() int {
	if s.mode == modePortal {
		return len(portalControls)
	}
	return len(glowControls)
}

func (s *state) toggleMode() {
	if s.mode == modeGlow {
		s.mode = modePortal
	} else {
		s.mode = modeGlow
	}
	s.selected = 0
}

// moveSelection moves the selected control by d, wrapping around.
func (s *state) moveSelection(d int) {
	n := s.controlCount()
	s.selected = ((s.selected+d)%n + n) % n
}

// nudge moves the selected control by steps coarse steps.
func (s *state) nudge(steps float32) {
	if s.mode == modePortal {
		c := portalControls[s.selected]
		v := c.get(s.portal) + steps*(c.rng.Max-c.rng.Min)/stepsPerRange
		s.portal = c.set(s.portal, c.rng.Clamp(v))
		return
	}
	c := glowControls[s.selected]
	v := c.get(s.glow) + steps*(c.rng.Max-c.rng.Min)/stepsPerRange
	s.glow = c.set(s.glow, c.rng.Clamp(v))
}

// cycleColor replaces the active effect's color with the next palette
// entry.
func (s *state) cycleColor() {
	s.colorIndex = (s.colorIndex + 1) % len(palette)
	c := palette[s.colorIndex]
	if s.mode == modePortal {
		s.portal = s.portal.WithPortalColor(c)
	} else {
		s.glow = s.glow.WithColor(c)
	}
}

// advance moves the dissolve progress by dt, bouncing between 0 and 1.
func (s *state) advance(dt float32) {
	if !s.animating {
		return
	}
	rng := glow.DissolveRanges.Progress
	v := s.portal.DissolveProgress + s.direction*dt
	if v >= rng.Max || v <= rng.Min {
		s.direction = -s.direction
	}
	s.portal = s.portal.WithProgress(rng.Clamp(v))
}

// lines returns the HUD text.
func (s *state) lines() []string {
	out := []string{fmt.Sprintf("mode: %s (Tab)", s.mode)}
	add := func(i int, label string, v float32) {
		marker := "  "
		if i == s.selected {
			marker = "> "
		}
		out = append(out, fmt.Sprintf("%s%-12s %.3f", marker, label, v))
	}
	if s.mode == modePortal {
		for i, c := range portalControls {
			add(i, c.label, c.get(s.portal))
		}
		out = append(out, "  color        "+formatColor(s.portal.PortalColor)+" (C)")
	} else {
		for i, c := range glowControls {
			add(i, c.label, c.get(s.glow))
		}
		out = append(out, "  color        "+formatColor(s.glow.Color)+" (C)")
	}
	return out
}

func formatColor(c glow.RGBA) string {
	return fmt.Sprintf("%.2f %.2f %.2f %.2f", c.R, c.G, c.B, c.A)
}
