package main

import (
	"testing"

	"github.com/gogpu/glow"
)

func TestStateNudgeClampsToRange(t *testing.T) {
	s := newState(glow.DefaultGlowParameters(), glow.DefaultPortalDissolveParameters())

	for range 2 * stepsPerRange {
		s.nudge(1)
	}
	if got, want := s.glow.Intensity, glow.GlowRanges.Intensity.Max; got != want {
		t.Errorf("intensity = %v, want %v", got, want)
	}

	s.moveSelection(2)
	for range 2 * stepsPerRange {
		s.nudge(-1)
	}
	if got, want := s.glow.Falloff, glow.GlowRanges.Falloff.Min; got != want {
		t.Errorf("falloff = %v, want %v", got, want)
	}
	if err := s.glow.Validate(); err != nil {
		t.Errorf("clamped parameters invalid: %v", err)
	}
}

func TestStateNudgeStep(t *testing.T) {
	s := newState(glow.DefaultGlowParameters(), glow.DefaultPortalDissolveParameters())
	s.toggleMode()
	s.nudge(1)

	want := glow.DissolveRanges.Progress.Max / stepsPerRange
	if got := s.portal.DissolveProgress; got != want {
		t.Errorf("progress = %v, want %v", got, want)
	}
	if s.glow != glow.DefaultGlowParameters() {
		t.Error("portal edit changed glow parameters")
	}
}

func TestStateSelectionWraps(t *testing.T) {
	s := newState(glow.DefaultGlowParameters(), glow.DefaultPortalDissolveParameters())

	s.moveSelection(-1)
	if s.selected != len(glowControls)-1 {
		t.Errorf("selected = %d, want %d", s.selected, len(glowControls)-1)
	}
	s.moveSelection(1)
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}

	s.moveSelection(1)
	s.toggleMode()
	if s.mode != modePortal || s.selected != 0 {
		t.Errorf("after toggle mode = %v selected = %d", s.mode, s.selected)
	}
}

func TestStateCycleColor(t *testing.T) {
	s := newState(glow.DefaultGlowParameters(), glow.DefaultPortalDissolveParameters())

	s.cycleColor()
	if s.glow.Color != palette[1] {
		t.Errorf("glow color = %v, want %v", s.glow.Color, palette[1])
	}
	if s.portal.PortalColor != glow.DefaultPortalDissolveParameters().PortalColor {
		t.Error("glow color edit changed portal color")
	}
}

func TestStateAdvanceBounces(t *testing.T) {
	s := newState(glow.DefaultGlowParameters(), glow.DefaultPortalDissolveParameters())

	s.advance(0.5)
	if s.portal.DissolveProgress != 0 {
		t.Fatal("advance moved progress while not animating")
	}

	s.animating = true
	for range 10 {
		s.advance(0.25)
		if p := s.portal.DissolveProgress; p < 0 || p > 1 {
			t.Fatalf("progress %v out of range", p)
		}
	}
	if s.direction != -1 && s.direction != 1 {
		t.Errorf("direction = %v", s.direction)
	}
}

func TestStateLines(t *testing.T) {
	s := newState(glow.DefaultGlowParameters(), glow.DefaultPortalDissolveParameters())
	if got, want := len(s.lines()), len(glowControls)+2; got != want {
		t.Errorf("glow HUD lines = %d, want %d", got, want)
	}
	s.toggleMode()
	if got, want := len(s.lines()), len(portalControls)+2; got != want {
		t.Errorf("portal HUD lines = %d, want %d", got, want)
	}
}
