package glow

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// SoftwareBackend is the CPU material backend. It keeps the latest
// parameter snapshots and hands out ShadingModels built from them.
//
// Snapshots are swapped atomically, so a renderer reading GlowModel while
// the host calls SetGlow always sees one complete parameter record.
type SoftwareBackend struct {
	glow     atomic.Pointer[GlowParameters]
	dissolve atomic.Pointer[PortalDissolveParameters]
	logger   atomic.Pointer[slog.Logger]

	// Octaves is passed to every DissolveModel this backend builds.
	Octaves int
}

var _ MaterialBackend = (*SoftwareBackend)(nil)

// NewSoftwareBackend creates a software backend holding the default
// parameters.
func NewSoftwareBackend() *SoftwareBackend {
	b := &SoftwareBackend{}
	g := DefaultGlowParameters()
	d := DefaultPortalDissolveParameters()
	b.glow.Store(&g)
	b.dissolve.Store(&d)
	return b
}

// Name implements MaterialBackend.
func (b *SoftwareBackend) Name() string { return "software" }

// Init implements MaterialBackend. The software backend has nothing to
// build, but a zero-value SoftwareBackend gets its default snapshots here.
func (b *SoftwareBackend) Init() error {
	if b.glow.Load() == nil {
		g := DefaultGlowParameters()
		b.glow.Store(&g)
	}
	if b.dissolve.Load() == nil {
		d := DefaultPortalDissolveParameters()
		b.dissolve.Store(&d)
	}
	return nil
}

// Close implements MaterialBackend.
func (b *SoftwareBackend) Close() {}

// SetLogger sets the logger used for parameter upload diagnostics.
func (b *SoftwareBackend) SetLogger(l *slog.Logger) {
	b.logger.Store(l)
}

func (b *SoftwareBackend) log() *slog.Logger {
	if l := b.logger.Load(); l != nil {
		return l
	}
	return Logger()
}

// SetGlow implements MaterialBackend. Invalid parameters are rejected and
// the previous snapshot is kept.
func (b *SoftwareBackend) SetGlow(p GlowParameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("software: set glow: %w", err)
	}
	b.glow.Store(&p)
	b.log().Debug("glow: software glow parameters updated",
		"intensity", p.Intensity, "radius", p.Radius, "falloff", p.Falloff)
	return nil
}

// SetDissolve implements MaterialBackend. Invalid parameters are rejected
// and the previous snapshot is kept.
func (b *SoftwareBackend) SetDissolve(p PortalDissolveParameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("software: set dissolve: %w", err)
	}
	b.dissolve.Store(&p)
	b.log().Debug("glow: software dissolve parameters updated",
		"progress", p.DissolveProgress, "noise_scale", p.NoiseScale, "edge_width", p.EdgeWidth)
	return nil
}

// Glow returns the current glow snapshot.
func (b *SoftwareBackend) Glow() GlowParameters {
	if p := b.glow.Load(); p != nil {
		return *p
	}
	return DefaultGlowParameters()
}

// Dissolve returns the current dissolve snapshot.
func (b *SoftwareBackend) Dissolve() PortalDissolveParameters {
	if p := b.dissolve.Load(); p != nil {
		return *p
	}
	return DefaultPortalDissolveParameters()
}

// GlowModel returns a ShadingModel bound to the current glow snapshot.
func (b *SoftwareBackend) GlowModel() ShadingModel {
	return GlowModel{Params: b.Glow()}
}

// DissolveModel returns a ShadingModel bound to the current dissolve snapshot.
func (b *SoftwareBackend) DissolveModel() ShadingModel {
	return DissolveModel{Params: b.Dissolve(), Octaves: b.Octaves}
}
