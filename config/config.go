// Package config loads named glow and portal parameter presets from YAML.
//
// A preset file looks like:
//
//	glow:
//	  ember:
//	    intensity: 3
//	    color: "#ff6a00"
//	    falloff: 2
//	portal:
//	  half:
//	    dissolve_progress: 0.5
//	    portal_color: [0, 0.5, 1, 1]
//
// Omitted fields keep their defaults. Every preset is validated as written,
// so a negative falloff or a NaN is an error rather than a silent repair.
// Valid values beyond the interactive control ranges (glow.GlowRanges,
// glow.DissolveRanges) are then clamped to them, so a file that loads is
// safe to hand to any backend.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/glow"
)

// ErrUnknownPreset is returned by lookups for a name the file does not
// define.
var ErrUnknownPreset = errors.New("config: unknown preset")

// File is a set of named presets.
type File struct {
	Glow   map[string]GlowPreset   `yaml:"glow,omitempty"`
	Portal map[string]PortalPreset `yaml:"portal,omitempty"`
}

// GlowPreset is the YAML form of glow.GlowParameters. Nil fields fall back
// to glow.DefaultGlowParameters.
type GlowPreset struct {
	Intensity *float32 `yaml:"intensity,omitempty"`
	Color     *Color   `yaml:"color,omitempty"`
	Radius    *float32 `yaml:"radius,omitempty"`
	Falloff   *float32 `yaml:"falloff,omitempty"`
}

// PortalPreset is the YAML form of glow.PortalDissolveParameters.
type PortalPreset struct {
	DissolveProgress *float32 `yaml:"dissolve_progress,omitempty"`
	PortalColor      *Color   `yaml:"portal_color,omitempty"`
	NoiseScale       *float32 `yaml:"noise_scale,omitempty"`
	EdgeWidth        *float32 `yaml:"edge_width,omitempty"`
}

// Params returns the preset's parameters clamped to glow.GlowRanges.
func (p GlowPreset) Params() glow.GlowParameters {
	return p.raw().Clamp()
}

// raw applies the preset over the defaults without clamping.
func (p GlowPreset) raw() glow.GlowParameters {
	out := glow.DefaultGlowParameters()
	if p.Intensity != nil {
		out = out.WithIntensity(*p.Intensity)
	}
	if p.Color != nil {
		out = out.WithColor(glow.RGBA(*p.Color))
	}
	if p.Radius != nil {
		out = out.WithRadius(*p.Radius)
	}
	if p.Falloff != nil {
		out = out.WithFalloff(*p.Falloff)
	}
	return out
}

// Params returns the preset's parameters clamped to glow.DissolveRanges.
func (p PortalPreset) Params() glow.PortalDissolveParameters {
	return p.raw().Clamp()
}

func (p PortalPreset) raw() glow.PortalDissolveParameters {
	out := glow.DefaultPortalDissolveParameters()
	if p.DissolveProgress != nil {
		out = out.WithProgress(*p.DissolveProgress)
	}
	if p.PortalColor != nil {
		out = out.WithPortalColor(glow.RGBA(*p.PortalColor))
	}
	if p.NoiseScale != nil {
		out = out.WithNoiseScale(*p.NoiseScale)
	}
	if p.EdgeWidth != nil {
		out = out.WithEdgeWidth(*p.EdgeWidth)
	}
	return out
}

// FromGlow converts parameters into a fully specified preset.
func FromGlow(p glow.GlowParameters) GlowPreset {
	c := Color(p.Color)
	return GlowPreset{Intensity: &p.Intensity, Color: &c, Radius: &p.Radius, Falloff: &p.Falloff}
}

// FromPortal converts parameters into a fully specified preset.
func FromPortal(p glow.PortalDissolveParameters) PortalPreset {
	c := Color(p.PortalColor)
	return PortalPreset{
		DissolveProgress: &p.DissolveProgress,
		PortalColor:      &c,
		NoiseScale:       &p.NoiseScale,
		EdgeWidth:        &p.EdgeWidth,
	}
}

// Load reads and validates a preset file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	glow.Logger().Debug("config: presets loaded", "path", path,
		"glow", len(f.Glow), "portal", len(f.Portal))
	return f, nil
}

// Parse decodes and validates preset YAML. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every preset as written, before any clamping.
func (f *File) Validate() error {
	for _, name := range sortedKeys(f.Glow) {
		if err := f.Glow[name].raw().Validate(); err != nil {
			return fmt.Errorf("glow preset %q: %w", name, err)
		}
	}
	for _, name := range sortedKeys(f.Portal) {
		if err := f.Portal[name].raw().Validate(); err != nil {
			return fmt.Errorf("portal preset %q: %w", name, err)
		}
	}
	return nil
}

// GlowParams returns the named glow preset's parameters.
func (f *File) GlowParams(name string) (glow.GlowParameters, error) {
	p, ok := f.Glow[name]
	if !ok {
		return glow.GlowParameters{}, fmt.Errorf("%w: glow %q", ErrUnknownPreset, name)
	}
	return p.Params(), nil
}

// PortalParams returns the named portal preset's parameters.
func (f *File) PortalParams(name string) (glow.PortalDissolveParameters, error) {
	p, ok := f.Portal[name]
	if !ok {
		return glow.PortalDissolveParameters{}, fmt.Errorf("%w: portal %q", ErrUnknownPreset, name)
	}
	return p.Params(), nil
}

// GlowNames returns the glow preset names in sorted order.
func (f *File) GlowNames() []string {
	return sortedKeys(f.Glow)
}

// PortalNames returns the portal preset names in sorted order.
func (f *File) PortalNames() []string {
	return sortedKeys(f.Portal)
}

// Marshal encodes the file as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Save writes the file as YAML to path.
func (f *File) Save(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // preset files are not secret
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Default returns a file holding the default glow and portal parameters
// under the name "default".
func Default() *File {
	return &File{
		Glow:   map[string]GlowPreset{"default": FromGlow(glow.DefaultGlowParameters())},
		Portal: map[string]PortalPreset{"default": FromPortal(glow.DefaultPortalDissolveParameters())},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
