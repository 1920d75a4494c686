package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glow"
)

func TestLoadTestdata(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "presets.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"default", "ember", "ice", "overdriven"}, f.GlowNames())
	assert.Equal(t, []string{"default", "ember_gate", "half"}, f.PortalNames())

	def, err := f.GlowParams("default")
	require.NoError(t, err)
	assert.Equal(t, glow.DefaultGlowParameters(), def)

	ember, err := f.GlowParams("ember")
	require.NoError(t, err)
	assert.Equal(t, float32(3), ember.Intensity)
	assert.Equal(t, float32(2), ember.Falloff)
	assert.Equal(t, float32(1), ember.Radius, "omitted field keeps default")
	assert.True(t, ember.Color.Approx(glow.RGB(1, 0x6a/255.0, 0), 1e-6), "color = %v", ember.Color)

	ice, err := f.GlowParams("ice")
	require.NoError(t, err)
	assert.Equal(t, glow.RGBA2(0.4, 0.8, 1, 1), ice.Color)

	half, err := f.PortalParams("half")
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), half.DissolveProgress)
	assert.Equal(t, float32(4), half.NoiseScale)
	assert.Equal(t, glow.DefaultPortalDissolveParameters().PortalColor, half.PortalColor)
}

func TestPresetsClampToControlRanges(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "presets.yaml"))
	require.NoError(t, err)

	p, err := f.GlowParams("overdriven")
	require.NoError(t, err)
	assert.Equal(t, glow.GlowRanges.Intensity.Max, p.Intensity)
	assert.Equal(t, glow.GlowRanges.Radius.Min, p.Radius)
	require.NoError(t, p.Validate())
}

func TestUnknownPreset(t *testing.T) {
	f := Default()

	_, err := f.GlowParams("missing")
	require.ErrorIs(t, err, ErrUnknownPreset)
	_, err = f.PortalParams("missing")
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "glow:\n  a:\n    brightness: 2\n"},
		{"bad hex", "glow:\n  a:\n    color: \"#zz0000\"\n"},
		{"short color", "glow:\n  a:\n    color: [1, 0]\n"},
		{"mapping color", "glow:\n  a:\n    color: {r: 1}\n"},
		{"nan color", "portal:\n  a:\n    portal_color: [.nan, 0, 0]\n"},
		{"not yaml", "glow: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"nan falloff", "glow:\n  a:\n    falloff: .nan\n", glow.ErrInvalidFalloff},
		{"negative falloff", "glow:\n  a:\n    falloff: -1\n", glow.ErrInvalidFalloff},
		{"zero falloff", "glow:\n  a:\n    falloff: 0\n", glow.ErrInvalidFalloff},
		{"negative radius", "glow:\n  a:\n    radius: -2\n", glow.ErrInvalidRadius},
		{"negative intensity", "glow:\n  a:\n    intensity: -0.5\n", glow.ErrInvalidIntensity},
		{"infinite intensity", "glow:\n  a:\n    intensity: .inf\n", glow.ErrInvalidIntensity},
		{"progress above one", "portal:\n  a:\n    dissolve_progress: 1.5\n", glow.ErrInvalidProgress},
		{"zero noise scale", "portal:\n  a:\n    noise_scale: 0\n", glow.ErrInvalidNoiseScale},
		{"negative edge width", "portal:\n  a:\n    edge_width: -0.1\n", glow.ErrInvalidEdgeWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), `preset "a"`)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.GlowNames())
	assert.Empty(t, f.PortalNames())
}

func TestRoundTrip(t *testing.T) {
	custom := glow.DefaultGlowParameters().WithColor(glow.RGBA2(0.25, 0.5, 0.75, 0.5)).WithFalloff(1.5)
	f := Default()
	f.Glow["custom"] = FromGlow(custom)

	data, err := f.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)

	got, err := back.GlowParams("custom")
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	portal, err := back.PortalParams("default")
	require.NoError(t, err)
	assert.Equal(t, glow.DefaultPortalDissolveParameters(), portal)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, Default().Save(path))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, f.GlowNames())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
