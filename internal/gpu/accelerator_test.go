//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/glow"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// halProvider hands a noop device to SetDeviceProvider.
type halProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p halProvider) HalDevice() any { return p.device }
func (p halProvider) HalQueue() any  { return p.queue }

func newNoopAccelerator(t *testing.T) (*MaterialAccelerator, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	a := NewMaterialAccelerator()
	if err := a.SetDeviceProvider(halProvider{device: device, queue: queue}); err != nil {
		cleanup()
		t.Fatalf("SetDeviceProvider failed: %v", err)
	}
	return a, func() {
		a.Close()
		cleanup()
	}
}

func readFloat(buf []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
}

func TestShaderSources(t *testing.T) {
	for e := range effectCount {
		src, err := ShaderSource(e)
		if err != nil {
			t.Fatalf("ShaderSource(%v) failed: %v", e, err)
		}
		if !strings.Contains(src, "fn vs_main") || !strings.Contains(src, "fn fs_main") {
			t.Errorf("%v source missing an entry point", e)
		}
	}
	if _, err := ShaderSource(Effect(42)); err == nil {
		t.Error("expected error for unknown effect")
	}
}

func TestShaderCompilation(t *testing.T) {
	for e := range effectCount {
		t.Run(e.String(), func(t *testing.T) {
			src, err := ShaderSource(e)
			if err != nil {
				t.Fatal(err)
			}
			spirv, err := naga.Compile(src)
			if err != nil {
				t.Fatalf("naga.Compile failed: %v", err)
			}
			if len(spirv) < 20 {
				t.Fatalf("SPIR-V too short: %d bytes", len(spirv))
			}
			if magic := binary.LittleEndian.Uint32(spirv[0:4]); magic != 0x07230203 {
				t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x07230203", magic)
			}
		})
	}
}

func TestEffectString(t *testing.T) {
	tests := map[Effect]string{
		EffectGlow:     "glow",
		EffectDissolve: "dissolve",
		EffectUnlit:    "unlit",
		Effect(9):      "Effect(9)",
	}
	for e, want := range tests {
		if got := e.String(); got != want {
			t.Errorf("Effect(%d).String() = %q, want %q", int(e), got, want)
		}
	}
}

func TestPackGlowUniforms(t *testing.T) {
	buf := PackGlowUniforms(glow.DefaultGlowParameters())
	if len(buf) != glowUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), glowUniformSize)
	}
	want := []float32{1, 0.5, 0, 1, 2, 1, 3, 0}
	for i, w := range want {
		if got := readFloat(buf, i); got != w {
			t.Errorf("field %d = %v, want %v", i, got, w)
		}
	}
}

func TestPackDissolveUniforms(t *testing.T) {
	p := glow.DefaultPortalDissolveParameters().WithProgress(0.25)
	buf := PackDissolveUniforms(p, 4)
	if len(buf) != dissolveUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), dissolveUniformSize)
	}
	want := []float32{0, 0.5, 1, 1, 0.25, 1, 0.1, 4}
	for i, w := range want {
		if got := readFloat(buf, i); got != w {
			t.Errorf("field %d = %v, want %v", i, got, w)
		}
	}
	if got := readFloat(PackDissolveUniforms(p, -3), 7); got != 0 {
		t.Errorf("negative octaves packed as %v, want 0", got)
	}
}

func TestPackFrameUniforms(t *testing.T) {
	f := DefaultFrameUniforms(200, 100)
	buf := PackFrameUniforms(f)
	if len(buf) != frameUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), frameUniformSize)
	}
	if got := readFloat(buf, 2); got != 3 {
		t.Errorf("camera z = %v, want 3", got)
	}
	if got := readFloat(buf, 3); math.Abs(float64(got)-math.Tan(22.5*math.Pi/180)) > 1e-5 {
		t.Errorf("tan(fov/2) = %v", got)
	}
	if got := readFloat(buf, 6); got != 2 {
		t.Errorf("aspect = %v, want 2", got)
	}
	if got := readFloat(buf, 11); got != 1 {
		t.Errorf("tone map flag = %v, want 1", got)
	}
	if got := len(PackUnlitUniforms(glow.White)); got != unlitUniformSize {
		t.Errorf("unlit len = %d, want %d", got, unlitUniformSize)
	}
}

func TestEffectPipelineBuildAndDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewEffectPipeline(device, queue, EffectGlow)
	if p.Ready() {
		t.Fatal("pipeline ready before Build")
	}
	if err := p.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !p.Ready() {
		t.Fatal("pipeline not ready after Build")
	}
	if p.res.ShaderModule == nil || p.res.PipelineLayout == nil || len(p.res.BindLayouts) != 1 {
		t.Error("expected shader, pipeline layout and one bind group layout")
	}

	p.Destroy()
	if p.Ready() || p.res.ShaderModule != nil {
		t.Error("resources left after Destroy")
	}
	p.Destroy()
}

func TestEffectPipelineRender(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewEffectPipeline(device, queue, EffectDissolve)
	defer p.Destroy()

	img, err := p.Render(DefaultFrameUniforms(64, 32), PackDissolveUniforms(glow.DefaultPortalDissolveParameters(), 0))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("image size = %v, want 64x32", b)
	}
	if w, h := p.Size(); w != 64 || h != 32 {
		t.Errorf("texture size = (%d, %d), want (64, 32)", w, h)
	}

	if _, err := p.Render(DefaultFrameUniforms(0, 32), nil); err == nil {
		t.Error("expected error for empty frame")
	}
}

func TestEffectPipelineRenderUnalignedWidth(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewEffectPipeline(device, queue, EffectGlow)
	defer p.Destroy()

	// 50*4 = 200 bytes per row, padded to 256 in the staging buffer.
	img, err := p.Render(DefaultFrameUniforms(50, 20), PackGlowUniforms(glow.DefaultGlowParameters()))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 20 {
		t.Errorf("image size = %v, want 50x20", b)
	}
	if img.Stride != 50*4 {
		t.Errorf("stride = %d, want %d", img.Stride, 50*4)
	}
}

func TestAlignedBytesPerRow(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{4, 256},
		{200, 256},
		{256, 256},
		{257, 512},
		{1024, 1024},
	}
	for _, tt := range tests {
		if got := alignedBytesPerRow(tt.in); got != tt.want {
			t.Errorf("alignedBytesPerRow(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUnpadRows(t *testing.T) {
	// Two rows of 3 bytes with a pitch of 5.
	src := []byte{1, 2, 3, 0xee, 0xee, 4, 5, 6, 0xee, 0xee}
	dst := make([]byte, 6)
	unpadRows(dst, src, 3, 5, 2)
	want := []byte{1, 2, 3, 4, 5, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("unpadRows = %v, want %v", dst, want)
		}
	}

	tight := make([]byte, 6)
	unpadRows(tight, want, 3, 3, 2)
	for i := range want {
		if tight[i] != want[i] {
			t.Fatalf("unpadRows without padding = %v, want %v", tight, want)
		}
	}
}

func TestMaterialAcceleratorSharedDevice(t *testing.T) {
	a, cleanup := newNoopAccelerator(t)
	defer cleanup()

	for e := range effectCount {
		if !a.Available(e) {
			t.Errorf("%v not available", e)
		}
	}
	if err := a.SetGlow(glow.DefaultGlowParameters().WithIntensity(4)); err != nil {
		t.Errorf("SetGlow failed: %v", err)
	}
	if err := a.SetDissolve(glow.DefaultPortalDissolveParameters().WithProgress(0.5)); err != nil {
		t.Errorf("SetDissolve failed: %v", err)
	}

	img, err := a.Render(EffectGlow, DefaultFrameUniforms(16, 16))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("width = %d, want 16", img.Bounds().Dx())
	}
}

func TestMaterialAcceleratorRejectsInvalidParameters(t *testing.T) {
	a, cleanup := newNoopAccelerator(t)
	defer cleanup()

	err := a.SetGlow(glow.DefaultGlowParameters().WithFalloff(0))
	if !errors.Is(err, glow.ErrInvalidFalloff) {
		t.Errorf("SetGlow(falloff 0) = %v, want ErrInvalidFalloff", err)
	}
	err = a.SetDissolve(glow.DefaultPortalDissolveParameters().WithProgress(2))
	if !errors.Is(err, glow.ErrInvalidProgress) {
		t.Errorf("SetDissolve(progress 2) = %v, want ErrInvalidProgress", err)
	}
}

func TestMaterialAcceleratorFallsBackToUnlit(t *testing.T) {
	saved := glowEffectSource
	glowEffectSource = "@fragment fn fs_main( -> broken"
	defer func() { glowEffectSource = saved }()

	a, cleanup := newNoopAccelerator(t)
	defer cleanup()

	if a.Available(EffectGlow) {
		t.Fatal("glow pipeline built from broken source")
	}
	if !a.Available(EffectUnlit) || !a.Available(EffectDissolve) {
		t.Fatal("unrelated pipelines should still build")
	}

	err := a.SetGlow(glow.DefaultGlowParameters())
	if !errors.Is(err, glow.ErrFallbackToUnlit) {
		t.Errorf("SetGlow = %v, want ErrFallbackToUnlit", err)
	}
	if _, err := a.Render(EffectGlow, DefaultFrameUniforms(8, 8)); err != nil {
		t.Errorf("Render should fall back to unlit, got %v", err)
	}
}

func TestMaterialAcceleratorNoDevice(t *testing.T) {
	a := NewMaterialAccelerator()
	if _, err := a.Render(EffectGlow, DefaultFrameUniforms(8, 8)); !errors.Is(err, ErrNotReady) {
		t.Errorf("Render without device = %v, want ErrNotReady", err)
	}
	if err := a.SetDeviceProvider(struct{}{}); err == nil {
		t.Error("expected error for provider without HAL types")
	}
	a.Close()
}

func TestMaterialAcceleratorName(t *testing.T) {
	if got := NewMaterialAccelerator().Name(); got != "wgpu" {
		t.Errorf("Name() = %q, want wgpu", got)
	}
}
