//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glow"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNotReady is returned when rendering before a device is available.
var ErrNotReady = errors.New("gpu: no device")

// MaterialAccelerator is the WebGPU material backend. It implements
// glow.MaterialBackend.
//
// Init opens a Vulkan device and builds one pipeline per effect. A pipeline
// whose shader fails to build is left out; the effect then renders with the
// unlit pipeline in the effect's base color and SetGlow / SetDissolve
// report glow.ErrFallbackToUnlit.
type MaterialAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	pipelines [effectCount]*EffectPipeline

	glow     glow.GlowParameters
	dissolve glow.PortalDissolveParameters

	// Octaves is passed to the dissolve shader; below 2 selects plain
	// value noise.
	Octaves int

	externalDevice bool
}

var _ glow.MaterialBackend = (*MaterialAccelerator)(nil)

// NewMaterialAccelerator creates an accelerator holding the default
// parameters. No GPU work happens until Init or SetDeviceProvider.
func NewMaterialAccelerator() *MaterialAccelerator {
	return &MaterialAccelerator{
		glow:     glow.DefaultGlowParameters(),
		dissolve: glow.DefaultPortalDissolveParameters(),
	}
}

// Name implements glow.MaterialBackend.
func (a *MaterialAccelerator) Name() string { return "wgpu" }

// Init implements glow.MaterialBackend. It fails when no GPU device can
// be opened; the host then keeps the software backend.
func (a *MaterialAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.device != nil {
		return nil
	}
	if err := a.initGPU(); err != nil {
		a.releaseDevice()
		return fmt.Errorf("wgpu: %w", err)
	}
	return nil
}

// Close implements glow.MaterialBackend.
func (a *MaterialAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseDevice()
}

// SetLogger receives the logger from glow.SetLogger.
func (a *MaterialAccelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// SetDeviceProvider switches the accelerator to a GPU device shared by the
// host. The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
func (a *MaterialAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseDevice()
	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.buildPipelines(); err != nil {
		a.releaseDevice()
		return fmt.Errorf("wgpu: build pipelines with shared device: %w", err)
	}
	slogger().Info("wgpu: switched to shared GPU device")
	return nil
}

// SetGlow implements glow.MaterialBackend. The snapshot is stored even when
// the glow program is unavailable, so the unlit fallback uses its color.
func (a *MaterialAccelerator) SetGlow(p glow.GlowParameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("wgpu: set glow: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.glow = p
	if !a.readyLocked(EffectGlow) {
		return fmt.Errorf("wgpu: glow: %w", glow.ErrFallbackToUnlit)
	}
	return nil
}

// SetDissolve implements glow.MaterialBackend.
func (a *MaterialAccelerator) SetDissolve(p glow.PortalDissolveParameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("wgpu: set dissolve: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dissolve = p
	if !a.readyLocked(EffectDissolve) {
		return fmt.Errorf("wgpu: dissolve: %w", glow.ErrFallbackToUnlit)
	}
	return nil
}

// Available reports whether an effect has a working pipeline.
func (a *MaterialAccelerator) Available(e Effect) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.readyLocked(e)
}

func (a *MaterialAccelerator) readyLocked(e Effect) bool {
	if e < 0 || e >= effectCount {
		return false
	}
	p := a.pipelines[e]
	return p != nil && p.Ready()
}

// Render draws one frame of an effect with the current snapshot. An
// effect without a pipeline renders unlit in its base color.
func (a *MaterialAccelerator) Render(e Effect, frame FrameUniforms) (*image.NRGBA, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.device == nil {
		return nil, ErrNotReady
	}

	var params []byte
	switch e {
	case EffectGlow:
		params = PackGlowUniforms(a.glow)
	case EffectDissolve:
		params = PackDissolveUniforms(a.dissolve, a.Octaves)
	case EffectUnlit:
		params = PackUnlitUniforms(a.glow.Color)
	default:
		return nil, fmt.Errorf("wgpu: unknown effect %v", e)
	}

	if !a.readyLocked(e) {
		fallback := a.glow.Color
		if e == EffectDissolve {
			fallback = a.dissolve.PortalColor
		}
		slogger().Warn("wgpu: rendering unlit fallback", "effect", e.String())
		e = EffectUnlit
		params = PackUnlitUniforms(fallback)
		if !a.readyLocked(e) {
			return nil, fmt.Errorf("wgpu: %w", glow.ErrFallbackToUnlit)
		}
	}
	return a.pipelines[e].Render(frame, params)
}

func (a *MaterialAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	if err := a.buildPipelines(); err != nil {
		return err
	}
	slogger().Info("wgpu: material accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

// buildPipelines builds every effect pipeline. Effect failures are logged
// and tolerated; only a failed unlit pipeline is fatal, since then nothing
// can render.
func (a *MaterialAccelerator) buildPipelines() error {
	a.destroyPipelines()
	for e := range effectCount {
		p := NewEffectPipeline(a.device, a.queue, e)
		if err := p.Build(); err != nil {
			p.Destroy()
			if e == EffectUnlit {
				return fmt.Errorf("build unlit pipeline: %w", err)
			}
			slogger().Warn("wgpu: effect unavailable, using unlit material", "effect", e.String(), "err", err)
			continue
		}
		a.pipelines[e] = p
	}
	return nil
}

func (a *MaterialAccelerator) destroyPipelines() {
	for i, p := range a.pipelines {
		if p != nil {
			p.Destroy()
			a.pipelines[i] = nil
		}
	}
}

// releaseDevice destroys pipelines and, unless the device is shared, the
// device and instance.
func (a *MaterialAccelerator) releaseDevice() {
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.queue = nil
	a.instance = nil
	a.externalDevice = false
}
