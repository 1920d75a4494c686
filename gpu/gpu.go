//go:build !nogpu

// Package gpu registers the WebGPU material backend.
//
// Import this package to render the glow and dissolve effects with WGSL
// shaders on wgpu/hal instead of the CPU:
//
//	import _ "github.com/gogpu/glow/gpu"
//
// If GPU initialization fails (no Vulkan available), registration is
// skipped with a warning and the software backend stays in place. If a
// single effect's shader fails to build, that effect renders with an unlit
// solid-color material and glow.ErrFallbackToUnlit is reported by SetGlow
// or SetDissolve.
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/glow"
	gpuimpl "github.com/gogpu/glow/internal/gpu"
)

func init() {
	if err := glow.RegisterBackend(gpuimpl.NewMaterialAccelerator()); err != nil {
		glow.Logger().Warn("GPU material backend not available", "err", err)
	}
}

// SetDeviceProvider makes the registered backend render on a GPU device
// shared by the host (for example a gogpu window) instead of its own.
//
// The provider should also implement HalDevice() any and HalQueue() any
// for direct HAL access.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return glow.SetBackendDeviceProvider(provider)
}
