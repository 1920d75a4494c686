// Package native holds the shader compilation and resource cleanup helpers
// shared by the WebGPU effect pipelines.
package native

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// CompileShaderToSPIRV compiles WGSL source to a SPIR-V uint32 slice.
// A WGSL error surfaces here, before any device object is created.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("failed to compile shader: SPIR-V size %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	if len(spirvCode) == 0 || spirvCode[0] != SPIRVMagic {
		return nil, fmt.Errorf("failed to compile shader: missing SPIR-V magic")
	}
	return spirvCode, nil
}

// CreateShaderModule creates a HAL shader module from SPIR-V code.
func CreateShaderModule(device hal.Device, label string, spirvCode []uint32) (hal.ShaderModule, error) {
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirvCode,
		},
	})
}

// GPUResources groups the objects one render pipeline owns so they can be
// released together.
type GPUResources struct {
	Device         hal.Device
	ShaderModule   hal.ShaderModule
	PipelineLayout hal.PipelineLayout
	BindLayouts    []hal.BindGroupLayout
	Pipelines      []hal.RenderPipeline
}

// Destroy releases all resources in reverse creation order and clears the
// fields, so calling it twice is safe.
func (r *GPUResources) Destroy() {
	if r.Device == nil {
		return
	}

	for _, p := range r.Pipelines {
		if p != nil {
			r.Device.DestroyRenderPipeline(p)
		}
	}
	r.Pipelines = nil

	if r.PipelineLayout != nil {
		r.Device.DestroyPipelineLayout(r.PipelineLayout)
		r.PipelineLayout = nil
	}

	for _, l := range r.BindLayouts {
		if l != nil {
			r.Device.DestroyBindGroupLayout(l)
		}
	}
	r.BindLayouts = nil

	if r.ShaderModule != nil {
		r.Device.DestroyShaderModule(r.ShaderModule)
		r.ShaderModule = nil
	}
}
