package native

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

const minimalWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> @builtin(position) vec4<f32> {
    let x = f32(index) - 1.0;
    return vec4<f32>(x, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.5, 0.0, 1.0);
}
`

func TestCompileShaderToSPIRV(t *testing.T) {
	code, err := CompileShaderToSPIRV(minimalWGSL)
	if err != nil {
		t.Fatalf("CompileShaderToSPIRV failed: %v", err)
	}
	if len(code) < 5 {
		t.Fatalf("SPIR-V too short: %d words", len(code))
	}
	if code[0] != SPIRVMagic {
		t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x%08X", code[0], SPIRVMagic)
	}
}

func TestCompileShaderToSPIRVInvalid(t *testing.T) {
	if _, err := CompileShaderToSPIRV("fn broken( {"); err == nil {
		t.Error("expected error for invalid WGSL")
	}
}

func TestCreateShaderModuleAndDestroy(t *testing.T) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	defer instance.Destroy()
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer openDev.Device.Destroy()

	code, err := CompileShaderToSPIRV(minimalWGSL)
	if err != nil {
		t.Fatalf("CompileShaderToSPIRV failed: %v", err)
	}
	module, err := CreateShaderModule(openDev.Device, "test", code)
	if err != nil {
		t.Fatalf("CreateShaderModule failed: %v", err)
	}
	if module == nil {
		t.Fatal("expected non-nil shader module")
	}

	res := &GPUResources{Device: openDev.Device, ShaderModule: module}
	res.Destroy()
	if res.ShaderModule != nil {
		t.Error("shader module not cleared after Destroy")
	}
	res.Destroy()

	var empty GPUResources
	empty.Destroy()
}
