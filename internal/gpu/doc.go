//go:build !nogpu

// Package gpu renders the glow and dissolve effects with WGSL shaders on
// gogpu/wgpu.
//
// Every effect is a fullscreen-triangle render pipeline whose fragment
// shader ray casts the unit sphere analytically, evaluates the effect and
// writes tone mapped sRGB. Shaders share common.wgsl (frame uniforms,
// sphere cast, encoding) and are validated by naga before the module is
// created. The rendered texture is copied to a staging buffer and read back
// into an *image.NRGBA.
//
// MaterialAccelerator owns one EffectPipeline per effect and implements
// glow.MaterialBackend. A pipeline that fails to build is replaced at draw
// time by the unlit pipeline, reported as glow.ErrFallbackToUnlit.
//
// Tests use the hal/noop device, so they run without a GPU.
package gpu
