//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glow/internal/color"
	"github.com/gogpu/glow/internal/native"
)

// renderFormat is the offscreen color format. The shaders encode sRGB
// themselves, so the texture stores bytes as written.
const renderFormat = gputypes.TextureFormatRGBA8Unorm

// gpuWaitTimeout bounds the wait for one frame.
const gpuWaitTimeout = 5 * time.Second

// EffectPipeline renders one effect into an offscreen texture and reads
// the pixels back.
//
// The pipeline draws a single fullscreen triangle. The fragment stage ray
// casts the sphere analytically and evaluates the effect per pixel, so
// there is no vertex buffer. Bind group 0 holds the Frame uniform at
// binding 0 and the effect's parameter uniform at binding 1.
type EffectPipeline struct {
	device hal.Device
	queue  hal.Queue
	effect Effect

	res      native.GPUResources
	pipeline hal.RenderPipeline

	tex  hal.Texture
	view hal.TextureView

	width, height uint32
}

// NewEffectPipeline creates a pipeline for one effect. GPU objects are not
// created until Build or the first Render.
func NewEffectPipeline(device hal.Device, queue hal.Queue, effect Effect) *EffectPipeline {
	return &EffectPipeline{
		device: device,
		queue:  queue,
		effect: effect,
		res:    native.GPUResources{Device: device},
	}
}

// Effect returns the effect this pipeline renders.
func (p *EffectPipeline) Effect() Effect {
	return p.effect
}

// Build compiles the effect shader and creates the render pipeline. The
// WGSL is validated through naga first, so a broken shader fails here on
// every backend.
func (p *EffectPipeline) Build() error {
	if p.pipeline != nil {
		return nil
	}
	src, err := ShaderSource(p.effect)
	if err != nil {
		return err
	}
	spirv, err := native.CompileShaderToSPIRV(src)
	if err != nil {
		return fmt.Errorf("compile %v shader: %w", p.effect, err)
	}

	label := p.effect.String()
	shader, err := native.CreateShaderModule(p.device, label+"_shader", spirv)
	if err != nil {
		return fmt.Errorf("create %v shader module: %w", p.effect, err)
	}
	p.res.ShaderModule = shader

	layout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		p.res.Destroy()
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.res.BindLayouts = []hal.BindGroupLayout{layout}

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: p.res.BindLayouts,
	})
	if err != nil {
		p.res.Destroy()
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.res.PipelineLayout = pipeLayout

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    renderFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.res.Destroy()
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	p.res.Pipelines = []hal.RenderPipeline{pipeline}

	slogger().Debug("gpu: effect pipeline built", "effect", label)
	return nil
}

// Ready reports whether Build has succeeded.
func (p *EffectPipeline) Ready() bool {
	return p.pipeline != nil
}

// Destroy releases all GPU resources. Safe to call multiple times.
func (p *EffectPipeline) Destroy() {
	p.destroyTexture()
	p.res.Destroy()
	p.pipeline = nil
}

// Size returns the current texture dimensions.
func (p *EffectPipeline) Size() (uint32, uint32) {
	return p.width, p.height
}

// Render draws one frame with the given effect uniform and returns the
// pixels. Fragments the effect discards show the frame background.
func (p *EffectPipeline) Render(frame FrameUniforms, params []byte) (*image.NRGBA, error) {
	if frame.Width == 0 || frame.Height == 0 {
		return nil, fmt.Errorf("gpu: invalid frame size %dx%d", frame.Width, frame.Height)
	}
	if err := p.Build(); err != nil {
		return nil, err
	}
	if err := p.ensureTexture(frame.Width, frame.Height); err != nil {
		return nil, fmt.Errorf("ensure texture: %w", err)
	}

	frameBuf, err := p.createAndUploadBuffer(p.effect.String()+"_frame", PackFrameUniforms(frame),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	defer p.device.DestroyBuffer(frameBuf)

	paramBuf, err := p.createAndUploadBuffer(p.effect.String()+"_params", params,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	defer p.device.DestroyBuffer(paramBuf)

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.effect.String() + "_bind",
		Layout: p.res.BindLayouts[0],
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: frameBuf.NativeHandle(), Offset: 0, Size: frameUniformSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: paramBuf.NativeHandle(), Offset: 0, Size: uint64(len(params)),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(bindGroup)

	return p.encodeAndReadback(frame, bindGroup)
}

// ensureTexture creates or recreates the color texture if the requested
// dimensions differ from the current size.
func (p *EffectPipeline) ensureTexture(w, h uint32) error {
	if p.width == w && p.height == h && p.tex != nil {
		return nil
	}
	p.destroyTexture()

	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         p.effect.String() + "_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        renderFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	p.tex = tex

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         p.effect.String() + "_color_view",
		Format:        renderFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.destroyTexture()
		return fmt.Errorf("create color view: %w", err)
	}
	p.view = view

	p.width = w
	p.height = h
	return nil
}

func (p *EffectPipeline) destroyTexture() {
	if p.view != nil {
		p.device.DestroyTextureView(p.view)
		p.view = nil
	}
	if p.tex != nil {
		p.device.DestroyTexture(p.tex)
		p.tex = nil
	}
	p.width = 0
	p.height = 0
}

// clearColor is the encoded background, which discarded fragments keep.
func clearColor(frame FrameUniforms) gputypes.Color {
	tm := color.Clamp
	if frame.Reinhard {
		tm = color.Reinhard
	}
	bg := color.Encode(frame.Background.R, frame.Background.G, frame.Background.B, 1, tm)
	return gputypes.Color{
		R: float64(bg.R) / 255,
		G: float64(bg.G) / 255,
		B: float64(bg.B) / 255,
		A: 1,
	}
}

// encodeAndReadback encodes the render pass, copies the texture to a
// staging buffer, submits, waits and reads the pixels back.
func (p *EffectPipeline) encodeAndReadback(frame FrameUniforms, bindGroup hal.BindGroup) (*image.NRGBA, error) {
	w, h := p.width, p.height
	label := p.effect.String()

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       p.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clearColor(frame),
			},
		},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	// The texture leaves the pass in attachment layout; the copy needs
	// transfer-source layout. No-op on Metal, GLES and noop.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := w * 4
	paddedRow := alignedBytesPerRow(bytesPerRow)
	stagingSize := uint64(paddedRow) * uint64(h)
	staging, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer p.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(p.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: paddedRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: p.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	idx, err := p.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if err := waitSubmission(p.queue, idx, gpuWaitTimeout); err != nil {
		return nil, err
	}

	mapping, err := p.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), stagingSize)

	img := image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))
	unpadRows(img.Pix, readback, int(bytesPerRow), int(paddedRow), int(h))
	if err := p.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return img, nil
}

// copyPitchAlignment is the required BytesPerRow alignment of
// texture-to-buffer copies.
const copyPitchAlignment = 256

// alignedBytesPerRow rounds a row size up to copyPitchAlignment.
func alignedBytesPerRow(bytesPerRow uint32) uint32 {
	return (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// unpadRows strips the row padding of a readback: rows of tight bytes are
// copied from src, whose row pitch is padded, into dst.
func unpadRows(dst, src []byte, tight, padded, rows int) {
	if tight == padded {
		copy(dst, src[:tight*rows])
		return
	}
	for row := range rows {
		copy(dst[row*tight:(row+1)*tight], src[row*padded:row*padded+tight])
	}
}

// waitSubmission polls until the queue reports submission idx complete.
func waitSubmission(q hal.Queue, idx uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for q.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for GPU: submission %d not complete after %v", idx, timeout)
		}
		time.Sleep(100 * time.Microsecond)
	}
	return nil
}

func (p *EffectPipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	p.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
