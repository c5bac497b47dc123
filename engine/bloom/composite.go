package bloom

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-csm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// CompositePipelineKey names the tone-mapping composite pipeline.
	CompositePipelineKey = "bloom.composite"

	// DefaultStrength is the glow mix factor of the composite.
	DefaultStrength float32 = 0.04

	// DefaultExposure is the exposure of the composite's exponential tone curve.
	DefaultExposure float32 = 1.0

	// displayGamma is applied when the surface does not encode sRGB itself.
	displayGamma float32 = 2.2
)

//go:embed assets/composite.wgsl
var compositeBody string

// CompositeShaderSource returns the complete WGSL source of the composite pass.
func CompositeShaderSource() string {
	return shader.Assemble(GPUCompositeParamsSource, fullscreenSource, compositeBody)
}

// CompositeLayout returns the composite bind group layout: HDR color at binding 0, glow at 1,
// a linear sampler at 2 and GPUCompositeParams at 3.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout
func CompositeLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Composite",
		Entries: []wgpu.BindGroupLayoutEntry{
			shader.TextureEntry(0, wgpu.ShaderStageFragment, wgpu.TextureSampleTypeFloat, wgpu.TextureViewDimension2D),
			shader.TextureEntry(1, wgpu.ShaderStageFragment, wgpu.TextureSampleTypeFloat, wgpu.TextureViewDimension2D),
			shader.SamplerEntry(2, wgpu.ShaderStageFragment, wgpu.SamplerBindingTypeFiltering),
			shader.UniformEntry(3, wgpu.ShaderStageFragment, 16),
		},
	}
}

// Compositor tone-maps the HDR color plus the glow into the swapchain image.
type Compositor struct {
	provider bind_group_provider.BindGroupProvider
	gamma    float32

	last    GPUCompositeParams
	written bool
	writes  []bind_group_provider.BufferWrite
	bgs     []bind_group_provider.BindGroupProvider
}

// NewCompositor creates the composite bind group and pipeline.
//
// Parameters:
//   - dev: the device, usually the renderer
//   - hdr: the resolved HDR scene color
//   - glow: the glow buffer, usually Chain.GlowView
//   - surfaceFormat: the swapchain format, used to decide whether the shader applies gamma
//
// Returns:
//   - *Compositor: the ready compositor
//   - error: ErrInvalidChain for nil views, or a wrapped GPU error
func NewCompositor(dev Device, hdr, glow *wgpu.TextureView, surfaceFormat wgpu.TextureFormat) (*Compositor, error) {
	if hdr == nil || glow == nil {
		return nil, fmt.Errorf("bloom: %w: composite needs both hdr and glow views", ErrInvalidChain)
	}

	c := &Compositor{
		gamma: displayGamma,
		bgs:   make([]bind_group_provider.BindGroupProvider, 1),
	}
	if isSRGB(surfaceFormat) {
		c.gamma = 1
	}

	c.provider = bind_group_provider.NewBindGroupProvider("Composite",
		bind_group_provider.WithTextureView(0, hdr),
		bind_group_provider.WithTextureView(1, glow),
	)
	if err := dev.InitSampler(c.provider, 2, LinearSampler()); err != nil {
		c.Release()
		return nil, fmt.Errorf("bloom: composite sampler: %w", err)
	}
	if err := dev.InitBindGroup(c.provider, CompositeLayout(), nil); err != nil {
		c.Release()
		return nil, fmt.Errorf("bloom: composite: %w", err)
	}

	src := CompositeShaderSource()
	vs := shader.NewShader(CompositePipelineKey, shader.ShaderTypeVertex, src)
	fs := shader.NewShader(CompositePipelineKey, shader.ShaderTypeFragment, src,
		shader.WithBindGroupLayout(0, CompositeLayout().Entries...),
	)
	p := pipeline.NewPipeline(CompositePipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorFormat(wgpu.TextureFormatUndefined),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithSampleCount(1),
	)
	if err := dev.RegisterPipelines(p); err != nil {
		c.Release()
		return nil, fmt.Errorf("bloom: %w", err)
	}
	return c, nil
}

// Gamma returns the output gamma the composite applies.
func (c *Compositor) Gamma() float32 {
	return c.gamma
}

// Render draws the composite into the swapchain image.
//
// Parameters:
//   - enc: the frame's pass encoder
//   - strength: the glow mix factor, 0 shows the HDR color alone
//   - exposure: the tone curve exposure
//
// Returns:
//   - error: an error if the pass fails
func (c *Compositor) Render(enc renderer.PassEncoder, strength, exposure float32) error {
	params := GPUCompositeParams{BloomStrength: strength, Exposure: exposure, Gamma: c.gamma}
	if !c.written || params != c.last {
		c.writes = append(c.writes[:0], bind_group_provider.BufferWrite{Provider: c.provider, Binding: 3, Data: params.Marshal()})
		enc.WriteBuffers(c.writes)
		c.last, c.written = params, true
	}

	if err := enc.BeginPass(renderer.PassDescriptor{
		Label:     "composite",
		Surface:   true,
		ColorLoad: wgpu.LoadOpClear,
	}); err != nil {
		return fmt.Errorf("bloom: composite: %w", err)
	}
	c.bgs[0] = c.provider
	err := enc.DrawFullscreen(CompositePipelineKey, c.bgs)
	enc.EndPass()
	if err != nil {
		return fmt.Errorf("bloom: composite: %w", err)
	}
	return nil
}

// Release frees the composite bind group.
func (c *Compositor) Release() {
	if c.provider != nil {
		c.provider.Release()
		c.provider = nil
	}
}

func isSRGB(format wgpu.TextureFormat) bool {
	switch format {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	default:
		return false
	}
}
