// Package bloom builds the glow buffer from the HDR scene color with a downsample/upsample
// mip ladder and composites it back through tone mapping.
package bloom

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/logger"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// DefaultLevels is the number of mip levels in the ladder.
	DefaultLevels = 5

	// DefaultFilterRadius is the upsample tent radius in uv units. It is not corrected for
	// aspect ratio, so wide targets blur slightly more horizontally.
	DefaultFilterRadius float32 = 0.005

	// Format is the texel format of every level.
	Format = wgpu.TextureFormatRGBA16Float

	// DownsamplePipelineKey and UpsamplePipelineKey name the ladder pipelines.
	DownsamplePipelineKey = "bloom.downsample"
	UpsamplePipelineKey   = "bloom.upsample"
)

// ErrInvalidChain is returned for a chain that cannot be built from its arguments.
var ErrInvalidChain = errors.New("invalid bloom chain")

var (
	//go:embed assets/fullscreen.wgsl
	fullscreenSource string
	//go:embed assets/downsample.wgsl
	downsampleBody string
	//go:embed assets/upsample.wgsl
	upsampleBody string
)

// DownsampleShaderSource returns the complete WGSL source of the downsample pass.
func DownsampleShaderSource() string {
	return shader.Assemble(GPUBloomParamsSource, fullscreenSource, downsampleBody)
}

// UpsampleShaderSource returns the complete WGSL source of the upsample pass.
func UpsampleShaderSource() string {
	return shader.Assemble(GPUBloomParamsSource, fullscreenSource, upsampleBody)
}

// SourceLayout returns the bind group layout shared by the downsample and upsample passes:
// the texture read at binding 0, its sampler at 1 and GPUBloomParams at 2.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout
func SourceLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Bloom Source",
		Entries: []wgpu.BindGroupLayoutEntry{
			shader.TextureEntry(0, wgpu.ShaderStageFragment, wgpu.TextureSampleTypeFloat, wgpu.TextureViewDimension2D),
			shader.SamplerEntry(1, wgpu.ShaderStageFragment, wgpu.SamplerBindingTypeFiltering),
			shader.UniformEntry(2, wgpu.ShaderStageFragment, 16),
		},
	}
}

// LinearSampler returns the linear clamp-to-edge sampler used to read bloom levels.
//
// Returns:
//   - common.SamplerStagingData: the sampler configuration
func LinearSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}
}

// Device creates the GPU objects the bloom passes need. renderer.Renderer satisfies it.
type Device interface {
	CreateRenderTarget(stagingData common.RenderTargetStagingData) (*common.RenderTarget, error)
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
}

// Mip is one level of the ladder.
type Mip struct {
	Texture       *wgpu.Texture
	View          *wgpu.TextureView
	Width, Height uint32
}

// Chain is a fixed-length ladder of RGBA16Float levels, allocated once from the source size.
// Level 0 holds the glow after Render.
type Chain struct {
	levels       int
	filterRadius float32
	width        uint32
	height       uint32

	targets []*common.RenderTarget
	mips    []Mip
	down    []bind_group_provider.BindGroupProvider
	up      []bind_group_provider.BindGroupProvider

	dirty  bool
	writes []bind_group_provider.BufferWrite
	bgs    []bind_group_provider.BindGroupProvider
}

// NewChain allocates the ladder, its bind groups and both ladder pipelines.
//
// Parameters:
//   - dev: the device, usually the renderer
//   - source: the HDR scene color view read by the first downsample
//   - w: the source width
//   - h: the source height
//   - options: functional options to configure the chain
//
// Returns:
//   - *Chain: the ready chain
//   - error: ErrInvalidChain for bad arguments, or a wrapped GPU error
func NewChain(dev Device, source *wgpu.TextureView, w, h uint32, options ...ChainBuilderOption) (*Chain, error) {
	c := &Chain{
		levels:       DefaultLevels,
		filterRadius: DefaultFilterRadius,
		width:        w,
		height:       h,
		dirty:        true,
	}
	for _, opt := range options {
		opt(c)
	}

	if source == nil {
		return nil, fmt.Errorf("bloom: %w: nil source view", ErrInvalidChain)
	}
	sizes := MipSizes(int(w), int(h), c.levels)
	if sizes == nil {
		return nil, fmt.Errorf("bloom: %w: %dx%d with %d levels", ErrInvalidChain, w, h, c.levels)
	}

	for i, s := range sizes {
		target, err := dev.CreateRenderTarget(common.RenderTargetStagingData{
			Label:   fmt.Sprintf("Bloom Mip %d", i),
			Width:   s[0],
			Height:  s[1],
			Format:  Format,
			Sampled: true,
		})
		if err != nil {
			c.Release()
			return nil, fmt.Errorf("bloom: level %d: %w", i, err)
		}
		c.targets = append(c.targets, target)
		c.mips = append(c.mips, Mip{Texture: target.Texture, View: target.View, Width: s[0], Height: s[1]})
	}

	for i := range c.mips {
		src := source
		if i > 0 {
			src = c.mips[i-1].View
		}
		bgp, err := c.sourceGroup(dev, fmt.Sprintf("Bloom Down %d", i), src)
		if err != nil {
			c.Release()
			return nil, err
		}
		c.down = append(c.down, bgp)
	}
	for i := 0; i < len(c.mips)-1; i++ {
		bgp, err := c.sourceGroup(dev, fmt.Sprintf("Bloom Up %d", i), c.mips[i+1].View)
		if err != nil {
			c.Release()
			return nil, err
		}
		c.up = append(c.up, bgp)
	}

	if err := dev.RegisterPipelines(
		ladderPipeline(DownsamplePipelineKey, DownsampleShaderSource()),
		ladderPipeline(UpsamplePipelineKey, UpsampleShaderSource(), pipeline.WithAdditiveBlend()),
	); err != nil {
		c.Release()
		return nil, fmt.Errorf("bloom: %w", err)
	}

	c.writes = make([]bind_group_provider.BufferWrite, 0, len(c.down)+len(c.up))
	c.bgs = make([]bind_group_provider.BindGroupProvider, 1)

	logger.Logger().Info("bloom chain ready", "levels", c.levels, "sizes", sizes)
	return c, nil
}

func (c *Chain) sourceGroup(dev Device, label string, src *wgpu.TextureView) (bind_group_provider.BindGroupProvider, error) {
	bgp := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithTextureView(0, src))
	if err := dev.InitSampler(bgp, 1, LinearSampler()); err != nil {
		bgp.Release()
		return nil, fmt.Errorf("bloom: %s sampler: %w", label, err)
	}
	if err := dev.InitBindGroup(bgp, SourceLayout(), nil); err != nil {
		bgp.Release()
		return nil, fmt.Errorf("bloom: %s: %w", label, err)
	}
	return bgp, nil
}

// ladderPipeline builds a single-sample fullscreen pipeline writing one RGBA16Float level.
func ladderPipeline(key, source string, opts ...pipeline.PipelineBuilderOption) pipeline.Pipeline {
	vs := shader.NewShader(key, shader.ShaderTypeVertex, source)
	fs := shader.NewShader(key, shader.ShaderTypeFragment, source,
		shader.WithBindGroupLayout(0, SourceLayout().Entries...),
	)
	base := []pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorFormat(Format),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithSampleCount(1),
	}
	return pipeline.NewPipeline(key, append(base, opts...)...)
}

// Levels returns the number of levels.
func (c *Chain) Levels() int {
	return c.levels
}

// Mips returns the levels, largest first.
func (c *Chain) Mips() []Mip {
	return append([]Mip(nil), c.mips...)
}

// GlowView returns level 0, which holds the glow once Render has run.
func (c *Chain) GlowView() *wgpu.TextureView {
	return c.mips[0].View
}

// FilterRadius returns the upsample tent radius.
func (c *Chain) FilterRadius() float32 {
	return c.filterRadius
}

// SetFilterRadius changes the upsample tent radius from the next pass on.
//
// Parameters:
//   - r: the radius in uv units
func (c *Chain) SetFilterRadius(r float32) {
	if r != c.filterRadius {
		c.filterRadius = r
		c.dirty = true
	}
}

// flush uploads the ladder parameters when they changed.
func (c *Chain) flush(enc renderer.PassEncoder) {
	if !c.dirty {
		return
	}
	c.writes = c.writes[:0]
	for i, bgp := range c.down {
		w, h := c.width, c.height
		if i > 0 {
			w, h = c.mips[i-1].Width, c.mips[i-1].Height
		}
		p := GPUBloomParams{SrcResolution: [2]float32{float32(w), float32(h)}, FilterRadius: c.filterRadius}
		c.writes = append(c.writes, bind_group_provider.BufferWrite{Provider: bgp, Binding: 2, Data: p.Marshal()})
	}
	for i, bgp := range c.up {
		m := c.mips[i+1]
		p := GPUBloomParams{SrcResolution: [2]float32{float32(m.Width), float32(m.Height)}, FilterRadius: c.filterRadius}
		c.writes = append(c.writes, bind_group_provider.BufferWrite{Provider: bgp, Binding: 2, Data: p.Marshal()})
	}
	enc.WriteBuffers(c.writes)
	c.dirty = false
}

// Downsample renders every level in ascending order, each reading the previous level or the source.
//
// Parameters:
//   - enc: the frame's pass encoder
//
// Returns:
//   - error: an error if a pass fails
func (c *Chain) Downsample(enc renderer.PassEncoder) error {
	c.flush(enc)
	for i, m := range c.mips {
		c.bgs[0] = c.down[i]
		err := c.pass(enc, renderer.PassDescriptor{
			Label:     fmt.Sprintf("bloom.down[%d]", i),
			Color:     m.View,
			ColorLoad: wgpu.LoadOpClear,
		}, DownsamplePipelineKey)
		if err != nil {
			return err
		}
	}
	return nil
}

// Upsample blends each level into the next larger one, smallest first, finishing at level 0.
// Levels keep their downsampled contents and the tent-filtered result is added on top.
//
// Parameters:
//   - enc: the frame's pass encoder
//
// Returns:
//   - error: an error if a pass fails
func (c *Chain) Upsample(enc renderer.PassEncoder) error {
	c.flush(enc)
	for i := len(c.up) - 1; i >= 0; i-- {
		c.bgs[0] = c.up[i]
		err := c.pass(enc, renderer.PassDescriptor{
			Label:     fmt.Sprintf("bloom.up[%d]", i),
			Color:     c.mips[i].View,
			ColorLoad: wgpu.LoadOpLoad,
		}, UpsamplePipelineKey)
		if err != nil {
			return err
		}
	}
	return nil
}

// Render runs the full downsample ladder and then the full upsample ladder.
//
// Parameters:
//   - enc: the frame's pass encoder
//
// Returns:
//   - error: an error if a pass fails
func (c *Chain) Render(enc renderer.PassEncoder) error {
	if err := c.Downsample(enc); err != nil {
		return err
	}
	return c.Upsample(enc)
}

func (c *Chain) pass(enc renderer.PassEncoder, desc renderer.PassDescriptor, key string) error {
	if err := enc.BeginPass(desc); err != nil {
		return fmt.Errorf("bloom: %s: %w", desc.Label, err)
	}
	err := enc.DrawFullscreen(key, c.bgs)
	enc.EndPass()
	if err != nil {
		return fmt.Errorf("bloom: %s: %w", desc.Label, err)
	}
	return nil
}

// Release frees the bind groups and every level.
func (c *Chain) Release() {
	for _, bgp := range c.down {
		bgp.Release()
	}
	for _, bgp := range c.up {
		bgp.Release()
	}
	c.down, c.up = nil, nil
	for _, t := range c.targets {
		t.Release()
	}
	c.targets, c.mips = nil, nil
}
