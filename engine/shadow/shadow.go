// Package shadow owns the cascaded shadow map array and records its depth-only passes.
package shadow

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/light"
	"github.com/Carmen-Shannon/oxy-csm/engine/logger"
	"github.com/Carmen-Shannon/oxy-csm/engine/mesh"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-csm/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// DefaultResolution is the width and height of each shadow map layer in texels.
	DefaultResolution uint32 = 2048

	// DefaultSlopeScaleBias is the rasterizer slope-scaled depth bias of the shadow pipeline.
	DefaultSlopeScaleBias float32 = 1.0

	// PipelineKey is the key the depth-only pipeline is registered under.
	PipelineKey = "shadow.depth"

	// Format is the texel format of the shadow map array.
	Format = wgpu.TextureFormatDepth32Float
)

var (
	// ErrIncompleteAttachment is returned when the shadow map array cannot serve as a depth attachment.
	ErrIncompleteAttachment = errors.New("shadow map attachment incomplete")

	// ErrInvalidCascadeCount is returned for a cascade count outside [1, light.MaxCascades].
	ErrInvalidCascadeCount = errors.New("invalid cascade count")
)

//go:embed assets/shadow_depth.wgsl
var depthBody string

// DepthShaderSource returns the complete WGSL source of the shadow depth vertex shader.
//
// Returns:
//   - string: the assembled shader source
func DepthShaderSource() string {
	return shader.Assemble(light.GPUShadowCascadeSource, scene.GPUInstanceSource, mesh.GPUVertexSource, depthBody)
}

// CascadeLayout returns the bind group layout of the per-cascade light-space matrix.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout with the uniform at binding 0
func CascadeLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Shadow Cascade",
		Entries: []wgpu.BindGroupLayoutEntry{
			shader.UniformEntry(0, wgpu.ShaderStageVertex, common.Mat4Size),
		},
	}
}

// ComparisonSampler returns the sampler configuration used to read the shadow map array.
// One nearest tap per lookup; coordinates outside the map are handled by the lit shader.
//
// Returns:
//   - common.SamplerStagingData: the sampler configuration
func ComparisonSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		Nearest:      true,
		Compare:      wgpu.CompareFunctionLessEqual,
	}
}

// Device creates the GPU objects a MapArray needs. renderer.Renderer satisfies it.
type Device interface {
	CreateRenderTarget(stagingData common.RenderTargetStagingData) (*common.RenderTarget, error)
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
}

// MapArray is a Depth32Float 2D-array texture with one layer per cascade. It is allocated
// once and never resized.
type MapArray struct {
	resolution     uint32
	count          int
	slopeScaleBias float32

	target   *common.RenderTarget
	cascades []bind_group_provider.BindGroupProvider
	writes   []bind_group_provider.BufferWrite
	bgs      []bind_group_provider.BindGroupProvider
}

// NewMapArray allocates the shadow map array, its per-cascade uniforms and the depth pipeline.
//
// Parameters:
//   - dev: the device, usually the renderer
//   - options: functional options to configure the array
//
// Returns:
//   - *MapArray: the ready array
//   - error: ErrInvalidCascadeCount, ErrIncompleteAttachment, or a wrapped GPU error
func NewMapArray(dev Device, options ...MapArrayBuilderOption) (*MapArray, error) {
	m := &MapArray{
		resolution:     DefaultResolution,
		count:          light.DefaultCascadeCount,
		slopeScaleBias: DefaultSlopeScaleBias,
	}
	for _, opt := range options {
		opt(m)
	}

	if m.count < 1 || m.count > light.MaxCascades {
		return nil, fmt.Errorf("shadow: %w: %d", ErrInvalidCascadeCount, m.count)
	}

	target, err := dev.CreateRenderTarget(common.RenderTargetStagingData{
		Label:   "Shadow Map Array",
		Width:   m.resolution,
		Height:  m.resolution,
		Layers:  uint32(m.count),
		Array:   true,
		Format:  Format,
		Sampled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("shadow: create map array: %w", err)
	}
	m.target = target
	if err := validateAttachment(target, m.count, m.resolution); err != nil {
		m.Release()
		return nil, err
	}

	m.cascades = make([]bind_group_provider.BindGroupProvider, m.count)
	for i := range m.cascades {
		bgp := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Shadow Cascade %d", i))
		m.cascades[i] = bgp
		if err := dev.InitBindGroup(bgp, CascadeLayout(), nil); err != nil {
			m.Release()
			return nil, fmt.Errorf("shadow: cascade %d bind group: %w", i, err)
		}
	}

	vs := shader.NewShader(PipelineKey, shader.ShaderTypeVertex, DepthShaderSource(),
		shader.WithBindGroupLayout(0, CascadeLayout().Entries...),
		shader.WithBindGroupLayout(1, scene.InstanceLayout().Entries...),
		shader.WithVertexLayout(mesh.VertexLayout()),
	)
	p := pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithCullMode(wgpu.CullModeFront),
		pipeline.WithDepthFormat(Format),
		pipeline.WithDepthBias(0, m.slopeScaleBias),
		pipeline.WithSampleCount(1),
	)
	if err := dev.RegisterPipelines(p); err != nil {
		m.Release()
		return nil, fmt.Errorf("shadow: %w", err)
	}

	m.writes = make([]bind_group_provider.BufferWrite, m.count)
	m.bgs = make([]bind_group_provider.BindGroupProvider, 2)

	logger.Logger().Info("shadow map array ready", "resolution", m.resolution, "cascades", m.count)
	return m, nil
}

// validateAttachment checks that the target can be rendered into layer by layer and sampled as an array.
func validateAttachment(t *common.RenderTarget, layers int, resolution uint32) error {
	switch {
	case t == nil || t.View == nil:
		return fmt.Errorf("%w: missing array view", ErrIncompleteAttachment)
	case t.Format != Format:
		return fmt.Errorf("%w: format %v, want Depth32Float", ErrIncompleteAttachment, t.Format)
	case int(t.Layers) != layers || len(t.LayerViews) != layers:
		return fmt.Errorf("%w: %d layers and %d layer views, want %d", ErrIncompleteAttachment, t.Layers, len(t.LayerViews), layers)
	case t.Width == 0 || t.Height == 0 || t.Width != resolution || t.Height != resolution:
		return fmt.Errorf("%w: size %dx%d, want %dx%d", ErrIncompleteAttachment, t.Width, t.Height, resolution, resolution)
	case t.Usage&wgpu.TextureUsageRenderAttachment == 0 || t.Usage&wgpu.TextureUsageTextureBinding == 0:
		return fmt.Errorf("%w: usage %v lacks render attachment or texture binding", ErrIncompleteAttachment, t.Usage)
	}
	for i, v := range t.LayerViews {
		if v == nil {
			return fmt.Errorf("%w: layer %d has no view", ErrIncompleteAttachment, i)
		}
	}
	return nil
}

// Count returns the number of cascades, equal to the number of layers.
func (m *MapArray) Count() int {
	return m.count
}

// Resolution returns the width and height of each layer.
func (m *MapArray) Resolution() uint32 {
	return m.resolution
}

// View returns the 2DArray view the lit pass samples.
func (m *MapArray) View() *wgpu.TextureView {
	return m.target.View
}

// Bind attaches the array view and a comparison sampler to a consumer's bind group provider.
// Call before the consumer's InitBindGroup.
//
// Parameters:
//   - dev: the device, usually the renderer
//   - provider: the consumer's provider
//   - viewBinding: the binding of the texture_depth_2d_array
//   - samplerBinding: the binding of the sampler_comparison
//
// Returns:
//   - error: an error if the sampler could not be created
func (m *MapArray) Bind(dev Device, provider bind_group_provider.BindGroupProvider, viewBinding, samplerBinding int) error {
	provider.SetTextureView(viewBinding, m.target.View)
	if err := dev.InitSampler(provider, samplerBinding, ComparisonSampler()); err != nil {
		return fmt.Errorf("shadow: comparison sampler: %w", err)
	}
	return nil
}

// Render uploads each cascade's light-space matrix and renders every draw into its layer,
// layers in ascending order. Each layer is cleared to 1 and stored for the lit pass.
//
// Parameters:
//   - enc: the frame's pass encoder
//   - cascades: the fitted cascades, exactly Count of them
//   - draws: the scene draws
//
// Returns:
//   - error: an error if the cascade count mismatches or a draw fails
func (m *MapArray) Render(enc renderer.PassEncoder, cascades []light.Cascade, draws []scene.DrawItem) error {
	if len(cascades) != m.count {
		return fmt.Errorf("shadow: %d cascades for %d layers", len(cascades), m.count)
	}

	for i, c := range cascades {
		u := light.GPUShadowCascade{LightSpace: c.LightSpace}
		m.writes[i] = bind_group_provider.BufferWrite{Provider: m.cascades[i], Binding: 0, Data: u.Marshal()}
	}
	enc.WriteBuffers(m.writes)

	for i := range cascades {
		err := enc.BeginPass(renderer.PassDescriptor{
			Label:      fmt.Sprintf("shadow[%d]", i),
			Depth:      m.target.LayerViews[i],
			DepthClear: 1.0,
			DepthStore: true,
		})
		if err != nil {
			return fmt.Errorf("shadow: layer %d: %w", i, err)
		}
		for _, d := range draws {
			m.bgs[0], m.bgs[1] = m.cascades[i], d.Instances
			if err := enc.Draw(PipelineKey, d.Mesh, d.InstanceCount, m.bgs); err != nil {
				enc.EndPass()
				return fmt.Errorf("shadow: layer %d: %w", i, err)
			}
		}
		enc.EndPass()
	}
	return nil
}

// Release frees the cascade uniforms and the array texture.
func (m *MapArray) Release() {
	for _, bgp := range m.cascades {
		if bgp != nil {
			bgp.Release()
		}
	}
	m.cascades = nil
	if m.target != nil {
		m.target.Release()
		m.target = nil
	}
}
