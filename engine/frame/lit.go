package frame

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/camera"
	"github.com/Carmen-Shannon/oxy-csm/engine/light"
	"github.com/Carmen-Shannon/oxy-csm/engine/mesh"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-csm/engine/scene"
	"github.com/Carmen-Shannon/oxy-csm/engine/shadow"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// LitPipelineKey names the Blinn-Phong lit opaque pipeline.
	LitPipelineKey = "lit"

	// GoochPipelineKey names the lit pipeline that shades with the Gooch cool-to-warm model.
	GoochPipelineKey = "lit.gooch"

	// HDRFormat is the texel format of the scene color target.
	HDRFormat = wgpu.TextureFormatRGBA16Float

	// DepthFormat is the lit pass depth format.
	DepthFormat = wgpu.TextureFormatDepth24Plus
)

// clearColor is the HDR background, a dim sky.
var clearColor = wgpu.Color{R: 0.02, G: 0.03, B: 0.05, A: 1}

//go:embed assets/lit.wgsl
var litBody string

// LitShaderSource returns the complete WGSL source of the lit pass.
//
// Returns:
//   - string: the assembled shader source
func LitShaderSource() string {
	return shader.Assemble(
		camera.GPUCameraUniformSource,
		scene.GPUInstanceSource,
		mesh.GPUVertexSource,
		light.GPULightUniformSource,
		light.GPUCascadeUniformSource,
		light.GPUPointLightSource,
		litBody,
	)
}

// CameraLayout returns the bind group layout of the camera uniform (group 0).
func CameraLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Camera",
		Entries: []wgpu.BindGroupLayoutEntry{
			shader.UniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 144),
		},
	}
}

// LightingLayout returns the bind group layout of the lights, cascades and shadow map (group 2).
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: sun uniform at 0, cascade uniform at 1,
//     the depth array at 2, the comparison sampler at 3 and the point lights at 4
func LightingLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Lighting",
		Entries: []wgpu.BindGroupLayoutEntry{
			shader.UniformEntry(0, wgpu.ShaderStageFragment, 64),
			shader.UniformEntry(1, wgpu.ShaderStageFragment, 336),
			shader.TextureEntry(2, wgpu.ShaderStageFragment, wgpu.TextureSampleTypeDepth, wgpu.TextureViewDimension2DArray),
			shader.SamplerEntry(3, wgpu.ShaderStageFragment, wgpu.SamplerBindingTypeComparison),
			shader.UniformEntry(4, wgpu.ShaderStageFragment, 336),
		},
	}
}

// litPass owns the HDR targets and the per-frame uniforms of the lit opaque pass.
type litPass struct {
	samples uint32

	hdr   *common.RenderTarget // single-sample, sampled by bloom and composite
	msaa  *common.RenderTarget // multisampled color resolved into hdr, nil without MSAA
	depth *common.RenderTarget

	camera   bind_group_provider.BindGroupProvider
	lighting bind_group_provider.BindGroupProvider

	writes []bind_group_provider.BufferWrite
	bgs    []bind_group_provider.BindGroupProvider
}

// newLitPass allocates the HDR targets, the camera and lighting bind groups and the lit pipeline.
func newLitPass(dev Device, shadows *shadow.MapArray, width, height, samples uint32) (*litPass, error) {
	l := &litPass{
		samples: max(samples, 1),
		writes:  make([]bind_group_provider.BufferWrite, 4),
		bgs:     make([]bind_group_provider.BindGroupProvider, 3),
	}

	var err error
	l.hdr, err = dev.CreateRenderTarget(common.RenderTargetStagingData{
		Label:   "HDR Color",
		Width:   width,
		Height:  height,
		Format:  HDRFormat,
		Sampled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("frame: hdr target: %w", err)
	}
	if l.samples > 1 {
		l.msaa, err = dev.CreateRenderTarget(common.RenderTargetStagingData{
			Label:       "HDR Color MSAA",
			Width:       width,
			Height:      height,
			Format:      HDRFormat,
			SampleCount: l.samples,
		})
		if err != nil {
			l.release()
			return nil, fmt.Errorf("frame: msaa target: %w", err)
		}
	}
	l.depth, err = dev.CreateRenderTarget(common.RenderTargetStagingData{
		Label:       "Scene Depth",
		Width:       width,
		Height:      height,
		Format:      DepthFormat,
		SampleCount: l.samples,
	})
	if err != nil {
		l.release()
		return nil, fmt.Errorf("frame: depth target: %w", err)
	}

	l.camera = bind_group_provider.NewBindGroupProvider("Camera")
	if err := dev.InitBindGroup(l.camera, CameraLayout(), nil); err != nil {
		l.release()
		return nil, fmt.Errorf("frame: camera bind group: %w", err)
	}

	l.lighting = bind_group_provider.NewBindGroupProvider("Lighting")
	if err := shadows.Bind(dev, l.lighting, 2, 3); err != nil {
		l.release()
		return nil, fmt.Errorf("frame: %w", err)
	}
	if err := dev.InitBindGroup(l.lighting, LightingLayout(), nil); err != nil {
		l.release()
		return nil, fmt.Errorf("frame: lighting bind group: %w", err)
	}

	src := LitShaderSource()
	vs := shader.NewShader(LitPipelineKey, shader.ShaderTypeVertex, src,
		shader.WithBindGroupLayout(0, CameraLayout().Entries...),
		shader.WithBindGroupLayout(1, scene.InstanceLayout().Entries...),
		shader.WithVertexLayout(mesh.VertexLayout()),
	)
	pipelines := make([]pipeline.Pipeline, 0, 2)
	for _, sm := range [...]struct{ key, entry string }{
		{LitPipelineKey, "fs_main"},
		{GoochPipelineKey, "fs_gooch"},
	} {
		key := sm.key
		fs := shader.NewShader(key, shader.ShaderTypeFragment, src,
			shader.WithEntryPoint(sm.entry),
			shader.WithBindGroupLayout(0, CameraLayout().Entries...),
			shader.WithBindGroupLayout(2, LightingLayout().Entries...),
		)
		pipelines = append(pipelines, pipeline.NewPipeline(key,
			pipeline.WithVertexShader(vs),
			pipeline.WithFragmentShader(fs),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithColorFormat(HDRFormat),
			pipeline.WithDepthFormat(DepthFormat),
			pipeline.WithSampleCount(l.samples),
		))
	}
	if err := dev.RegisterPipelines(pipelines...); err != nil {
		l.release()
		return nil, fmt.Errorf("frame: %w", err)
	}
	return l, nil
}

// hdrView returns the resolved scene color.
func (l *litPass) hdrView() *wgpu.TextureView {
	return l.hdr.View
}

// upload queues the camera, light, cascade and point light uniforms.
func (l *litPass) upload(enc renderer.PassEncoder, cam camera.GPUCameraUniform, sun light.GPULightUniform, cascades light.GPUCascadeUniform, points light.GPUPointLightUniform) {
	l.writes[0] = bind_group_provider.BufferWrite{Provider: l.camera, Binding: 0, Data: cam.Marshal()}
	l.writes[1] = bind_group_provider.BufferWrite{Provider: l.lighting, Binding: 0, Data: sun.Marshal()}
	l.writes[2] = bind_group_provider.BufferWrite{Provider: l.lighting, Binding: 1, Data: cascades.Marshal()}
	l.writes[3] = bind_group_provider.BufferWrite{Provider: l.lighting, Binding: 4, Data: points.Marshal()}
	enc.WriteBuffers(l.writes)
}

// render draws every scene item into the HDR target with the pipeline named by key,
// resolving MSAA when enabled.
func (l *litPass) render(enc renderer.PassEncoder, key string, draws []scene.DrawItem) error {
	desc := renderer.PassDescriptor{
		Label:      "lit",
		Color:      l.hdr.View,
		ColorLoad:  wgpu.LoadOpClear,
		ClearColor: clearColor,
		Depth:      l.depth.View,
		DepthClear: 1.0,
	}
	if l.msaa != nil {
		desc.Color = l.msaa.View
		desc.Resolve = l.hdr.View
	}
	if err := enc.BeginPass(desc); err != nil {
		return fmt.Errorf("frame: lit: %w", err)
	}
	for _, d := range draws {
		l.bgs[0], l.bgs[1], l.bgs[2] = l.camera, d.Instances, l.lighting
		if err := enc.Draw(key, d.Mesh, d.InstanceCount, l.bgs); err != nil {
			enc.EndPass()
			return fmt.Errorf("frame: lit: %w", err)
		}
	}
	enc.EndPass()
	return nil
}

func (l *litPass) release() {
	for _, bgp := range []bind_group_provider.BindGroupProvider{l.camera, l.lighting} {
		if bgp != nil {
			bgp.Release()
		}
	}
	l.camera, l.lighting = nil, nil
	for _, t := range []*common.RenderTarget{l.hdr, l.msaa, l.depth} {
		if t != nil {
			t.Release()
		}
	}
	l.hdr, l.msaa, l.depth = nil, nil, nil
}
