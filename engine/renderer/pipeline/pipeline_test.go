package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const src = "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }"

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("lit")

	if p.PipelineKey() != "lit" {
		t.Errorf("key = %q", p.PipelineKey())
	}
	if p.ColorFormat() != wgpu.TextureFormatUndefined {
		t.Errorf("color format = %v, want swapchain sentinel", p.ColorFormat())
	}
	if p.DepthFormat() != wgpu.TextureFormatDepth24Plus {
		t.Errorf("depth format = %v", p.DepthFormat())
	}
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() || p.BlendEnabled() {
		t.Error("unexpected depth/blend defaults")
	}
	if p.SampleCount() != 0 {
		t.Errorf("sample count = %d, want 0", p.SampleCount())
	}
	if p.RenderPipeline() != nil {
		t.Error("pipeline should not be created before registration")
	}
}

func TestPipelineOptions(t *testing.T) {
	vs := shader.NewShader("vs", shader.ShaderTypeVertex, src)
	p := NewPipeline("bloom_up",
		WithVertexShader(vs),
		WithColorFormat(wgpu.TextureFormatRGBA16Float),
		WithDepthFormat(wgpu.TextureFormatUndefined),
		WithSampleCount(1),
		WithCullMode(wgpu.CullModeFront),
		WithDepthBias(2, 1.5),
		WithAdditiveBlend(),
	)

	if p.Shader(shader.ShaderTypeVertex) != vs {
		t.Error("vertex shader not stored")
	}
	if p.Shader(shader.ShaderTypeFragment) != nil {
		t.Error("fragment shader should be nil")
	}
	if p.ColorFormat() != wgpu.TextureFormatRGBA16Float || p.DepthFormat() != wgpu.TextureFormatUndefined || p.SampleCount() != 1 {
		t.Error("attachment options not applied")
	}
	if p.CullMode() != wgpu.CullModeFront || p.DepthBias() != 2 || p.DepthBiasSlopeScale() != 1.5 {
		t.Error("raster options not applied")
	}
	if !p.BlendEnabled() {
		t.Fatal("additive blend should enable blending")
	}
	b := p.BlendState()
	if b.Color.SrcFactor != wgpu.BlendFactorOne || b.Color.DstFactor != wgpu.BlendFactorOne || b.Color.Operation != wgpu.BlendOperationAdd {
		t.Errorf("color blend = %+v, want One/One/Add", b.Color)
	}
}
