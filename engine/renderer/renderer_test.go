package renderer

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestDrawUnknownPipeline(t *testing.T) {
	r := &renderer{mu: &sync.Mutex{}, pipelineCache: map[string]pipeline.Pipeline{}}
	mesh := bind_group_provider.NewBindGroupProvider("cube")

	if err := r.Draw("missing", mesh, 1, nil); !errors.Is(err, ErrPipelineNotFound) {
		t.Errorf("Draw err = %v, want ErrPipelineNotFound", err)
	}
	if err := r.DrawFullscreen("missing", nil); !errors.Is(err, ErrPipelineNotFound) {
		t.Errorf("DrawFullscreen err = %v, want ErrPipelineNotFound", err)
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "camera", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageVertex}}},
		2: {Label: "light", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 1, Visibility: wgpu.ShaderStageVertex}}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		1: {Label: "instances", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}}},
		2: {Label: "light", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 2, Visibility: wgpu.ShaderStageFragment},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 3 {
		t.Fatalf("groups = %d, want 3", len(merged))
	}
	if merged[0].Label != "camera" || merged[1].Label != "instances" {
		t.Error("single-stage groups should pass through unchanged")
	}

	entries := merged[2].Entries
	if len(entries) != 3 {
		t.Fatalf("group 2 entries = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Binding != uint32(i) {
			t.Errorf("entry %d has binding %d; entries must be sorted", i, e.Binding)
		}
	}
	if entries[1].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Errorf("shared binding visibility = %v, want vertex|fragment", entries[1].Visibility)
	}
}

// stubBackend records pipeline registrations. Every other backend call panics.
type stubBackend struct {
	RendererBackend
	registered []string
}

func (b *stubBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.registered = append(b.registered, p.PipelineKey())
	return nil
}

const fullscreenWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    let uv = vec2<f32>(f32((i << 1u) & 2u), f32(i & 2u));
    return vec4<f32>(uv * 2.0 - 1.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func testPipeline(key, source string) pipeline.Pipeline {
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(shader.NewShader(key, shader.ShaderTypeVertex, source)),
		pipeline.WithFragmentShader(shader.NewShader(key, shader.ShaderTypeFragment, source)),
	)
}

func TestRegisterPipelinesRejectsBrokenWGSL(t *testing.T) {
	backend := &stubBackend{}
	r := &renderer{mu: &sync.Mutex{}, pipelineCache: map[string]pipeline.Pipeline{}, backend: backend}

	broken := testPipeline("composite", "@fragment fn fs_main( -> @location(0) vec4<f32> {")
	err := r.RegisterPipelines(broken)
	if !errors.Is(err, shader.ErrWGSLSyntax) {
		t.Fatalf("err = %v, want ErrWGSLSyntax", err)
	}
	if !strings.Contains(err.Error(), `"composite"`) {
		t.Errorf("err = %q, should name the pipeline", err)
	}
	if len(backend.registered) != 0 {
		t.Errorf("backend saw %v, broken pipelines must not reach the driver", backend.registered)
	}
	if r.Pipeline("composite") != nil {
		t.Error("broken pipeline should not be cached")
	}
}

func TestRegisterPipelinesCachesValidPipelines(t *testing.T) {
	backend := &stubBackend{}
	r := &renderer{mu: &sync.Mutex{}, pipelineCache: map[string]pipeline.Pipeline{}, backend: backend}

	p := testPipeline("composite", fullscreenWGSL)
	err := r.RegisterPipelines(p)
	if errors.Is(err, shader.ErrWGSLSyntax) {
		t.Fatalf("valid source rejected: %v", err)
	}
	if err != nil {
		t.Fatalf("RegisterPipelines: %v", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		t.Fatalf("second RegisterPipelines: %v", err)
	}
	if len(backend.registered) != 1 {
		t.Errorf("registered = %v, want one registration", backend.registered)
	}
	if r.Pipeline("composite") != p {
		t.Error("pipeline not cached")
	}
}
