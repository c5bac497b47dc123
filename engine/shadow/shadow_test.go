package shadow

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/light"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-csm/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeDevice struct {
	target    *common.RenderTarget
	staging   common.RenderTargetStagingData
	pipelines []pipeline.Pipeline
	samplers  map[int]common.SamplerStagingData
	bound     []string
}

// completeTarget mimics what the renderer returns for the staging data.
func completeTarget(s common.RenderTargetStagingData) *common.RenderTarget {
	layers := max(s.Layers, 1)
	t := &common.RenderTarget{
		View:   &wgpu.TextureView{},
		Width:  s.Width,
		Height: s.Height,
		Layers: layers,
		Format: s.Format,
		Usage:  wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	}
	for range layers {
		t.LayerViews = append(t.LayerViews, &wgpu.TextureView{})
	}
	return t
}

func (f *fakeDevice) CreateRenderTarget(s common.RenderTargetStagingData) (*common.RenderTarget, error) {
	f.staging = s
	if f.target != nil {
		return f.target, nil
	}
	return completeTarget(s), nil
}

func (f *fakeDevice) InitBindGroup(p bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, _ map[int]uint64) error {
	f.bound = append(f.bound, p.Label())
	return nil
}

func (f *fakeDevice) InitSampler(_ bind_group_provider.BindGroupProvider, binding int, s common.SamplerStagingData) error {
	if f.samplers == nil {
		f.samplers = map[int]common.SamplerStagingData{}
	}
	f.samplers[binding] = s
	return nil
}

func (f *fakeDevice) RegisterPipelines(p ...pipeline.Pipeline) error {
	f.pipelines = append(f.pipelines, p...)
	return nil
}

func TestNewMapArray(t *testing.T) {
	dev := &fakeDevice{}
	m, err := NewMapArray(dev, WithCascadeCount(4), WithResolution(1024))
	if err != nil {
		t.Fatalf("NewMapArray: %v", err)
	}

	if m.Count() != 4 || m.Resolution() != 1024 {
		t.Errorf("Count, Resolution = %d, %d", m.Count(), m.Resolution())
	}
	if dev.staging.Format != wgpu.TextureFormatDepth32Float || dev.staging.Layers != 4 || !dev.staging.Array || !dev.staging.Sampled {
		t.Errorf("unexpected staging data %+v", dev.staging)
	}
	want := []string{"Shadow Cascade 0", "Shadow Cascade 1", "Shadow Cascade 2", "Shadow Cascade 3"}
	if !slices.Equal(dev.bound, want) {
		t.Errorf("bound providers = %v, want one per cascade", dev.bound)
	}

	if len(dev.pipelines) != 1 {
		t.Fatalf("registered %d pipelines, want 1", len(dev.pipelines))
	}
	p := dev.pipelines[0]
	if p.PipelineKey() != PipelineKey {
		t.Errorf("pipeline key = %q", p.PipelineKey())
	}
	if p.CullMode() != wgpu.CullModeFront {
		t.Error("shadow pipeline must cull front faces")
	}
	if p.DepthFormat() != wgpu.TextureFormatDepth32Float || p.SampleCount() != 1 {
		t.Errorf("depth format %v, samples %d", p.DepthFormat(), p.SampleCount())
	}
	if p.Shader(shader.ShaderTypeFragment) != nil {
		t.Error("shadow pipeline should be depth-only")
	}
}

func TestNewMapArrayRejectsCascadeCount(t *testing.T) {
	for _, n := range []int{0, -1, light.MaxCascades + 1} {
		if _, err := NewMapArray(&fakeDevice{}, WithCascadeCount(n)); !errors.Is(err, ErrInvalidCascadeCount) {
			t.Errorf("count %d: err = %v, want ErrInvalidCascadeCount", n, err)
		}
	}
}

func TestNewMapArrayIncompleteAttachment(t *testing.T) {
	dev := &fakeDevice{target: &common.RenderTarget{Format: Format, Layers: 3}}
	if _, err := NewMapArray(dev); !errors.Is(err, ErrIncompleteAttachment) {
		t.Errorf("err = %v, want ErrIncompleteAttachment", err)
	}
}

func TestValidateAttachment(t *testing.T) {
	base := common.RenderTargetStagingData{Width: 512, Height: 512, Layers: 3, Format: Format}

	tests := []struct {
		name   string
		mutate func(*common.RenderTarget)
		ok     bool
	}{
		{"complete", func(*common.RenderTarget) {}, true},
		{"no array view", func(t *common.RenderTarget) { t.View = nil }, false},
		{"wrong format", func(t *common.RenderTarget) { t.Format = wgpu.TextureFormatDepth24Plus }, false},
		{"missing layer", func(t *common.RenderTarget) { t.LayerViews = t.LayerViews[:2] }, false},
		{"nil layer view", func(t *common.RenderTarget) { t.LayerViews[1] = nil }, false},
		{"zero size", func(t *common.RenderTarget) { t.Width = 0 }, false},
		{"not sampled", func(t *common.RenderTarget) { t.Usage = wgpu.TextureUsageRenderAttachment }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := completeTarget(base)
			tt.mutate(target)
			err := validateAttachment(target, 3, 512)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrIncompleteAttachment) {
				t.Errorf("err = %v, want ErrIncompleteAttachment", err)
			}
		})
	}
}

func TestBindAttachesComparisonSampler(t *testing.T) {
	dev := &fakeDevice{}
	m, err := NewMapArray(dev)
	if err != nil {
		t.Fatal(err)
	}
	lit := bind_group_provider.NewBindGroupProvider("lit")
	if err := m.Bind(dev, lit, 2, 3); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if lit.TextureView(2) != m.View() {
		t.Error("array view not attached at binding 2")
	}
	s, ok := dev.samplers[3]
	if !ok {
		t.Fatal("no sampler created at binding 3")
	}
	if s.Compare == wgpu.CompareFunctionUndefined || !s.Nearest {
		t.Errorf("sampler %+v should be a nearest comparison sampler", s)
	}
}

func TestRenderOrdersLayers(t *testing.T) {
	dev := &fakeDevice{}
	m, err := NewMapArray(dev, WithCascadeCount(3))
	if err != nil {
		t.Fatal(err)
	}

	cascades := light.SplitCascades(1, 100, 3)
	for i := range cascades {
		cascades[i].LightSpace = mgl32.Scale3D(float32(i+1), 1, 1)
	}
	draws := []scene.DrawItem{
		{Mesh: bind_group_provider.NewBindGroupProvider("plane"), Instances: bind_group_provider.NewBindGroupProvider("plane Instances"), InstanceCount: 1},
		{Mesh: bind_group_provider.NewBindGroupProvider("cube"), Instances: bind_group_provider.NewBindGroupProvider("cube Instances"), InstanceCount: 12},
	}

	rec := &renderertest.Recorder{Known: map[string]bool{PipelineKey: true}}
	if err := m.Render(rec, cascades, draws); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got, want := rec.Passes(), []string{"shadow[0]", "shadow[1]", "shadow[2]"}; !slices.Equal(got, want) {
		t.Fatalf("passes = %v, want %v", got, want)
	}

	calls := rec.Calls()
	if calls[0].Op != renderertest.OpWriteBuffers || len(calls[0].Writes) != 3 {
		t.Fatalf("first call = %v with %d writes; matrices must be uploaded before any pass", calls[0].Op, len(calls[0].Writes))
	}
	for i, w := range calls[0].Writes {
		if w.Provider.Label() != fmt.Sprintf("Shadow Cascade %d", i) || len(w.Data) != 64 {
			t.Errorf("write %d targets %s with %d bytes", i, w.Provider.Label(), len(w.Data))
		}
	}

	layer := -1
	for _, c := range calls[1:] {
		switch c.Op {
		case renderertest.OpBeginPass:
			layer++
			if c.Pass.Depth == nil || c.Pass.Color != nil || c.Pass.Surface {
				t.Errorf("layer %d should be depth-only", layer)
			}
			if c.Pass.DepthClear != 1 || !c.Pass.DepthStore {
				t.Errorf("layer %d must clear to 1 and store", layer)
			}
		case renderertest.OpDraw:
			if c.Pipeline != PipelineKey {
				t.Errorf("draw used pipeline %q", c.Pipeline)
			}
			if c.BindGroups[0] != fmt.Sprintf("Shadow Cascade %d", layer) {
				t.Errorf("layer %d drew with %v", layer, c.BindGroups)
			}
		}
	}
}

func TestRenderRejectsCascadeMismatch(t *testing.T) {
	m, err := NewMapArray(&fakeDevice{}, WithCascadeCount(2))
	if err != nil {
		t.Fatal(err)
	}
	rec := &renderertest.Recorder{}
	if err := m.Render(rec, light.SplitCascades(1, 10, 3), nil); err == nil {
		t.Error("expected an error for 3 cascades on 2 layers")
	}
	if len(rec.Passes()) != 0 {
		t.Error("no pass should begin on mismatch")
	}
}

func TestDepthShaderSource(t *testing.T) {
	src := DepthShaderSource()
	if err := shader.Validate(src); err != nil {
		if errors.Is(err, shader.ErrWGSLSemantic) {
			t.Skipf("validator does not support this source: %v", err)
		}
		t.Fatalf("Validate: %v", err)
	}
}
