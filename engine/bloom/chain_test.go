package bloom

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type fakeDevice struct {
	staged    []common.RenderTargetStagingData
	views     map[*wgpu.TextureView]string
	bound     map[string]bind_group_provider.BindGroupProvider
	pipelines map[string]pipeline.Pipeline
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		views:     map[*wgpu.TextureView]string{},
		bound:     map[string]bind_group_provider.BindGroupProvider{},
		pipelines: map[string]pipeline.Pipeline{},
	}
}

func (f *fakeDevice) CreateRenderTarget(s common.RenderTargetStagingData) (*common.RenderTarget, error) {
	f.staged = append(f.staged, s)
	view := &wgpu.TextureView{}
	f.views[view] = s.Label
	return &common.RenderTarget{View: view, LayerViews: []*wgpu.TextureView{view}, Width: s.Width, Height: s.Height, Layers: 1, Format: s.Format}, nil
}

func (f *fakeDevice) InitBindGroup(p bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, _ map[int]uint64) error {
	f.bound[p.Label()] = p
	return nil
}

func (f *fakeDevice) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeDevice) RegisterPipelines(ps ...pipeline.Pipeline) error {
	for _, p := range ps {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

// sourceOf names the texture a bind group samples at binding 0.
func (f *fakeDevice) sourceOf(label string) string {
	return f.views[f.bound[label].TextureView(0)]
}

func TestNewChainAllocatesLadder(t *testing.T) {
	dev := newFakeDevice()
	hdr := &wgpu.TextureView{}
	dev.views[hdr] = "HDR"

	c, err := NewChain(dev, hdr, 1920, 1080)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if c.Levels() != DefaultLevels || len(c.Mips()) != DefaultLevels {
		t.Fatalf("levels = %d, mips = %d", c.Levels(), len(c.Mips()))
	}

	want := MipSizes(1920, 1080, DefaultLevels)
	for i, s := range dev.staged {
		if s.Format != wgpu.TextureFormatRGBA16Float || !s.Sampled {
			t.Errorf("level %d staged as %+v", i, s)
		}
		if s.Width != want[i][0] || s.Height != want[i][1] {
			t.Errorf("level %d is %dx%d, want %v", i, s.Width, s.Height, want[i])
		}
	}

	if got := dev.sourceOf("Bloom Down 0"); got != "HDR" {
		t.Errorf("first downsample reads %q, want HDR", got)
	}
	for i := 1; i < DefaultLevels; i++ {
		if got, want := dev.sourceOf(fmt.Sprintf("Bloom Down %d", i)), fmt.Sprintf("Bloom Mip %d", i-1); got != want {
			t.Errorf("downsample %d reads %q, want %q", i, got, want)
		}
	}
	for i := 0; i < DefaultLevels-1; i++ {
		if got, want := dev.sourceOf(fmt.Sprintf("Bloom Up %d", i)), fmt.Sprintf("Bloom Mip %d", i+1); got != want {
			t.Errorf("upsample %d reads %q, want %q", i, got, want)
		}
	}
	if _, ok := dev.bound[fmt.Sprintf("Bloom Up %d", DefaultLevels-1)]; ok {
		t.Error("the smallest level has nothing to upsample from")
	}
	if c.GlowView() != c.Mips()[0].View {
		t.Error("glow must be level 0")
	}

	down := dev.pipelines[DownsamplePipelineKey]
	up := dev.pipelines[UpsamplePipelineKey]
	if down == nil || up == nil {
		t.Fatal("ladder pipelines not registered")
	}
	if down.BlendEnabled() {
		t.Error("downsample must overwrite, not blend")
	}
	bs := up.BlendState()
	if !up.BlendEnabled() || bs.Color.SrcFactor != wgpu.BlendFactorOne || bs.Color.DstFactor != wgpu.BlendFactorOne || bs.Color.Operation != wgpu.BlendOperationAdd {
		t.Errorf("upsample blend = %+v, want One/One/Add", bs)
	}
	for _, p := range []pipeline.Pipeline{down, up} {
		if p.ColorFormat() != Format || p.DepthFormat() != wgpu.TextureFormatUndefined || p.SampleCount() != 1 {
			t.Errorf("%s targets %v/%v x%d", p.PipelineKey(), p.ColorFormat(), p.DepthFormat(), p.SampleCount())
		}
	}
}

func TestNewChainInvalid(t *testing.T) {
	hdr := &wgpu.TextureView{}
	tests := []struct {
		name   string
		source *wgpu.TextureView
		w, h   uint32
		opts   []ChainBuilderOption
	}{
		{"nil source", nil, 640, 480, nil},
		{"zero width", hdr, 0, 480, nil},
		{"zero height", hdr, 640, 0, nil},
		{"no levels", hdr, 640, 480, []ChainBuilderOption{WithLevels(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChain(newFakeDevice(), tt.source, tt.w, tt.h, tt.opts...); !errors.Is(err, ErrInvalidChain) {
				t.Errorf("err = %v, want ErrInvalidChain", err)
			}
		})
	}
}

func TestRenderOrdering(t *testing.T) {
	dev := newFakeDevice()
	c, err := NewChain(dev, &wgpu.TextureView{}, 1280, 720, WithLevels(4))
	if err != nil {
		t.Fatal(err)
	}

	rec := &renderertest.Recorder{}
	if err := c.Render(rec); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []string{
		"bloom.down[0]", "bloom.down[1]", "bloom.down[2]", "bloom.down[3]",
		"bloom.up[2]", "bloom.up[1]", "bloom.up[0]",
	}
	if got := rec.Passes(); !slices.Equal(got, want) {
		t.Fatalf("passes = %v, want %v", got, want)
	}

	mips := c.Mips()
	for _, call := range rec.Calls() {
		if call.Op != renderertest.OpBeginPass {
			continue
		}
		var level int
		if strings.HasPrefix(call.Pass.Label, "bloom.down") {
			fmt.Sscanf(call.Pass.Label, "bloom.down[%d]", &level)
			if call.Pass.ColorLoad != wgpu.LoadOpClear {
				t.Errorf("%s should clear its level", call.Pass.Label)
			}
		} else {
			fmt.Sscanf(call.Pass.Label, "bloom.up[%d]", &level)
			if call.Pass.ColorLoad != wgpu.LoadOpLoad {
				t.Errorf("%s must load its level to accumulate", call.Pass.Label)
			}
		}
		if call.Pass.Color != mips[level].View {
			t.Errorf("%s renders into the wrong level", call.Pass.Label)
		}
		if call.Pass.Depth != nil || call.Pass.Surface {
			t.Errorf("%s should have a single color attachment", call.Pass.Label)
		}
	}
}

func TestParamsUploadedOnce(t *testing.T) {
	c, err := NewChain(newFakeDevice(), &wgpu.TextureView{}, 800, 600, WithLevels(3), WithFilterRadius(0.01))
	if err != nil {
		t.Fatal(err)
	}
	rec := &renderertest.Recorder{}

	if err := c.Render(rec); err != nil {
		t.Fatal(err)
	}
	calls := rec.Calls()
	if calls[0].Op != renderertest.OpWriteBuffers {
		t.Fatalf("first call = %v, want WriteBuffers", calls[0].Op)
	}
	writes := calls[0].Writes
	if len(writes) != 3+2 {
		t.Fatalf("%d param writes, want one per bind group", len(writes))
	}
	// The first downsample reads the 800x600 source.
	first := GPUBloomParams{SrcResolution: [2]float32{800, 600}, FilterRadius: 0.01}
	if !slices.Equal(writes[0].Data, first.Marshal()) {
		t.Errorf("first downsample params = %v", writes[0].Data)
	}

	rec.Reset()
	if err := c.Render(rec); err != nil {
		t.Fatal(err)
	}
	for _, call := range rec.Calls() {
		if call.Op == renderertest.OpWriteBuffers {
			t.Fatal("unchanged params should not be re-uploaded")
		}
	}

	rec.Reset()
	c.SetFilterRadius(0.02)
	if err := c.Upsample(rec); err != nil {
		t.Fatal(err)
	}
	if calls := rec.Calls(); calls[0].Op != renderertest.OpWriteBuffers {
		t.Error("a new filter radius should be uploaded before the next pass")
	}
}

func TestLadderShadersValidate(t *testing.T) {
	sources := map[string]string{
		"downsample": DownsampleShaderSource(),
		"upsample":   UpsampleShaderSource(),
		"composite":  CompositeShaderSource(),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			if err := shader.Validate(src); err != nil {
				if errors.Is(err, shader.ErrWGSLSemantic) {
					t.Skipf("validator does not support this source: %v", err)
				}
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}
