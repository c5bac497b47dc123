package bloom

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/renderertest"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestGPUParamsLayout(t *testing.T) {
	p := GPUBloomParams{SrcResolution: [2]float32{4, 2}, FilterRadius: 0.5}
	if p.Size() != 16 || len(p.Marshal()) != 16 {
		t.Errorf("GPUBloomParams size = %d", p.Size())
	}
	cp := GPUCompositeParams{BloomStrength: 0.04, Exposure: 1, Gamma: 2.2}
	if cp.Size() != 16 || len(cp.Marshal()) != 16 {
		t.Errorf("GPUCompositeParams size = %d", cp.Size())
	}
}

func TestCompositorGamma(t *testing.T) {
	hdr, glow := &wgpu.TextureView{}, &wgpu.TextureView{}
	tests := []struct {
		format wgpu.TextureFormat
		want   float32
	}{
		{wgpu.TextureFormatBGRA8UnormSrgb, 1},
		{wgpu.TextureFormatRGBA8UnormSrgb, 1},
		{wgpu.TextureFormatBGRA8Unorm, 2.2},
	}
	for _, tt := range tests {
		c, err := NewCompositor(newFakeDevice(), hdr, glow, tt.format)
		if err != nil {
			t.Fatal(err)
		}
		if c.Gamma() != tt.want {
			t.Errorf("gamma for %v = %v, want %v", tt.format, c.Gamma(), tt.want)
		}
	}
}

func TestCompositorRender(t *testing.T) {
	dev := newFakeDevice()
	hdr, glow := &wgpu.TextureView{}, &wgpu.TextureView{}
	c, err := NewCompositor(dev, hdr, glow, wgpu.TextureFormatBGRA8UnormSrgb)
	if err != nil {
		t.Fatal(err)
	}
	p := dev.pipelines[CompositePipelineKey]
	if p == nil || p.ColorFormat() != wgpu.TextureFormatUndefined || p.DepthFormat() != wgpu.TextureFormatUndefined {
		t.Fatal("composite pipeline should target the swapchain without depth")
	}
	if dev.bound["Composite"].TextureView(0) != hdr || dev.bound["Composite"].TextureView(1) != glow {
		t.Error("composite must read hdr at 0 and glow at 1")
	}

	rec := &renderertest.Recorder{}
	if err := c.Render(rec, 0, 1.5); err != nil {
		t.Fatal(err)
	}
	calls := rec.Calls()
	want := GPUCompositeParams{BloomStrength: 0, Exposure: 1.5, Gamma: 1}
	if calls[0].Op != renderertest.OpWriteBuffers || !slices.Equal(calls[0].Writes[0].Data, want.Marshal()) {
		t.Errorf("params not uploaded first: %+v", calls[0])
	}
	if got := rec.Passes(); !slices.Equal(got, []string{"composite"}) || !calls[1].Pass.Surface {
		t.Errorf("passes = %v; composite must render to the surface", got)
	}
	if calls[2].Op != renderertest.OpDrawFullscreen || calls[2].Pipeline != CompositePipelineKey {
		t.Errorf("unexpected draw %+v", calls[2])
	}

	rec.Reset()
	if err := c.Render(rec, 0, 1.5); err != nil {
		t.Fatal(err)
	}
	if rec.Calls()[0].Op == renderertest.OpWriteBuffers {
		t.Error("unchanged params should not be re-uploaded")
	}
}

func TestCompositorRequiresViews(t *testing.T) {
	if _, err := NewCompositor(newFakeDevice(), nil, &wgpu.TextureView{}, wgpu.TextureFormatBGRA8Unorm); !errors.Is(err, ErrInvalidChain) {
		t.Errorf("err = %v, want ErrInvalidChain", err)
	}
}
