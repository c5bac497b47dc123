package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/camera"
	"github.com/Carmen-Shannon/oxy-csm/engine/input"
	"github.com/Carmen-Shannon/oxy-csm/engine/light"
	"github.com/Carmen-Shannon/oxy-csm/engine/mesh"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-csm/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// fakeGPU records frames and hands out targets with placeholder views. The views are
// never released: they wrap no GPU object.
type fakeGPU struct {
	*renderertest.Recorder

	width, height int
	samples       renderer.MSAASampleCount
	format        wgpu.TextureFormat

	targets   []common.RenderTargetStagingData
	pipelines []pipeline.Pipeline
	resizes   [][2]int
}

func newFakeGPU(samples renderer.MSAASampleCount) *fakeGPU {
	return &fakeGPU{
		Recorder: &renderertest.Recorder{},
		width:    1920,
		height:   1080,
		samples:  samples,
		format:   wgpu.TextureFormatBGRA8UnormSrgb,
	}
}

func (f *fakeGPU) CreateRenderTarget(s common.RenderTargetStagingData) (*common.RenderTarget, error) {
	f.targets = append(f.targets, s)
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
	return t, nil
}

func (f *fakeGPU) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]uint64) error {
	return nil
}

func (f *fakeGPU) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeGPU) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (f *fakeGPU) RegisterPipelines(p ...pipeline.Pipeline) error {
	f.pipelines = append(f.pipelines, p...)
	return nil
}

func (f *fakeGPU) SurfaceFormat() wgpu.TextureFormat     { return f.format }
func (f *fakeGPU) SurfaceSize() (int, int)               { return f.width, f.height }
func (f *fakeGPU) SampleCount() renderer.MSAASampleCount { return f.samples }
func (f *fakeGPU) Resize(width, height int)              { f.resizes = append(f.resizes, [2]int{width, height}) }

func newContext(t *testing.T) *RenderContext {
	t.Helper()
	s := scene.NewScene("test",
		scene.WithMeshes(mesh.NewPlane(100), mesh.NewCube()),
		scene.WithNodes(
			scene.Node{Mesh: mesh.PlaneName, Scale: mgl32.Vec3{1, 1, 1}, Albedo: mgl32.Vec4{0.5, 0.5, 0.5, 1}},
			scene.Node{Mesh: mesh.CubeName, Position: mgl32.Vec3{0, 1, 0}, Scale: mgl32.Vec3{1, 1, 1}, Albedo: mgl32.Vec4{1, 0, 0, 1}},
			scene.Node{Mesh: mesh.CubeName, Position: mgl32.Vec3{4, 1, -8}, Scale: mgl32.Vec3{1, 1, 1}, Albedo: mgl32.Vec4{4, 4, 4, 1}},
		),
		scene.WithPrepWorkers(2),
	)
	t.Cleanup(s.Release)
	return &RenderContext{
		Camera: camera.NewCamera(
			camera.WithAspect(16.0/9.0),
			camera.WithFar(60),
			camera.WithController(camera.NewOrbitController()),
		),
		Light:        light.NewLight(light.WithDirection(-0.3, -1, -0.2)),
		Scene:        s,
		DT:           1.0 / 60,
		BloomEnabled: true,
	}
}

func noInput() input.FrameInput {
	return input.NewPending().Consume()
}

func press(keys ...int) input.FrameInput {
	p := input.NewPending()
	for _, k := range keys {
		p.KeyDown(k)
	}
	return p.Consume()
}

func TestNewOrchestratorAllocates(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAA4x)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx, WithCascadeCount(4), WithShadowResolution(1024), WithBloomLevels(5))
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	if o.CascadeCount() != 4 {
		t.Errorf("CascadeCount() = %d", o.CascadeCount())
	}

	labels := make([]string, len(gpu.targets))
	for i, s := range gpu.targets {
		labels[i] = s.Label
	}
	want := []string{"Shadow Map Array", "HDR Color", "HDR Color MSAA", "Scene Depth",
		"Bloom Mip 0", "Bloom Mip 1", "Bloom Mip 2", "Bloom Mip 3", "Bloom Mip 4"}
	if !slices.Equal(labels, want) {
		t.Errorf("targets = %v, want %v", labels, want)
	}
	if gpu.targets[2].SampleCount != 4 || gpu.targets[3].SampleCount != 4 {
		t.Errorf("MSAA color/depth sample counts = %d, %d", gpu.targets[2].SampleCount, gpu.targets[3].SampleCount)
	}
	if gpu.targets[1].Format != HDRFormat || !gpu.targets[1].Sampled {
		t.Errorf("hdr target = %+v", gpu.targets[1])
	}

	var keys []string
	for _, p := range gpu.pipelines {
		keys = append(keys, p.PipelineKey())
	}
	for _, k := range []string{"shadow.depth", LitPipelineKey, GoochPipelineKey, "bloom.downsample", "bloom.upsample", "bloom.composite"} {
		if !slices.Contains(keys, k) {
			t.Errorf("pipeline %q not registered (have %v)", k, keys)
		}
	}
	if ctx.BloomStrength == 0 || ctx.Exposure == 0 {
		t.Errorf("context defaults not filled: %+v", ctx)
	}
}

func TestNewOrchestratorRejectsBadContext(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)

	if _, err := NewOrchestrator(gpu, &RenderContext{}); !errors.Is(err, ErrIncompleteContext) {
		t.Errorf("empty context: err = %v", err)
	}

	ctx := newContext(t)
	ctx.Camera = camera.NewCamera(camera.WithNear(0))
	if _, err := NewOrchestrator(gpu, ctx); !errors.Is(err, camera.ErrInvalidCamera) {
		t.Errorf("near 0: err = %v, want ErrInvalidCamera", err)
	}
	if len(gpu.targets) != 0 {
		t.Errorf("allocated %d targets before validating", len(gpu.targets))
	}
}

func TestNewOrchestratorRejectsShrinkingZPadding(t *testing.T) {
	for _, zMult := range []float32{0.5, 0, -10, float32(math.NaN())} {
		gpu := newFakeGPU(renderer.MSAAOff)
		_, err := NewOrchestrator(gpu, newContext(t), WithZPadding(zMult))
		if !errors.Is(err, ErrInvalidZPadding) {
			t.Errorf("zMult %v: err = %v, want ErrInvalidZPadding", zMult, err)
		}
		if len(gpu.targets) != 0 {
			t.Errorf("zMult %v: allocated %d targets", zMult, len(gpu.targets))
		}
	}

	if _, err := NewOrchestrator(newFakeGPU(renderer.MSAAOff), newContext(t), WithZPadding(1)); err != nil {
		t.Errorf("zMult 1: %v", err)
	}
}

// lastWrite returns the data of the most recent write to provider/binding.
func lastWrite(t *testing.T, calls []renderertest.Call, provider string, binding int) []byte {
	t.Helper()
	var data []byte
	for _, c := range calls {
		for _, w := range c.Writes {
			if w.Provider.Label() == provider && w.Binding == binding {
				data = w.Data
			}
		}
	}
	if data == nil {
		t.Fatalf("no write to %s/%d", provider, binding)
	}
	return data
}

func TestRenderFramePassOrder(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAA4x)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx, WithCascadeCount(3), WithBloomLevels(4))
	if err != nil {
		t.Fatal(err)
	}

	if err := o.RenderFrame(ctx, noInput()); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	want := []string{
		"shadow[0]", "shadow[1]", "shadow[2]",
		"lit",
		"bloom.down[0]", "bloom.down[1]", "bloom.down[2]", "bloom.down[3]",
		"bloom.up[2]", "bloom.up[1]", "bloom.up[0]",
		"composite",
	}
	if got := gpu.Passes(); !slices.Equal(got, want) {
		t.Errorf("passes = %v\nwant %v", got, want)
	}

	calls := gpu.Calls()
	if calls[0].Op != renderertest.OpBeginFrame {
		t.Errorf("first call = %v, want BeginFrame", calls[0].Op)
	}
	n := len(calls)
	if calls[n-2].Op != renderertest.OpEndFrame || calls[n-1].Op != renderertest.OpPresent {
		t.Errorf("frame not closed with EndFrame, Present: %v %v", calls[n-2].Op, calls[n-1].Op)
	}

	// All uniform writes land before the first pass.
	firstPass := slices.IndexFunc(calls, func(c renderertest.Call) bool { return c.Op == renderertest.OpBeginPass })
	var written []string
	for _, c := range calls[:firstPass] {
		for _, w := range c.Writes {
			written = append(written, fmt.Sprintf("%s/%d", w.Provider.Label(), w.Binding))
		}
	}
	for _, w := range []string{"Camera/0", "Lighting/0", "Lighting/1", "Lighting/4", "Shadow Cascade 0/0", "cube Instances/0"} {
		if !slices.Contains(written, w) {
			t.Errorf("write %s missing before first pass (have %v)", w, written)
		}
	}
}

func TestLitPassBindings(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAA4x)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.RenderFrame(ctx, noInput()); err != nil {
		t.Fatal(err)
	}

	var lit []renderertest.Call
	for _, c := range gpu.Calls() {
		if c.Op == renderertest.OpDraw && c.Pipeline == LitPipelineKey {
			lit = append(lit, c)
		}
	}
	if len(lit) != 2 {
		t.Fatalf("lit draws = %d, want 2 (plane, cube)", len(lit))
	}
	if got := lit[1].BindGroups; !slices.Equal(got, []string{"Camera", "cube Instances", "Lighting"}) {
		t.Errorf("lit bind groups = %v", got)
	}
	if lit[1].Instances != 2 {
		t.Errorf("cube instances = %d, want 2", lit[1].Instances)
	}
	pass := lit[0].Pass
	if pass.Resolve == nil || pass.Color == pass.Resolve || pass.Depth == nil {
		t.Errorf("MSAA lit pass should resolve into the HDR target: %+v", pass)
	}
}

func TestLitPassWithoutMSAA(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range gpu.targets {
		if s.Label == "HDR Color MSAA" {
			t.Errorf("MSAA target allocated with MSAA off")
		}
	}
	if err := o.RenderFrame(ctx, noInput()); err != nil {
		t.Fatal(err)
	}
	for _, c := range gpu.Calls() {
		if c.Op == renderertest.OpBeginPass && c.Pass.Label == "lit" && c.Pass.Resolve != nil {
			t.Errorf("single-sample lit pass has a resolve target")
		}
	}
}

func TestBloomToggleSkipsLadder(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx, WithCascadeCount(2))
	if err != nil {
		t.Fatal(err)
	}

	if err := o.RenderFrame(ctx, press(common.KeyB)); err != nil {
		t.Fatal(err)
	}
	if ctx.BloomEnabled {
		t.Fatal("B did not toggle bloom off")
	}
	want := []string{"shadow[0]", "shadow[1]", "lit", "composite"}
	if got := gpu.Passes(); !slices.Equal(got, want) {
		t.Errorf("passes = %v, want %v", got, want)
	}
}

func TestDroppedFrame(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx)
	if err != nil {
		t.Fatal(err)
	}
	gpu.FrameErr = errors.New("surface outdated")

	if err := o.RenderFrame(ctx, noInput()); err != nil {
		t.Errorf("dropped frame returned %v, want nil", err)
	}
	if len(gpu.Passes()) != 0 {
		t.Errorf("passes recorded for a dropped frame: %v", gpu.Passes())
	}
}

func TestToggles(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx, WithExposure(1))
	if err != nil {
		t.Fatal(err)
	}

	if err := o.RenderFrame(ctx, press(common.KeyC, common.KeyEqual)); err != nil {
		t.Fatal(err)
	}
	if !ctx.CascadeDebug {
		t.Error("C did not enable the cascade tint")
	}
	if ctx.Exposure != exposureStep {
		t.Errorf("exposure = %v, want %v", ctx.Exposure, exposureStep)
	}
	if err := o.RenderFrame(ctx, press(common.KeyMinus)); err != nil {
		t.Fatal(err)
	}
	if !mgl32.FloatEqualThreshold(ctx.Exposure, 1, 1e-6) {
		t.Errorf("exposure = %v, want 1", ctx.Exposure)
	}
}

func TestResizeReconfiguresSurface(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx)
	if err != nil {
		t.Fatal(err)
	}

	p := input.NewPending()
	p.Resize(gpu.width, gpu.height)
	if err := o.RenderFrame(ctx, p.Consume()); err != nil {
		t.Fatal(err)
	}
	if len(gpu.resizes) != 0 {
		t.Errorf("resize to the current size reconfigured the surface")
	}

	p.Resize(800, 600)
	if err := o.RenderFrame(ctx, p.Consume()); err != nil {
		t.Fatal(err)
	}
	if len(gpu.resizes) != 1 || gpu.resizes[0] != [2]int{800, 600} {
		t.Errorf("resizes = %v", gpu.resizes)
	}
	if !mgl32.FloatEqualThreshold(ctx.Camera.Aspect(), 800.0/600.0, 1e-6) {
		t.Errorf("aspect = %v", ctx.Camera.Aspect())
	}
}

func TestCascadesCoverCameraRange(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx, WithCascadeCount(4))
	if err != nil {
		t.Fatal(err)
	}

	params := ctx.Camera.Params()
	cascades := o.Cascades(params, ctx.Light.ToLight())
	if len(cascades) != 4 {
		t.Fatalf("len = %d", len(cascades))
	}
	if cascades[0].Near != params.Near || cascades[3].Far != params.Far {
		t.Errorf("range [%v, %v], want [%v, %v]", cascades[0].Near, cascades[3].Far, params.Near, params.Far)
	}
	for i, c := range cascades {
		if c.LightSpace == mgl32.Ident4() {
			t.Errorf("cascade %d not fitted", i)
		}
		if i > 0 && c.Near != cascades[i-1].Far {
			t.Errorf("gap between cascade %d and %d", i-1, i)
		}
	}
}

func TestLitShaderParses(t *testing.T) {
	err := shader.Validate(LitShaderSource())
	if errors.Is(err, shader.ErrWGSLSemantic) {
		t.Skipf("semantic validation not supported: %v", err)
	}
	if err != nil {
		t.Fatalf("lit.wgsl: %v", err)
	}
}

func TestShadowlessLightSkipsShadowPasses(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx, WithCascadeCount(3), WithBloomLevels(2))
	if err != nil {
		t.Fatal(err)
	}
	ctx.Light.SetCastsShadows(false)

	if err := o.RenderFrame(ctx, noInput()); err != nil {
		t.Fatal(err)
	}
	want := []string{"lit", "bloom.down[0]", "bloom.down[1]", "bloom.up[0]", "composite"}
	if got := gpu.Passes(); !slices.Equal(got, want) {
		t.Errorf("passes = %v, want %v", got, want)
	}
	cascades := lastWrite(t, gpu.Calls(), "Lighting", 1)
	if got := binary.LittleEndian.Uint32(cascades[332:]); got != 0 {
		t.Errorf("cascade uniform shadows = %d, want 0 so the lit pass reads fully lit", got)
	}
	if got := binary.LittleEndian.Uint32(cascades[320:]); got != 3 {
		t.Errorf("cascade count = %d, want 3", got)
	}

	// X turns the sun's shadows back on.
	gpu.Reset()
	if err := o.RenderFrame(ctx, press(common.KeyX)); err != nil {
		t.Fatal(err)
	}
	if !ctx.Light.CastsShadows() {
		t.Fatal("X did not re-enable shadows")
	}
	if got := gpu.Passes(); len(got) < 3 || got[0] != "shadow[0]" || got[2] != "shadow[2]" {
		t.Errorf("passes = %v, want shadow[0..2] first", got)
	}
	cascades = lastWrite(t, gpu.Calls(), "Lighting", 1)
	if got := binary.LittleEndian.Uint32(cascades[332:]); got != 1 {
		t.Errorf("cascade uniform shadows = %d, want 1", got)
	}
}

func TestDisabledLightSkipsShadowPasses(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx)
	if err != nil {
		t.Fatal(err)
	}
	ctx.Light.SetEnabled(false)
	if err := o.RenderFrame(ctx, noInput()); err != nil {
		t.Fatal(err)
	}
	if got := gpu.Passes(); got[0] != "lit" {
		t.Errorf("first pass = %s, want lit", got[0])
	}
}

func TestPointLightsUploaded(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	ctx.PointLights = []light.PointLight{
		light.NewPointLight(light.WithPosition(mgl32.Vec3{2, 3, 0}), light.WithColor(1, 0.6, 0.2)),
		light.NewPointLight(light.WithPosition(mgl32.Vec3{-2, 3, 0})),
	}
	o, err := NewOrchestrator(gpu, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.RenderFrame(ctx, noInput()); err != nil {
		t.Fatal(err)
	}

	points := lastWrite(t, gpu.Calls(), "Lighting", 4)
	if len(points) != 336 {
		t.Fatalf("point light uniform = %d bytes, want 336", len(points))
	}
	if got := binary.LittleEndian.Uint32(points[320:]); got != 2 {
		t.Errorf("point light count = %d, want 2", got)
	}
	if x := math.Float32frombits(binary.LittleEndian.Uint32(points[80:])); x != -2 {
		t.Errorf("second light x = %v, want -2", x)
	}
}

func TestGoochToggleSwitchesPipeline(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx)
	if err != nil {
		t.Fatal(err)
	}

	litDraws := func() []string {
		var keys []string
		for _, c := range gpu.Calls() {
			if c.Op == renderertest.OpDraw && c.Pass.Label == "lit" {
				keys = append(keys, c.Pipeline)
			}
		}
		return keys
	}

	if err := o.RenderFrame(ctx, press(common.KeyG)); err != nil {
		t.Fatal(err)
	}
	if !ctx.Gooch {
		t.Fatal("G did not enable Gooch shading")
	}
	for _, k := range litDraws() {
		if k != GoochPipelineKey {
			t.Errorf("lit draw used %q, want %q", k, GoochPipelineKey)
		}
	}

	gpu.Reset()
	if err := o.RenderFrame(ctx, press(common.KeyG)); err != nil {
		t.Fatal(err)
	}
	for _, k := range litDraws() {
		if k != LitPipelineKey {
			t.Errorf("lit draw used %q, want %q", k, LitPipelineKey)
		}
	}
}

func TestFilterRadiusKeys(t *testing.T) {
	gpu := newFakeGPU(renderer.MSAAOff)
	ctx := newContext(t)
	o, err := NewOrchestrator(gpu, ctx, WithBloomFilterRadius(0.004))
	if err != nil {
		t.Fatal(err)
	}

	if err := o.RenderFrame(ctx, press(common.KeyRightBracket)); err != nil {
		t.Fatal(err)
	}
	if got := o.chain.FilterRadius(); !mgl32.FloatEqualThreshold(got, 0.004*filterRadiusStep, 1e-7) {
		t.Errorf("radius after ] = %v, want %v", got, 0.004*filterRadiusStep)
	}

	for range 40 {
		if err := o.RenderFrame(ctx, press(common.KeyLeftBracket)); err != nil {
			t.Fatal(err)
		}
	}
	if got := o.chain.FilterRadius(); got != minFilterRadius {
		t.Errorf("radius = %v, want clamp at %v", got, minFilterRadius)
	}
}
