// Package frame records one complete frame: cascade fitting, the shadow map array,
// the lit HDR pass, the bloom ladder and the tone-mapping composite.
package frame

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/bloom"
	"github.com/Carmen-Shannon/oxy-csm/engine/camera"
	"github.com/Carmen-Shannon/oxy-csm/engine/input"
	"github.com/Carmen-Shannon/oxy-csm/engine/light"
	"github.com/Carmen-Shannon/oxy-csm/engine/logger"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/scene"
	"github.com/Carmen-Shannon/oxy-csm/engine/shadow"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// exposureStep is the factor one +/- press scales the exposure by.
	exposureStep float32 = 1.25
	minExposure  float32 = 0.05
	maxExposure  float32 = 20

	// filterRadiusStep is the factor one [/] press scales the bloom filter radius by.
	filterRadiusStep float32 = 1.25
	minFilterRadius  float32 = 0.001
	maxFilterRadius  float32 = 0.05
)

// ErrIncompleteContext is returned by NewOrchestrator when the RenderContext lacks a
// camera, light or scene.
var ErrIncompleteContext = errors.New("incomplete render context")

// ErrInvalidZPadding is returned by NewOrchestrator when the cascade Z padding is below 1,
// which would shrink the light-space box and clip casters inside the sub-frustum.
var ErrInvalidZPadding = errors.New("z padding must be at least 1")

// Device creates the GPU objects a frame needs. renderer.Renderer satisfies it.
type Device interface {
	shadow.Device
	scene.GPU

	// SurfaceFormat returns the swapchain texture format.
	SurfaceFormat() wgpu.TextureFormat

	// SurfaceSize returns the swapchain size in pixels.
	SurfaceSize() (int, int)

	// SampleCount returns the MSAA sample count of the lit pass.
	SampleCount() renderer.MSAASampleCount

	// Resize reconfigures the swapchain.
	Resize(width, height int)
}

// GPU is a Device that also records frames. renderer.Renderer satisfies it.
type GPU interface {
	Device
	renderer.FrameEncoder
}

// RenderContext is the per-frame state the orchestrator reads and the input toggles
// write. The render goroutine owns it.
type RenderContext struct {
	Camera camera.Camera
	Light  light.Light
	Scene  scene.Scene

	// PointLights are unshadowed lights added on top of the sun. The first
	// light.MaxPointLights enabled ones are shaded.
	PointLights []light.PointLight

	// DT is the time since the previous frame in seconds.
	DT float32

	// BloomEnabled runs the bloom ladder. When false the composite mixes no glow.
	BloomEnabled bool
	// CascadeDebug tints lit fragments by the cascade they sample.
	CascadeDebug bool
	// Gooch shades the lit pass with the Gooch cool-to-warm model instead of Blinn-Phong.
	Gooch bool
	// BloomStrength is the glow mix factor of the composite.
	BloomStrength float32
	// Exposure is the exposure of the tone curve.
	Exposure float32
}

// Orchestrator owns every frame-level GPU resource and records frames in a fixed order:
// shadow layers, lit, bloom downsample, bloom upsample, composite.
type Orchestrator struct {
	gpu GPU

	cascadeCount     int
	shadowResolution uint32
	zPadding         float32
	depthBias        float32
	bloomLevels      int
	filterRadius     float32
	bloomStrength    float32
	exposure         float32

	width, height uint32

	shadows    *shadow.MapArray
	lit        *litPass
	chain      *bloom.Chain
	compositor *bloom.Compositor

	// fitted holds the last valid light-space matrix per cascade; a degenerate fit keeps it.
	fitted []mgl32.Mat4
}

// NewOrchestrator validates the context's camera once and allocates the shadow map array,
// the HDR targets, the bloom ladder and the compositor at the current surface size.
// The context's BloomStrength and Exposure are initialised from the options when zero.
//
// Parameters:
//   - gpu: the renderer
//   - ctx: the render context the orchestrator will be driven with
//   - options: functional options to configure the orchestrator
//
// Returns:
//   - *Orchestrator: the ready orchestrator
//   - error: ErrIncompleteContext, ErrInvalidZPadding, camera.ErrInvalidCamera, or a wrapped setup error
func NewOrchestrator(gpu GPU, ctx *RenderContext, options ...OrchestratorBuilderOption) (*Orchestrator, error) {
	o := &Orchestrator{
		gpu:              gpu,
		cascadeCount:     light.DefaultCascadeCount,
		shadowResolution: shadow.DefaultResolution,
		zPadding:         light.DefaultZPadding,
		depthBias:        light.DefaultDepthBias,
		bloomLevels:      bloom.DefaultLevels,
		filterRadius:     bloom.DefaultFilterRadius,
		bloomStrength:    bloom.DefaultStrength,
		exposure:         bloom.DefaultExposure,
	}
	for _, opt := range options {
		opt(o)
	}

	if ctx == nil || ctx.Camera == nil || ctx.Light == nil || ctx.Scene == nil {
		return nil, fmt.Errorf("frame: %w", ErrIncompleteContext)
	}
	if !(o.zPadding >= 1) {
		return nil, fmt.Errorf("frame: z padding %v: %w", o.zPadding, ErrInvalidZPadding)
	}
	if err := ctx.Camera.Validate(); err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	if ctx.BloomStrength == 0 {
		ctx.BloomStrength = o.bloomStrength
	}
	if ctx.Exposure == 0 {
		ctx.Exposure = o.exposure
	}

	w, h := gpu.SurfaceSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("frame: surface size %dx%d", w, h)
	}
	o.width, o.height = uint32(w), uint32(h)

	var err error
	o.shadows, err = shadow.NewMapArray(gpu,
		shadow.WithCascadeCount(o.cascadeCount),
		shadow.WithResolution(o.shadowResolution),
	)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	o.lit, err = newLitPass(gpu, o.shadows, o.width, o.height, uint32(gpu.SampleCount()))
	if err != nil {
		o.Release()
		return nil, err
	}
	o.chain, err = bloom.NewChain(gpu, o.lit.hdrView(), o.width, o.height,
		bloom.WithLevels(o.bloomLevels),
		bloom.WithFilterRadius(o.filterRadius),
	)
	if err != nil {
		o.Release()
		return nil, fmt.Errorf("frame: %w", err)
	}
	o.compositor, err = bloom.NewCompositor(gpu, o.lit.hdrView(), o.chain.GlowView(), gpu.SurfaceFormat())
	if err != nil {
		o.Release()
		return nil, fmt.Errorf("frame: %w", err)
	}

	o.fitted = make([]mgl32.Mat4, o.cascadeCount)
	for i := range o.fitted {
		o.fitted[i] = mgl32.Ident4()
	}

	logger.Logger().Info("frame orchestrator ready",
		"width", o.width,
		"height", o.height,
		"cascades", o.cascadeCount,
		"shadowResolution", o.shadowResolution,
		"bloomMips", mipSizes(o.chain.Mips()),
		"msaa", o.lit.samples,
		"gamma", o.compositor.Gamma(),
	)
	return o, nil
}

// CascadeCount returns the number of shadow cascades.
func (o *Orchestrator) CascadeCount() int {
	return o.cascadeCount
}

// Cascades splits the camera range and fits every cascade to the light. A cascade whose
// fit is degenerate keeps the previous frame's matrix.
//
// Parameters:
//   - cam: the camera parameters for this frame
//   - toLight: the unit direction towards the light
//
// Returns:
//   - []light.Cascade: the fitted cascades ordered near to far
func (o *Orchestrator) Cascades(cam light.CameraParams, toLight mgl32.Vec3) []light.Cascade {
	cascades := light.SplitCascades(cam.Near, cam.Far, o.cascadeCount)
	for i := range cascades {
		if fit, ok := light.FitLightSpace(toLight, cam, cascades[i].Near, cascades[i].Far, o.zPadding); ok {
			o.fitted[i] = fit.LightSpace
		}
		cascades[i].LightSpace = o.fitted[i]
	}
	return cascades
}

// RenderFrame applies this frame's input, fits the cascades and records the full frame.
// When the surface image cannot be acquired the frame is dropped with a warning and nil
// is returned.
//
// Parameters:
//   - ctx: the render context
//   - in: the input snapshot for this frame
//
// Returns:
//   - error: an error if a pass could not be recorded
func (o *Orchestrator) RenderFrame(ctx *RenderContext, in input.FrameInput) error {
	o.applyInput(ctx, in)

	params := ctx.Camera.Params()
	cascades := o.Cascades(params, ctx.Light.ToLight())

	sceneWrites, err := ctx.Scene.Prepare(o.gpu)
	if err != nil {
		return fmt.Errorf("frame: %w", err)
	}

	if err := o.gpu.BeginFrame(); err != nil {
		logger.Logger().Warn("frame dropped", "error", err)
		return nil
	}

	err = o.record(ctx, cascades, sceneWrites)
	o.gpu.EndFrame()
	o.gpu.Present()
	return err
}

// record issues every pass of the frame in order.
func (o *Orchestrator) record(ctx *RenderContext, cascades []light.Cascade, sceneWrites []bind_group_provider.BufferWrite) error {
	if len(sceneWrites) > 0 {
		o.gpu.WriteBuffers(sceneWrites)
	}
	castShadows := ctx.Light.Enabled() && ctx.Light.CastsShadows()
	o.lit.upload(o.gpu,
		ctx.Camera.Uniform(),
		ctx.Light.Uniform(),
		light.NewGPUCascadeUniform(cascades, o.depthBias, castShadows, ctx.CascadeDebug),
		light.NewGPUPointLightUniform(ctx.PointLights),
	)

	draws := ctx.Scene.DrawItems()
	if castShadows {
		if err := o.shadows.Render(o.gpu, cascades, draws); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
	}
	key := LitPipelineKey
	if ctx.Gooch {
		key = GoochPipelineKey
	}
	if err := o.lit.render(o.gpu, key, draws); err != nil {
		return err
	}

	strength := ctx.BloomStrength
	if ctx.BloomEnabled {
		if err := o.chain.Render(o.gpu); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
	} else {
		strength = 0
	}
	if err := o.compositor.Render(o.gpu, strength, ctx.Exposure); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	return nil
}

// applyInput forwards input to the camera, handles the runtime toggles and resizes the swapchain.
func (o *Orchestrator) applyInput(ctx *RenderContext, in input.FrameInput) {
	ctx.Camera.Apply(in, ctx.DT)

	if in.Pressed(common.KeyB) {
		ctx.BloomEnabled = !ctx.BloomEnabled
		logger.Logger().Info("bloom toggled", "enabled", ctx.BloomEnabled)
	}
	if in.Pressed(common.KeyC) {
		ctx.CascadeDebug = !ctx.CascadeDebug
		logger.Logger().Info("cascade debug toggled", "enabled", ctx.CascadeDebug)
	}
	if in.Pressed(common.KeyG) {
		ctx.Gooch = !ctx.Gooch
		logger.Logger().Info("gooch shading toggled", "enabled", ctx.Gooch)
	}
	if in.Pressed(common.KeyX) {
		ctx.Light.SetCastsShadows(!ctx.Light.CastsShadows())
		logger.Logger().Info("sun shadows toggled", "enabled", ctx.Light.CastsShadows())
	}
	if in.Pressed(common.KeyRightBracket) {
		o.chain.SetFilterRadius(min(o.chain.FilterRadius()*filterRadiusStep, maxFilterRadius))
	}
	if in.Pressed(common.KeyLeftBracket) {
		o.chain.SetFilterRadius(max(o.chain.FilterRadius()/filterRadiusStep, minFilterRadius))
	}
	if in.Pressed(common.KeyEqual) || in.Pressed(common.KeyKPAdd) {
		ctx.Exposure = min(ctx.Exposure*exposureStep, maxExposure)
	}
	if in.Pressed(common.KeyMinus) || in.Pressed(common.KeyKPSubtract) {
		ctx.Exposure = max(ctx.Exposure/exposureStep, minExposure)
	}

	if in.Resized && in.Width > 0 && in.Height > 0 {
		if w, h := o.gpu.SurfaceSize(); w != in.Width || h != in.Height {
			o.gpu.Resize(in.Width, in.Height)
		}
	}
}

// mipSizes formats the ladder sizes for the setup log.
func mipSizes(mips []bloom.Mip) []string {
	out := make([]string, len(mips))
	for i, m := range mips {
		out[i] = fmt.Sprintf("%dx%d", m.Width, m.Height)
	}
	return out
}

// Release frees every resource the orchestrator allocated.
func (o *Orchestrator) Release() {
	if o.compositor != nil {
		o.compositor.Release()
		o.compositor = nil
	}
	if o.chain != nil {
		o.chain.Release()
		o.chain = nil
	}
	if o.lit != nil {
		o.lit.release()
		o.lit = nil
	}
	if o.shadows != nil {
		o.shadows.Release()
		o.shadows = nil
	}
}
