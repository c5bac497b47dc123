package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/logger"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-csm/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// It owns the GPU device, the swapchain and a cache of pipelines keyed by name. Passes record
// through the embedded FrameEncoder; everything a pass binds is handed over explicitly per call.
type Renderer interface {
	FrameEncoder

	// Pipeline retrieves the cached Pipeline associated with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for one or more pipelines and caches them by
	// PipelineKey. Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the swapchain for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode; it takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// SurfaceFormat returns the swapchain texture format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the swapchain format
	SurfaceFormat() wgpu.TextureFormat

	// SurfaceSize returns the current swapchain size.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	SurfaceSize() (int, int)

	// SampleCount returns the MSAA sample count used by the lit pass.
	//
	// Returns:
	//   - MSAASampleCount: the configured sample count
	SampleCount() MSAASampleCount

	// InitMeshBuffers uploads mesh vertex and index data into buffers owned by provider.
	//
	// Parameters:
	//   - provider: the mesh provider
	//   - vertexData: the packed vertex bytes
	//   - indexData: the packed uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the layout, buffers and bind group described by descriptor.
	//
	// Parameters:
	//   - provider: the provider to initialize
	//   - descriptor: the bind group layout
	//   - bufferSizeOverrides: buffer sizes keyed by binding, nil to use MinBindingSize
	//
	// Returns:
	//   - error: an error if a resource is missing or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitSampler creates a sampler owned by provider.
	//
	// Parameters:
	//   - provider: the provider that will own the sampler
	//   - bindingKey: the binding index
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// CreateRenderTarget creates a texture with a full view and one 2D view per layer.
	//
	// Parameters:
	//   - stagingData: the target description
	//
	// Returns:
	//   - *common.RenderTarget: the created target
	//   - error: an error if creation fails
	CreateRenderTarget(stagingData common.RenderTargetStagingData) (*common.RenderTarget, error)
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer on the window's surface. Device or surface creation
// failures panic, since nothing can run without them.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Options first, so forceFallbackAdapter is known before the adapter request.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	logger.Logger().Info("renderer ready",
		"surfaceFormat", r.backend.SurfaceFormat(),
		"width", window.Width(),
		"height", window.Height(),
		"msaa", uint32(msaa),
	)
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) SampleCount() MSAASampleCount {
	return r.backend.SampleCount()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := validateShaders(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

// validateShaders parses every distinct shader source of p with naga before the driver sees it.
// Syntax errors are fatal. Semantic findings are logged, since the driver's compiler has the
// final word on those.
func validateShaders(p pipeline.Pipeline) error {
	checked := make(map[string]bool, 2)
	for _, st := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
		sh := p.Shader(st)
		if sh == nil || checked[sh.Source()] {
			continue
		}
		checked[sh.Source()] = true
		err := shader.Validate(sh.Source())
		switch {
		case err == nil:
		case errors.Is(err, shader.ErrWGSLSemantic):
			logger.Logger().Warn("shader validation", "pipeline", p.PipelineKey(), "shader", sh.Key(), "error", err)
		default:
			return fmt.Errorf("shader %s: %w", sh.Key(), err)
		}
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferSizeOverrides)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) CreateRenderTarget(stagingData common.RenderTargetStagingData) (*common.RenderTarget, error) {
	return r.backend.CreateRenderTarget(stagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) BeginPass(desc PassDescriptor) error {
	return r.backend.BeginPass(desc)
}

func (r *renderer) Draw(pipelineKey string, mesh bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.Draw(p, mesh, instanceCount, bindGroups)
}

func (r *renderer) DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawFullscreen(p, bindGroups)
}

func (r *renderer) EndPass() {
	r.backend.EndPass()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) lookup(key string) (pipeline.Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.pipelineCache[key]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrPipelineNotFound, key)
	}
	return p, nil
}
