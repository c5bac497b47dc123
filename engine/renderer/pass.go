package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrPipelineNotFound is returned when a draw names a pipeline key that was never registered.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrNoActivePass is returned when a draw is issued outside BeginPass/EndPass.
	ErrNoActivePass = errors.New("no active render pass")

	// ErrNoActiveFrame is returned when a pass is begun outside BeginFrame/EndFrame.
	ErrNoActiveFrame = errors.New("no active frame")
)

// PassDescriptor describes the attachments of one render pass. Every view is supplied by the
// caller; the backend keeps no attachment state between passes.
type PassDescriptor struct {
	// Label names the pass in GPU debuggers.
	Label string

	// Surface renders into the swapchain image acquired by BeginFrame. Color is ignored.
	Surface bool
	// Color is the color attachment. Nil together with Surface false gives a depth-only pass.
	Color *wgpu.TextureView
	// Resolve is the single-sample target Color is resolved into when Color is multisampled.
	Resolve *wgpu.TextureView
	// ColorLoad selects whether the color attachment is cleared or its contents kept.
	ColorLoad wgpu.LoadOp
	// ClearColor is used when ColorLoad is wgpu.LoadOpClear.
	ClearColor wgpu.Color

	// Depth is the depth attachment, nil for none.
	Depth *wgpu.TextureView
	// DepthClear is the value depth is cleared to.
	DepthClear float32
	// DepthStore keeps the depth contents after the pass, required when the depth is sampled later.
	DepthStore bool
}

// PassEncoder is the narrow recording surface passes draw through. All calls happen on the
// render goroutine between BeginFrame and EndFrame.
type PassEncoder interface {
	// WriteBuffers queues uniform and storage buffer writes. Every write is visible to every
	// pass of the current frame, since the queue applies them before the frame's submission.
	//
	// Parameters:
	//   - writes: the buffer writes to perform
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginPass opens a render pass on the frame encoder.
	//
	// Parameters:
	//   - desc: the attachments of the pass
	//
	// Returns:
	//   - error: ErrNoActiveFrame when called outside a frame
	BeginPass(desc PassDescriptor) error

	// Draw issues an indexed, instanced draw of a mesh.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - mesh: the provider holding the vertex and index buffers
	//   - instanceCount: the number of instances
	//   - bindGroups: the bind groups, bound to group indices in slice order
	//
	// Returns:
	//   - error: ErrPipelineNotFound or ErrNoActivePass
	Draw(pipelineKey string, mesh bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawFullscreen draws a single vertex-pulled triangle covering the target.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - bindGroups: the bind groups, bound to group indices in slice order
	//
	// Returns:
	//   - error: ErrPipelineNotFound or ErrNoActivePass
	DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndPass closes the current render pass.
	EndPass()
}

// FrameEncoder is a PassEncoder that also owns the frame's lifetime: one encoder and one
// queue submission per frame.
type FrameEncoder interface {
	PassEncoder

	// BeginFrame acquires the swapchain image and opens the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the surface image could not be acquired; the frame should be skipped
	BeginFrame() error

	// EndFrame finishes the command encoder and submits it.
	EndFrame()

	// Present presents the acquired swapchain image.
	Present()
}
