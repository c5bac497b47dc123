// Package renderertest provides a recording renderer.FrameEncoder for testing passes without a GPU.
package renderertest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-csm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
)

// Op identifies a recorded call.
type Op int

const (
	OpWriteBuffers Op = iota
	OpBeginFrame
	OpBeginPass
	OpDraw
	OpDrawFullscreen
	OpEndPass
	OpEndFrame
	OpPresent
)

func (o Op) String() string {
	switch o {
	case OpWriteBuffers:
		return "WriteBuffers"
	case OpBeginFrame:
		return "BeginFrame"
	case OpBeginPass:
		return "BeginPass"
	case OpDraw:
		return "Draw"
	case OpDrawFullscreen:
		return "DrawFullscreen"
	case OpEndPass:
		return "EndPass"
	case OpEndFrame:
		return "EndFrame"
	case OpPresent:
		return "Present"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Call is one recorded encoder call.
type Call struct {
	Op Op
	// Pass is the descriptor for OpBeginPass, and the enclosing pass for draws.
	Pass renderer.PassDescriptor
	// Pipeline is the pipeline key for draws.
	Pipeline string
	// Instances is the instance count for OpDraw.
	Instances uint32
	// BindGroups holds the labels of the bound providers for draws.
	BindGroups []string
	// Writes holds the buffer writes for OpWriteBuffers.
	Writes []bind_group_provider.BufferWrite
}

// Recorder is a renderer.FrameEncoder that records every call and enforces pass nesting.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	inPass bool
	pass   renderer.PassDescriptor

	// FrameErr, when set, is returned from BeginFrame.
	FrameErr error
	// Known restricts draws to these pipeline keys when non-nil.
	Known map[string]bool
}

var _ renderer.FrameEncoder = &Recorder{}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Passes returns the labels of every begun pass in order.
func (r *Recorder) Passes() []string {
	var labels []string
	for _, c := range r.Calls() {
		if c.Op == OpBeginPass {
			labels = append(labels, c.Pass.Label)
		}
	}
	return labels
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpWriteBuffers, Writes: append([]bind_group_provider.BufferWrite(nil), writes...)})
}

func (r *Recorder) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FrameErr != nil {
		return r.FrameErr
	}
	r.calls = append(r.calls, Call{Op: OpBeginFrame})
	return nil
}

func (r *Recorder) BeginPass(desc renderer.PassDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inPass {
		return fmt.Errorf("pass %q begun while %q is open", desc.Label, r.pass.Label)
	}
	r.inPass = true
	r.pass = desc
	r.calls = append(r.calls, Call{Op: OpBeginPass, Pass: desc})
	return nil
}

func (r *Recorder) Draw(pipelineKey string, mesh bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	return r.draw(OpDraw, pipelineKey, instanceCount, bindGroups)
}

func (r *Recorder) DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error {
	return r.draw(OpDrawFullscreen, pipelineKey, 1, bindGroups)
}

func (r *Recorder) draw(op Op, pipelineKey string, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return renderer.ErrNoActivePass
	}
	if r.Known != nil && !r.Known[pipelineKey] {
		return fmt.Errorf("%w: %q", renderer.ErrPipelineNotFound, pipelineKey)
	}
	labels := make([]string, len(bindGroups))
	for i, bg := range bindGroups {
		labels[i] = bg.Label()
	}
	r.calls = append(r.calls, Call{Op: op, Pass: r.pass, Pipeline: pipelineKey, Instances: instanceCount, BindGroups: labels})
	return nil
}

func (r *Recorder) EndPass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inPass = false
	r.calls = append(r.calls, Call{Op: OpEndPass, Pass: r.pass})
}

func (r *Recorder) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpEndFrame})
}

func (r *Recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpPresent})
}
