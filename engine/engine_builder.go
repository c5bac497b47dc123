package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-csm/engine/window"
)

// EngineBuilderOption configures an engine at construction time.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the profiler.
//
// Parameters:
//   - enabled: whether profiler output is logged
//
// Returns:
//   - EngineBuilderOption: a function that sets profiling
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
//
// Parameters:
//   - fps: the tick rate; values <= 0 fall back to 60
//
// Returns:
//   - EngineBuilderOption: a function that sets the tick rate
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose events drive the engine.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: a function that sets the window
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithFrame sets the frame callback.
//
// Parameters:
//   - callback: records one frame on the render goroutine
//
// Returns:
//   - EngineBuilderOption: a function that sets the frame callback
func WithFrame(callback FrameFunc) EngineBuilderOption {
	return func(e *engine) {
		e.frameCallback = callback
	}
}

// WithRenderFrameLimit caps the render loop. 0 leaves it uncapped.
//
// Parameters:
//   - fps: the frame cap
//
// Returns:
//   - EngineBuilderOption: a function that sets the cap
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
