package frame

// OrchestratorBuilderOption configures an Orchestrator at construction time.
type OrchestratorBuilderOption func(*Orchestrator)

// WithCascadeCount sets the number of shadow cascades, between 1 and light.MaxCascades.
//
// Parameters:
//   - n: the cascade count
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the cascade count
func WithCascadeCount(n int) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.cascadeCount = n
	}
}

// WithShadowResolution sets the width and height of each shadow map layer.
//
// Parameters:
//   - resolution: the layer size in texels
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the shadow resolution
func WithShadowResolution(resolution uint32) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.shadowResolution = resolution
	}
}

// WithZPadding sets the multiplier applied to each cascade's light-space depth range.
//
// Parameters:
//   - zMult: the padding factor, at least 1 (NewOrchestrator rejects smaller values); see light.DefaultZPadding
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the Z padding
func WithZPadding(zMult float32) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.zPadding = zMult
	}
}

// WithDepthBias sets the constant bias subtracted before the shadow comparison.
//
// Parameters:
//   - bias: the depth bias, see light.DefaultDepthBias
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the depth bias
func WithDepthBias(bias float32) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.depthBias = bias
	}
}

// WithBloomLevels sets the number of bloom mip levels.
func WithBloomLevels(k int) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.bloomLevels = k
	}
}

// WithBloomFilterRadius sets the upsample tent radius in texture coordinates.
func WithBloomFilterRadius(r float32) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.filterRadius = r
	}
}

// WithBloomStrength sets the default glow mix factor of the composite.
func WithBloomStrength(strength float32) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.bloomStrength = strength
	}
}

// WithExposure sets the default exposure of the tone curve.
func WithExposure(exposure float32) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.exposure = exposure
	}
}
