package shadow

// MapArrayBuilderOption is a functional option for configuring a MapArray via NewMapArray.
type MapArrayBuilderOption func(*MapArray)

// WithResolution sets the width and height of each layer. Zero keeps DefaultResolution.
//
// Parameters:
//   - resolution: the layer size in texels
//
// Returns:
//   - MapArrayBuilderOption: a function that applies the resolution option
func WithResolution(resolution uint32) MapArrayBuilderOption {
	return func(m *MapArray) {
		if resolution > 0 {
			m.resolution = resolution
		}
	}
}

// WithCascadeCount sets the number of layers, one per cascade.
//
// Parameters:
//   - n: the cascade count, 1 to light.MaxCascades
//
// Returns:
//   - MapArrayBuilderOption: a function that applies the count option
func WithCascadeCount(n int) MapArrayBuilderOption {
	return func(m *MapArray) {
		m.count = n
	}
}

// WithSlopeScaleBias sets the rasterizer slope-scaled depth bias of the depth pipeline.
//
// Parameters:
//   - bias: the slope scale
//
// Returns:
//   - MapArrayBuilderOption: a function that applies the bias option
func WithSlopeScaleBias(bias float32) MapArrayBuilderOption {
	return func(m *MapArray) {
		m.slopeScaleBias = bias
	}
}
