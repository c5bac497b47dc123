package bloom

// ChainBuilderOption is a functional option for configuring a Chain via NewChain.
type ChainBuilderOption func(*Chain)

// WithLevels sets the number of mip levels.
//
// Parameters:
//   - k: the level count, at least 1
//
// Returns:
//   - ChainBuilderOption: a function that applies the levels option
func WithLevels(k int) ChainBuilderOption {
	return func(c *Chain) {
		c.levels = k
	}
}

// WithFilterRadius sets the upsample tent radius in uv units.
//
// Parameters:
//   - r: the radius
//
// Returns:
//   - ChainBuilderOption: a function that applies the radius option
func WithFilterRadius(r float32) ChainBuilderOption {
	return func(c *Chain) {
		c.filterRadius = r
	}
}
