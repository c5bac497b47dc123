package light

// MaxCascades is the fixed length of the cascade arrays in the lit shader's uniform block.
// The active cascade count may be lower; unused slots are zeroed.
const MaxCascades = 4

// DefaultCascadeCount is the number of cascades used when none is configured.
const DefaultCascadeCount = 3

// DefaultZPadding is the multiplier applied to the light-space Z extent of each
// cascade's bounding box so that casters outside the visible sub-frustum still land
// in the shadow map. It is an empirically tuned factor, not a derived bound:
// too small drops shadows from off-screen casters, too large wastes depth precision.
const DefaultZPadding float32 = 10.0

// UpFallbackThreshold is the |lightDir.y| above which world up is considered parallel
// to the light and the light view switches to +X as its up vector.
const UpFallbackThreshold float32 = 0.99

// DefaultDepthBias is the constant depth bias subtracted from the fragment's light-space
// depth before the shadow comparison, to reduce shadow acne.
const DefaultDepthBias float32 = 0.0015
