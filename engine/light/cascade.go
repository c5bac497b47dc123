package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Cascade is one depth slice of the camera frustum together with the light-space
// matrix that covers it.
type Cascade struct {
	Near       float32
	Far        float32
	LightSpace mgl32.Mat4
}

// SplitCascades partitions [near, far) into n contiguous ranges following the
// geometric progression r = (far/near)^(1/n): cascade i covers [near·r^i, near·r^(i+1)].
// The outer boundaries are exactly near and far and each interior boundary is shared
// by the two cascades that meet there. LightSpace is left zero.
//
// Parameters:
//   - near: the camera near plane (must be > 0)
//   - far: the camera far plane (must be > near)
//   - n: the number of cascades (must be >= 1)
//
// Returns:
//   - []Cascade: the cascades ordered near to far, or nil for invalid input
func SplitCascades(near, far float32, n int) []Cascade {
	if near <= 0 || far <= near || n < 1 {
		return nil
	}

	ratio := math.Pow(float64(far)/float64(near), 1.0/float64(n))
	cascades := make([]Cascade, n)
	boundary := near
	for i := range cascades {
		cascades[i].Near = boundary
		if i == n-1 {
			boundary = far
		} else {
			boundary = float32(float64(near) * math.Pow(ratio, float64(i+1)))
		}
		cascades[i].Far = boundary
	}
	return cascades
}

// SelectCascade returns the index of the first cascade whose [Near, Far) range contains
// viewDepth, falling back to the last cascade for depths at or beyond its far plane.
// This mirrors the selection performed per fragment in the lit shader.
//
// Parameters:
//   - cascades: the cascades ordered near to far
//   - viewDepth: positive distance from the camera along its view axis
//
// Returns:
//   - int: the selected cascade index, or -1 if cascades is empty
func SelectCascade(cascades []Cascade, viewDepth float32) int {
	for i, c := range cascades {
		if c.Near <= viewDepth && viewDepth < c.Far {
			return i
		}
	}
	return len(cascades) - 1
}
