package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraParams is the subset of a perspective camera the fitter needs.
type CameraParams struct {
	View   mgl32.Mat4
	FovY   float32 // radians
	Aspect float32
	Near   float32
	Far    float32
}

// Bounds is an axis-aligned box in light view space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Fit is the full result of fitting one cascade. Only LightSpace is needed for rendering;
// the intermediate values are kept for inspection.
type Fit struct {
	Frustum    common.Frustum
	View       mgl32.Mat4
	Bounds     Bounds // tight bounds of the sub-frustum corners
	Padded     Bounds // Bounds after PadZ
	Projection mgl32.Mat4
	LightSpace mgl32.Mat4 // Projection × View
}

// LightView builds the light's view matrix: an eye one unit from center toward the light,
// looking at center. World up is used unless the light is within UpFallbackThreshold of
// vertical, in which case +X is used so the basis stays well conditioned.
//
// Parameters:
//   - center: the point the light looks at, normally a frustum centroid
//   - toLight: normalized direction from the scene toward the light
//
// Returns:
//   - mgl32.Mat4: the light view matrix
func LightView(center, toLight mgl32.Vec3) mgl32.Mat4 {
	up := mgl32.Vec3{0, 1, 0}
	if mgl32.Abs(toLight.Y()) > UpFallbackThreshold {
		up = mgl32.Vec3{1, 0, 0}
	}
	return mgl32.LookAtV(center.Add(toLight), center, up)
}

// BoundsOf transforms points by view and returns their tight axis-aligned bounds.
//
// Parameters:
//   - view: the transform into light space
//   - points: the world-space points
//
// Returns:
//   - Bounds: the per-axis min/max of the transformed points
func BoundsOf(view mgl32.Mat4, points []mgl32.Vec3) Bounds {
	inf := float32(math.Inf(1))
	b := Bounds{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
	for _, p := range points {
		lp := view.Mul4x1(p.Vec4(1)).Vec3()
		for axis := 0; axis < 3; axis++ {
			b.Min[axis] = min(b.Min[axis], lp[axis])
			b.Max[axis] = max(b.Max[axis], lp[axis])
		}
	}
	return b
}

// PadZ widens the Z extent of b by zMult. A negative minimum is pushed further out by
// multiplying and a positive one pulled toward zero by dividing, and the opposite for
// the maximum, so the padded range always contains the original one for zMult >= 1.
// X and Y are untouched.
//
// Parameters:
//   - b: the tight light-space bounds
//   - zMult: the padding multiplier, see DefaultZPadding
//
// Returns:
//   - Bounds: the padded bounds
func PadZ(b Bounds, zMult float32) Bounds {
	if b.Min[2] < 0 {
		b.Min[2] *= zMult
	} else {
		b.Min[2] /= zMult
	}
	if b.Max[2] < 0 {
		b.Max[2] /= zMult
	} else {
		b.Max[2] *= zMult
	}
	return b
}

// OrthoFromBounds builds the orthographic projection for a light-space box. The light
// looks down -Z, so the box's Max.Z is the near plane and Min.Z the far plane.
//
// Parameters:
//   - b: the (padded) light-space bounds
//
// Returns:
//   - mgl32.Mat4: the projection mapping b onto the WebGPU clip volume
func OrthoFromBounds(b Bounds) mgl32.Mat4 {
	return common.OrthoZO(b.Min[0], b.Max[0], b.Min[1], b.Max[1], -b.Max[2], -b.Min[2])
}

// FitLightSpace fits an orthographic light projection around the camera sub-frustum
// [near, far]. Every corner of that sub-frustum maps into x,y ∈ [-1,1] and z ∈ [0,1]
// of the returned LightSpace matrix.
//
// Parameters:
//   - toLight: normalized direction from the scene toward the light
//   - cam: the camera's view matrix, field of view and aspect ratio
//   - near, far: the cascade's depth range
//   - zMult: the Z padding multiplier, see DefaultZPadding
//
// Returns:
//   - Fit: the fitted matrices and their intermediate values
//   - bool: false if the sub-frustum matrix is singular
func FitLightSpace(toLight mgl32.Vec3, cam CameraParams, near, far, zMult float32) (Fit, bool) {
	proj := common.PerspectiveZO(cam.FovY, cam.Aspect, near, far)
	frustum, ok := common.ExtractFrustum(proj.Mul4(cam.View))
	if !ok {
		return Fit{}, false
	}

	fit := Fit{Frustum: frustum}
	fit.View = LightView(frustum.Centroid, toLight)
	fit.Bounds = BoundsOf(fit.View, frustum.Corners[:])
	fit.Padded = PadZ(fit.Bounds, zMult)
	fit.Projection = OrthoFromBounds(fit.Padded)
	fit.LightSpace = fit.Projection.Mul4(fit.View)
	return fit, true
}
