package common

import "github.com/go-gl/mathgl/mgl32"

// NDCCorners are the eight corners of the WebGPU clip volume: x,y ∈ {-1,1}, z ∈ {0,1}.
// The near face comes first, wound counter-clockwise, followed by the far face in the same order.
var NDCCorners = [8]mgl32.Vec3{
	{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// Frustum is the world-space volume seen through a projection×view matrix.
// Corners follow the order of NDCCorners.
type Frustum struct {
	Corners  [8]mgl32.Vec3
	Centroid mgl32.Vec3
}

// ExtractFrustum un-projects the clip-volume corners through the inverse of viewProj.
// Each corner is divided by its homogeneous w and the centroid is the mean of all eight.
//
// Parameters:
//   - viewProj: the combined projection × view matrix
//
// Returns:
//   - Frustum: the world-space corners and centroid
//   - bool: false if viewProj is singular, in which case the Frustum is zero
func ExtractFrustum(viewProj mgl32.Mat4) (Frustum, bool) {
	if viewProj.Det() == 0 {
		return Frustum{}, false
	}
	inv := viewProj.Inv()

	var f Frustum
	var sum mgl32.Vec3
	for i, ndc := range NDCCorners {
		f.Corners[i] = ProjectPoint(inv, ndc)
		sum = sum.Add(f.Corners[i])
	}
	f.Centroid = sum.Mul(1.0 / float32(len(f.Corners)))
	return f, true
}
