package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestExtractFrustumRoundTrip(t *testing.T) {
	cases := []struct {
		name        string
		fov, aspect float32
		near, far   float32
		eye, target mgl32.Vec3
	}{
		{"default", mgl32.DegToRad(45), 16.0 / 9.0, 0.1, 100, mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, 0}},
		{"narrow", mgl32.DegToRad(20), 1, 1, 10, mgl32.Vec3{3, 3, 3}, mgl32.Vec3{0, 1, 0}},
		{"wide", mgl32.DegToRad(90), 2.35, 0.5, 400, mgl32.Vec3{-10, 5, 0}, mgl32.Vec3{0, 0, -20}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := mgl32.LookAtV(tc.eye, tc.target, mgl32.Vec3{0, 1, 0})
			viewProj := PerspectiveZO(tc.fov, tc.aspect, tc.near, tc.far).Mul4(view)

			f, ok := ExtractFrustum(viewProj)
			if !ok {
				t.Fatal("ExtractFrustum reported a singular matrix")
			}
			for i, c := range f.Corners {
				got := ProjectPoint(viewProj, c)
				if !approxVec3(got, NDCCorners[i], 5e-3) {
					t.Errorf("corner %d: projected to %v, want %v", i, got, NDCCorners[i])
				}
			}
		})
	}
}

func TestExtractFrustumCentroid(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	viewProj := PerspectiveZO(mgl32.DegToRad(60), 1, 1, 3).Mul4(view)

	f, ok := ExtractFrustum(viewProj)
	if !ok {
		t.Fatal("ExtractFrustum reported a singular matrix")
	}

	var sum mgl32.Vec3
	for _, c := range f.Corners {
		sum = sum.Add(c)
	}
	want := sum.Mul(1.0 / 8)
	if !approxVec3(f.Centroid, want, 1e-5) {
		t.Errorf("centroid = %v, want %v", f.Centroid, want)
	}
	// symmetric frustum looking down -Z: centroid lies on the view axis
	if mgl32.Abs(f.Centroid.X()) > 1e-4 || mgl32.Abs(f.Centroid.Y()) > 1e-4 || f.Centroid.Z() >= -1 {
		t.Errorf("centroid %v not on the -Z axis beyond the near plane", f.Centroid)
	}
	// near corners sit on z = -near, far corners on z = -far
	for i := 0; i < 4; i++ {
		if !mgl32.FloatEqualThreshold(f.Corners[i].Z(), -1, 1e-4) {
			t.Errorf("near corner %d z = %v, want -1", i, f.Corners[i].Z())
		}
		if !mgl32.FloatEqualThreshold(f.Corners[i+4].Z(), -3, 1e-3) {
			t.Errorf("far corner %d z = %v, want -3", i, f.Corners[i+4].Z())
		}
	}
}

func TestExtractFrustumSingular(t *testing.T) {
	if _, ok := ExtractFrustum(mgl32.Mat4{}); ok {
		t.Error("ExtractFrustum accepted a zero matrix")
	}
}
