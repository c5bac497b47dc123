package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPerspectiveZODepthRange(t *testing.T) {
	p := PerspectiveZO(mgl32.DegToRad(45), 1.5, 0.5, 50)

	near := ProjectPoint(p, mgl32.Vec3{0, 0, -0.5})
	far := ProjectPoint(p, mgl32.Vec3{0, 0, -50})
	if mgl32.Abs(near.Z()) > 1e-5 {
		t.Errorf("near plane depth = %v, want 0", near.Z())
	}
	if !mgl32.FloatEqualThreshold(far.Z(), 1, 1e-5) {
		t.Errorf("far plane depth = %v, want 1", far.Z())
	}
}

func TestOrthoZOMapsBox(t *testing.T) {
	o := OrthoZO(-2, 6, -1, 3, -4, 12)

	tests := []struct {
		in   mgl32.Vec3
		want mgl32.Vec3
	}{
		{mgl32.Vec3{-2, -1, 4}, mgl32.Vec3{-1, -1, 0}},
		{mgl32.Vec3{6, 3, -12}, mgl32.Vec3{1, 1, 1}},
		{mgl32.Vec3{2, 1, -4}, mgl32.Vec3{0, 0, 0.5}},
	}
	for _, tt := range tests {
		got := ProjectPoint(o, tt.in)
		if !approxVec3(got, tt.want, 1e-5) {
			t.Errorf("OrthoZO(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPutMat4ColumnMajor(t *testing.T) {
	m := mgl32.Translate3D(7, 8, 9)
	buf := make([]byte, Mat4Size)
	PutMat4(buf, m)

	// translation lives in the fourth column: elements 12, 13, 14
	for i, want := range []float32{7, 8, 9} {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[(12+i)*4:]))
		if got != want {
			t.Errorf("element %d = %v, want %v", 12+i, got, want)
		}
	}
}

func TestModelMatrixOrder(t *testing.T) {
	m := ModelMatrix(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, math.Pi / 2, 0}, mgl32.Vec3{2, 2, 2})

	// scale, then rotate +90° about Y, then translate: +X becomes -Z
	got := ProjectPoint(m, mgl32.Vec3{1, 0, 0})
	want := mgl32.Vec3{1, 0, -2}
	if !approxVec3(got, want, 1e-5) {
		t.Errorf("ModelMatrix applied to +X = %v, want %v", got, want)
	}
}

// approxVec3 compares component-wise with an absolute tolerance.
func approxVec3(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
