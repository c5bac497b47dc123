package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat4Size is the byte size of a column-major 4x4 float32 matrix as laid out in a WGSL mat4x4<f32>.
const Mat4Size = 64

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// The returned slice shares memory with the input and must not be modified.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// PutMat4 writes m into buf in little-endian column-major order, matching WGSL mat4x4<f32>.
//
// Parameters:
//   - buf: destination slice (must be at least 64 bytes)
//   - m: the matrix to write
func PutMat4(buf []byte, m mgl32.Mat4) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

// PutVec4 writes four float32 components into buf in little-endian order.
func PutVec4(buf []byte, x, y, z, w float32) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(y))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(z))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(w))
}

// PerspectiveZO creates a right-handed perspective projection that maps view-space depth
// [-near, -far] onto WebGPU clip depth [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveZO(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / (near - far), -1,
		0, 0, (near * far) / (near - far), 0,
	}
}

// OrthoZO creates an orthographic projection that maps the view-space box
// x∈[left,right], y∈[bottom,top], z∈[-near,-far] onto x,y∈[-1,1] and WebGPU depth [0,1].
// near may be negative, which places the near plane behind the view origin.
//
// Parameters:
//   - left, right: horizontal extents in view space
//   - bottom, top: vertical extents in view space
//   - near, far: distances along -Z of the near and far planes
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func OrthoZO(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	rl := right - left
	tb := top - bottom
	fn := far - near
	return mgl32.Mat4{
		2 / rl, 0, 0, 0,
		0, 2 / tb, 0, 0,
		0, 0, -1 / fn, 0,
		-(right + left) / rl, -(top + bottom) / tb, -near / fn, 1,
	}
}

// ProjectPoint transforms p by m and performs the perspective divide.
//
// Parameters:
//   - m: the transform to apply
//   - p: the point in the source space
//
// Returns:
//   - mgl32.Vec3: the transformed point divided by its homogeneous w
func ProjectPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	return v.Vec3().Mul(1 / v.W())
}

// ModelMatrix composes translation * rotation(Y*X*Z) * scale.
//
// Parameters:
//   - position: translation in world space
//   - rotation: Euler angles in radians around X, Y and Z
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: the model matrix
func ModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DY(rotation.Y()).
		Mul4(mgl32.HomogRotate3DX(rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z()))
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}
