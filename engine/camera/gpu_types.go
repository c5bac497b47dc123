package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (144 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 144 bytes.
type GPUCameraUniform struct {
	ViewProj mgl32.Mat4 // offset   0: combined view-projection matrix
	View     mgl32.Mat4 // offset  64: view matrix, the lit pass derives view depth from it
	Position mgl32.Vec4 // offset 128: world-space camera position, w = 1
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, 144)
	common.PutMat4(buf[0:], g.ViewProj)
	common.PutMat4(buf[64:], g.View)
	common.PutVec4(buf[128:], g.Position[0], g.Position[1], g.Position[2], g.Position[3])
	return buf
}
