package scene

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUInstanceSource is the canonical WGSL definition of the Instance struct.
// Matches GPUInstance layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

// GPUInstance is the per-node record read from the instance storage buffer by the shadow and lit passes.
// Size: 80 bytes.
type GPUInstance struct {
	Model  mgl32.Mat4 // offset  0: model-to-world matrix, column-major (64 bytes)
	Albedo [4]float32 // offset 64: linear RGB albedo, values above 1 glow through bloom (16 bytes)
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, 80)
	g.MarshalInto(buf)
	return buf
}

// MarshalInto writes the instance into buf, which must hold at least 80 bytes.
func (g *GPUInstance) MarshalInto(buf []byte) {
	common.PutMat4(buf[0:64], g.Model)
	common.PutVec4(buf[64:80], g.Albedo[0], g.Albedo[1], g.Albedo[2], g.Albedo[3])
}

// InstanceLayout returns the bind group layout of the instance storage buffer.
// The shadow and lit pipelines both declare it as group 1, so one bind group serves both passes.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout with the storage buffer at binding 0
func InstanceLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Instances",
		Entries: []wgpu.BindGroupLayoutEntry{
			shader.StorageEntry(0, wgpu.ShaderStageVertex, 80),
		},
	}
}
