package bloom

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-csm/common"
)

// GPUBloomParamsSource is the canonical WGSL definition of the BloomParams struct.
// Matches GPUBloomParams layout exactly (16 bytes).
//
//go:embed assets/bloom_params.wgsl
var GPUBloomParamsSource string

// GPUBloomParams is the uniform bound with every downsample and upsample pass.
// Size: 16 bytes.
type GPUBloomParams struct {
	SrcResolution [2]float32 // offset  0: size of the texture being read, in texels (8 bytes)
	FilterRadius  float32    // offset  8: upsample tent radius in uv units (4 bytes)
	_             float32    // offset 12: padding (4 bytes)
}

// Size returns the size of the GPUBloomParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (p *GPUBloomParams) Size() int {
	return int(unsafe.Sizeof(*p))
}

// Marshal serializes the GPUBloomParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (p *GPUBloomParams) Marshal() []byte {
	buf := make([]byte, 16)
	common.PutVec4(buf, p.SrcResolution[0], p.SrcResolution[1], p.FilterRadius, 0)
	return buf
}

// GPUCompositeParamsSource is the canonical WGSL definition of the CompositeParams struct.
// Matches GPUCompositeParams layout exactly (16 bytes).
//
//go:embed assets/composite_params.wgsl
var GPUCompositeParamsSource string

// GPUCompositeParams is the uniform of the tone-mapping composite.
// Size: 16 bytes.
type GPUCompositeParams struct {
	BloomStrength float32 // offset  0: glow mix factor, 0 disables bloom (4 bytes)
	Exposure      float32 // offset  4: exposure of the exponential tone curve (4 bytes)
	Gamma         float32 // offset  8: output gamma, 1 when the surface is sRGB (4 bytes)
	_             float32 // offset 12: padding (4 bytes)
}

// Size returns the size of the GPUCompositeParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (p *GPUCompositeParams) Size() int {
	return int(unsafe.Sizeof(*p))
}

// Marshal serializes the GPUCompositeParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (p *GPUCompositeParams) Marshal() []byte {
	buf := make([]byte, 16)
	common.PutVec4(buf, p.BloomStrength, p.Exposure, p.Gamma, 0)
	return buf
}
