package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPULightUniformSource is the canonical WGSL definition of the LightUniform struct.
// Matches GPULightUniform layout exactly (64 bytes).
//
//go:embed assets/light_uniform.wgsl
var GPULightUniformSource string

// GPULightUniform is the GPU-aligned representation of the directional light.
// Matches the WGSL LightUniform struct layout exactly (see GPULightUniformSource).
// Size: 64 bytes.
type GPULightUniform struct {
	ToLight  [4]float32 // xyz: normalized direction toward the light, w: intensity (0 when disabled)
	Ambient  [4]float32 // xyz: ambient color
	Diffuse  [4]float32 // xyz: diffuse color
	Specular [4]float32 // xyz: specular color, w: shininess exponent
}

// Size returns the size of the GPULightUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (u *GPULightUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the GPULightUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (u *GPULightUniform) Marshal() []byte {
	buf := make([]byte, 64)
	common.PutVec4(buf[0:16], u.ToLight[0], u.ToLight[1], u.ToLight[2], u.ToLight[3])
	common.PutVec4(buf[16:32], u.Ambient[0], u.Ambient[1], u.Ambient[2], u.Ambient[3])
	common.PutVec4(buf[32:48], u.Diffuse[0], u.Diffuse[1], u.Diffuse[2], u.Diffuse[3])
	common.PutVec4(buf[48:64], u.Specular[0], u.Specular[1], u.Specular[2], u.Specular[3])
	return buf
}

// GPUCascadeUniformSource is the canonical WGSL definition of the CascadeUniform struct.
// Matches GPUCascadeUniform layout exactly (336 bytes).
//
//go:embed assets/cascade_uniform.wgsl
var GPUCascadeUniformSource string

// GPUCascadeUniform carries every cascade's light-space matrix and depth range to the
// lit pass. Matches the WGSL CascadeUniform struct layout exactly (see GPUCascadeUniformSource).
// Size: 336 bytes.
//
// Layout:
//
//	array<mat4x4<f32>, 4> light_space (256 bytes, offset   0)
//	array<vec4<f32>, 4>   splits      ( 64 bytes, offset 256) x = near, y = far
//	u32                   count       (  4 bytes, offset 320)
//	f32                   bias        (  4 bytes, offset 324)
//	u32                   debug       (  4 bytes, offset 328)
//	u32                   shadows     (  4 bytes, offset 332)
type GPUCascadeUniform struct {
	LightSpace [MaxCascades][16]float32
	Splits     [MaxCascades][4]float32
	Count      uint32
	Bias       float32
	Debug      uint32 // 1 tints fragments by cascade index
	Shadows    uint32 // 1 when the shadow array was rendered this frame, 0 reads fully lit
}

// NewGPUCascadeUniform packs cascades into the uniform layout. Cascades beyond
// MaxCascades are ignored.
//
// Parameters:
//   - cascades: the fitted cascades ordered near to far
//   - bias: the constant depth bias used by the shadow comparison
//   - shadows: whether the shadow array was rendered and should be sampled
//   - debug: whether the lit pass should tint fragments by cascade
//
// Returns:
//   - GPUCascadeUniform: the packed uniform
func NewGPUCascadeUniform(cascades []Cascade, bias float32, shadows, debug bool) GPUCascadeUniform {
	var u GPUCascadeUniform
	n := min(len(cascades), MaxCascades)
	for i := 0; i < n; i++ {
		u.LightSpace[i] = cascades[i].LightSpace
		u.Splits[i] = [4]float32{cascades[i].Near, cascades[i].Far, 0, 0}
	}
	u.Count = uint32(n)
	u.Bias = bias
	if debug {
		u.Debug = 1
	}
	if shadows {
		u.Shadows = 1
	}
	return u
}

// Size returns the size of the GPUCascadeUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (336)
func (u *GPUCascadeUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the GPUCascadeUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 336-byte buffer ready for GPU upload
func (u *GPUCascadeUniform) Marshal() []byte {
	buf := make([]byte, 336)
	for i := 0; i < MaxCascades; i++ {
		common.PutMat4(buf[i*common.Mat4Size:], mgl32.Mat4(u.LightSpace[i]))
		s := u.Splits[i]
		common.PutVec4(buf[256+i*16:], s[0], s[1], s[2], s[3])
	}
	binary.LittleEndian.PutUint32(buf[320:324], u.Count)
	binary.LittleEndian.PutUint32(buf[324:328], math.Float32bits(u.Bias))
	binary.LittleEndian.PutUint32(buf[328:332], u.Debug)
	binary.LittleEndian.PutUint32(buf[332:336], u.Shadows)
	return buf
}

// GPUShadowCascadeSource is the canonical WGSL definition of the ShadowCascade struct.
// Matches GPUShadowCascade layout exactly (64 bytes).
//
//go:embed assets/shadow_cascade.wgsl
var GPUShadowCascadeSource string

// GPUShadowCascade is the per-cascade uniform bound while rendering one shadow map layer.
// Size: 64 bytes.
type GPUShadowCascade struct {
	LightSpace mgl32.Mat4
}

// Size returns the size of the GPUShadowCascade struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (c *GPUShadowCascade) Size() int {
	return int(unsafe.Sizeof(*c))
}

// Marshal serializes the GPUShadowCascade struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (c *GPUShadowCascade) Marshal() []byte {
	buf := make([]byte, common.Mat4Size)
	common.PutMat4(buf, c.LightSpace)
	return buf
}

// GPUPointLightSource is the canonical WGSL definition of the PointLight and
// PointLightUniform structs. Matches GPUPointLight (80 bytes) and GPUPointLightUniform
// (336 bytes) exactly.
//
//go:embed assets/point_light.wgsl
var GPUPointLightSource string

// GPUPointLight is the GPU-aligned representation of one point light.
// Size: 80 bytes.
type GPUPointLight struct {
	Position    [4]float32 // xyz: world position, w: intensity
	Ambient     [4]float32 // xyz: ambient color
	Diffuse     [4]float32 // xyz: diffuse color
	Specular    [4]float32 // xyz: specular color
	Attenuation [4]float32 // x: constant, y: linear, z: quadratic
}

// Size returns the size of the GPUPointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (p *GPUPointLight) Size() int {
	return int(unsafe.Sizeof(*p))
}

// MarshalInto writes the light into buf, which must hold at least 80 bytes.
func (p *GPUPointLight) MarshalInto(buf []byte) {
	for i, v := range [5][4]float32{p.Position, p.Ambient, p.Diffuse, p.Specular, p.Attenuation} {
		common.PutVec4(buf[i*16:], v[0], v[1], v[2], v[3])
	}
}

// GPUPointLightUniform is the fixed-size point light array of the lit pass.
// Size: 336 bytes.
//
// Layout:
//
//	array<PointLight, 4> lights (320 bytes, offset   0)
//	u32                  count  (  4 bytes, offset 320)
//	u32 x3               _pad   ( 12 bytes, offset 324)
type GPUPointLightUniform struct {
	Lights [MaxPointLights]GPUPointLight
	Count  uint32
	_pad   [3]uint32
}

// NewGPUPointLightUniform packs the enabled lights, in order, up to MaxPointLights.
//
// Parameters:
//   - lights: the candidate lights; nil entries and disabled lights are skipped
//
// Returns:
//   - GPUPointLightUniform: the packed uniform
func NewGPUPointLightUniform(lights []PointLight) GPUPointLightUniform {
	var u GPUPointLightUniform
	for _, l := range lights {
		if u.Count == MaxPointLights {
			break
		}
		if l == nil || !l.Enabled() {
			continue
		}
		u.Lights[u.Count] = l.Uniform()
		u.Count++
	}
	return u
}

// Size returns the size of the GPUPointLightUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (336)
func (u *GPUPointLightUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the GPUPointLightUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 336-byte buffer ready for GPU upload
func (u *GPUPointLightUniform) Marshal() []byte {
	buf := make([]byte, 336)
	for i := range u.Lights {
		u.Lights[i].MarshalInto(buf[i*80:])
	}
	binary.LittleEndian.PutUint32(buf[320:324], u.Count)
	return buf
}
