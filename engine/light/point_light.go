package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPointLights is the fixed length of the point light array in the lit shader.
// Point lights never cast shadows and are not culled; every enabled light up to this
// cap is evaluated for every fragment.
const MaxPointLights = 4

type pointLight struct {
	mu *sync.Mutex

	position mgl32.Vec3

	ambient  mgl32.Vec3
	diffuse  mgl32.Vec3
	specular mgl32.Vec3

	// constant, linear and quadratic attenuation factors
	constant  float32
	linear    float32
	quadratic float32

	intensity float32
	enabled   bool
}

// PointLight is an unshadowed light that emits in all directions from a position, fading
// with 1 / (constant + linear·d + quadratic·d²).
type PointLight interface {
	// Position returns the world-space position.
	Position() mgl32.Vec3

	// Ambient returns the ambient color contribution.
	Ambient() mgl32.Vec3

	// Diffuse returns the diffuse color contribution.
	Diffuse() mgl32.Vec3

	// Specular returns the specular color contribution.
	Specular() mgl32.Vec3

	// Attenuation returns the constant, linear and quadratic attenuation factors.
	Attenuation() (constant, linear, quadratic float32)

	// Intensity returns the scalar multiplier applied to every term.
	Intensity() float32

	// Enabled reports whether the light is uploaded to the lit pass.
	Enabled() bool

	// SetPosition moves the light.
	SetPosition(position mgl32.Vec3)

	// SetIntensity sets the scalar multiplier.
	SetIntensity(intensity float32)

	// SetEnabled sets whether the light is uploaded to the lit pass.
	SetEnabled(enabled bool)

	// Uniform returns the GPU representation of the light.
	Uniform() GPUPointLight
}

var _ PointLight = &pointLight{}

// NewPointLight creates a white point light at the origin with the 0.2 / 0.5 / 1.0
// ambient, diffuse and specular terms and the 1 / 0.09 / 0.032 attenuation
// (roughly a 50 unit reach).
//
// Parameters:
//   - opts: functional options applied after the defaults
//
// Returns:
//   - PointLight: the new light
func NewPointLight(opts ...PointLightBuilderOption) PointLight {
	p := &pointLight{
		mu:        &sync.Mutex{},
		ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
		diffuse:   mgl32.Vec3{0.5, 0.5, 0.5},
		specular:  mgl32.Vec3{1, 1, 1},
		constant:  1,
		linear:    0.09,
		quadratic: 0.032,
		intensity: 1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pointLight) Position() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *pointLight) Ambient() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ambient
}

func (p *pointLight) Diffuse() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.diffuse
}

func (p *pointLight) Specular() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.specular
}

func (p *pointLight) Attenuation() (float32, float32, float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.constant, p.linear, p.quadratic
}

func (p *pointLight) Intensity() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intensity
}

func (p *pointLight) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *pointLight) SetPosition(position mgl32.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = position
}

func (p *pointLight) SetIntensity(intensity float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intensity = intensity
}

func (p *pointLight) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

func (p *pointLight) Uniform() GPUPointLight {
	p.mu.Lock()
	defer p.mu.Unlock()
	return GPUPointLight{
		Position:    [4]float32{p.position[0], p.position[1], p.position[2], p.intensity},
		Ambient:     [4]float32{p.ambient[0], p.ambient[1], p.ambient[2], 0},
		Diffuse:     [4]float32{p.diffuse[0], p.diffuse[1], p.diffuse[2], 0},
		Specular:    [4]float32{p.specular[0], p.specular[1], p.specular[2], 0},
		Attenuation: [4]float32{p.constant, p.linear, p.quadratic, 0},
	}
}
