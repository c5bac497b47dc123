package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

type lightImpl struct {
	mu *sync.Mutex

	// direction the light travels, from the light toward the scene
	direction mgl32.Vec3

	ambient  mgl32.Vec3
	diffuse  mgl32.Vec3
	specular mgl32.Vec3

	intensity    float32
	shininess    float32
	castsShadows bool
	enabled      bool
}

// Light is a directional light source. It is the only light type that casts cascaded shadows.
type Light interface {
	// Direction returns the normalized direction the light travels (from the light toward the scene).
	Direction() mgl32.Vec3

	// ToLight returns the normalized direction from the scene toward the light, i.e. -Direction().
	ToLight() mgl32.Vec3

	// Ambient returns the ambient color contribution.
	Ambient() mgl32.Vec3

	// Diffuse returns the diffuse color contribution.
	Diffuse() mgl32.Vec3

	// Specular returns the specular color contribution.
	Specular() mgl32.Vec3

	// Intensity returns the scalar multiplier applied to the diffuse and specular terms.
	Intensity() float32

	// Shininess returns the Blinn-Phong specular exponent.
	Shininess() float32

	// CastsShadows reports whether the cascaded shadow passes should run for this light.
	CastsShadows() bool

	// Enabled reports whether the light contributes to shading at all.
	Enabled() bool

	// SetDirection sets the direction the light travels. The vector is normalized before storing;
	// a zero vector is ignored.
	SetDirection(x, y, z float32)

	// SetAmbient sets the ambient color contribution.
	SetAmbient(r, g, b float32)

	// SetDiffuse sets the diffuse color contribution.
	SetDiffuse(r, g, b float32)

	// SetSpecular sets the specular color contribution.
	SetSpecular(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// SetCastsShadows sets whether the light casts cascaded shadows.
	SetCastsShadows(castsShadows bool)

	// SetEnabled sets whether the light contributes to shading.
	SetEnabled(enabled bool)

	// Uniform returns the GPU representation of the light for the lit pass.
	Uniform() GPULightUniform
}

var _ Light = &lightImpl{}

// NewLight creates a directional light pointing straight down with the
// classic 0.05 / 0.4 / 0.5 ambient, diffuse and specular terms.
//
// Parameters:
//   - opts: functional options applied after the defaults
//
// Returns:
//   - Light: the new light
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:           &sync.Mutex{},
		direction:    mgl32.Vec3{0, -1, 0},
		ambient:      mgl32.Vec3{0.05, 0.05, 0.05},
		diffuse:      mgl32.Vec3{0.4, 0.4, 0.4},
		specular:     mgl32.Vec3{0.5, 0.5, 0.5},
		intensity:    1.0,
		shininess:    32.0,
		castsShadows: true,
		enabled:      true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) ToLight() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction.Mul(-1)
}

func (l *lightImpl) Ambient() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ambient
}

func (l *lightImpl) Diffuse() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.diffuse
}

func (l *lightImpl) Specular() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.specular
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Shininess() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shininess
}

func (l *lightImpl) CastsShadows() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.castsShadows
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if d, ok := normalize(x, y, z); ok {
		l.direction = d
	}
}

func (l *lightImpl) SetAmbient(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetDiffuse(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.diffuse = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetSpecular(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.specular = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.castsShadows = castsShadows
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *lightImpl) Uniform() GPULightUniform {
	l.mu.Lock()
	defer l.mu.Unlock()

	var u GPULightUniform
	toLight := l.direction.Mul(-1)
	copy(u.ToLight[:3], toLight[:])
	u.ToLight[3] = l.intensity
	copy(u.Ambient[:3], l.ambient[:])
	copy(u.Diffuse[:3], l.diffuse[:])
	copy(u.Specular[:3], l.specular[:])
	u.Specular[3] = l.shininess
	if !l.enabled {
		u.ToLight[3] = 0
	}
	return u
}

// normalize returns the unit vector of (x, y, z) and false when the input has zero length.
func normalize(x, y, z float32) (mgl32.Vec3, bool) {
	v := mgl32.Vec3{x, y, z}
	if v.LenSqr() == 0 {
		return mgl32.Vec3{}, false
	}
	return v.Normalize(), true
}
