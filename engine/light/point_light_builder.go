package light

import "github.com/go-gl/mathgl/mgl32"

// PointLightBuilderOption is a function that configures a PointLight during construction.
type PointLightBuilderOption func(*pointLight)

// WithPosition sets the point light's world-space position.
//
// Parameters:
//   - position: the position
//
// Returns:
//   - PointLightBuilderOption: a function that sets the position
func WithPosition(position mgl32.Vec3) PointLightBuilderOption {
	return func(p *pointLight) {
		p.position = position
	}
}

// WithColor sets the ambient, diffuse and specular terms from one color, scaled by the
// 0.2 / 0.5 / 1.0 ratios of the default white light.
//
// Parameters:
//   - r, g, b: the light color
//
// Returns:
//   - PointLightBuilderOption: a function that sets the three color terms
func WithColor(r, g, b float32) PointLightBuilderOption {
	return func(p *pointLight) {
		c := mgl32.Vec3{r, g, b}
		p.ambient = c.Mul(0.2)
		p.diffuse = c.Mul(0.5)
		p.specular = c
	}
}

// WithAttenuation sets the constant, linear and quadratic falloff factors.
//
// Parameters:
//   - constant: the constant term, usually 1
//   - linear: the term proportional to distance
//   - quadratic: the term proportional to distance squared
//
// Returns:
//   - PointLightBuilderOption: a function that sets the attenuation
func WithAttenuation(constant, linear, quadratic float32) PointLightBuilderOption {
	return func(p *pointLight) {
		p.constant = constant
		p.linear = linear
		p.quadratic = quadratic
	}
}

// WithPointIntensity sets the scalar multiplier applied to every term.
func WithPointIntensity(intensity float32) PointLightBuilderOption {
	return func(p *pointLight) {
		p.intensity = intensity
	}
}
