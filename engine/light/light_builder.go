package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection is an option builder that sets the direction the light travels.
// The direction is normalized before storing; a zero vector leaves the default in place.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		if d, ok := normalize(x, y, z); ok {
			l.direction = d
		}
	}
}

// WithAmbient is an option builder that sets the ambient color.
//
// Parameters:
//   - r, g, b: the ambient color components
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option to a lightImpl
func WithAmbient(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = mgl32.Vec3{r, g, b}
	}
}

// WithDiffuse is an option builder that sets the diffuse color.
//
// Parameters:
//   - r, g, b: the diffuse color components
//
// Returns:
//   - LightBuilderOption: a function that applies the diffuse option to a lightImpl
func WithDiffuse(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.diffuse = mgl32.Vec3{r, g, b}
	}
}

// WithSpecular is an option builder that sets the specular color.
//
// Parameters:
//   - r, g, b: the specular color components
//
// Returns:
//   - LightBuilderOption: a function that applies the specular option to a lightImpl
func WithSpecular(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.specular = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithShininess is an option builder that sets the Blinn-Phong specular exponent.
//
// Parameters:
//   - shininess: the specular exponent
//
// Returns:
//   - LightBuilderOption: a function that applies the shininess option to a lightImpl
func WithShininess(shininess float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shininess = shininess
	}
}

// WithCastsShadows is an option builder that sets whether the light casts cascaded shadows.
//
// Parameters:
//   - castsShadows: true to render the shadow passes for this light
//
// Returns:
//   - LightBuilderOption: a function that applies the casts-shadows option to a lightImpl
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// WithEnabled is an option builder that sets whether the light contributes to shading.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
