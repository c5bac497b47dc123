package camera

import "github.com/go-gl/mathgl/mgl32"

// OrbitControllerOption configures an orbit controller at construction time.
type OrbitControllerOption func(*orbitControllerImpl)

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: the orbit radius in world units
//
// Returns:
//   - OrbitControllerOption: a function that sets the radius
func WithRadius(radius float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle in radians.
//
// Parameters:
//   - azimuth: the angle around the Y axis
//
// Returns:
//   - OrbitControllerOption: a function that sets the azimuth
func WithAzimuth(azimuth float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle in radians.
//
// Parameters:
//   - elevation: the angle above the XZ plane
//
// Returns:
//   - OrbitControllerOption: a function that sets the elevation
func WithElevation(elevation float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.elevation = elevation
	}
}

// WithTarget sets the initial orbit centre.
//
// Parameters:
//   - target: the look-at point
//
// Returns:
//   - OrbitControllerOption: a function that sets the target
func WithTarget(target mgl32.Vec3) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.target = target
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - minRadius, maxRadius: the closest and farthest allowed distance
//
// Returns:
//   - OrbitControllerOption: a function that sets the radius bounds
func WithRadiusBounds(minRadius, maxRadius float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithElevationBounds sets the elevation limits in radians.
//
// Parameters:
//   - minElevation, maxElevation: the allowed elevation range
//
// Returns:
//   - OrbitControllerOption: a function that sets the elevation bounds
func WithElevationBounds(minElevation, maxElevation float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.minElevation = minElevation
		cc.maxElevation = maxElevation
	}
}

// WithOrbitSpeed sets the keyboard orbit rate in radians per second.
func WithOrbitSpeed(speed float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithMouseSensitivity sets the drag orbit rate in radians per pixel.
func WithMouseSensitivity(sensitivity float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the radius change per scroll notch.
func WithZoomSpeed(speed float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the keyboard pan rate in units per second.
func WithPanSpeed(speed float32) OrbitControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.panSpeed = speed
	}
}
