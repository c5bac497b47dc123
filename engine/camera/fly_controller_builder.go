package camera

import "github.com/go-gl/mathgl/mgl32"

// FlyControllerOption configures a fly controller at construction time.
type FlyControllerOption func(*flyControllerImpl)

// WithFlyPosition sets the starting eye position.
//
// Parameters:
//   - position: the world-space position
//
// Returns:
//   - FlyControllerOption: a function that sets the position
func WithFlyPosition(position mgl32.Vec3) FlyControllerOption {
	return func(fc *flyControllerImpl) {
		fc.position = position
	}
}

// WithYawPitch sets the starting orientation in degrees. Pitch is clamped to ±MaxPitch.
//
// Parameters:
//   - yaw: the heading, -90 looks down -Z
//   - pitch: the elevation of the view direction
//
// Returns:
//   - FlyControllerOption: a function that sets the orientation
func WithYawPitch(yaw, pitch float32) FlyControllerOption {
	return func(fc *flyControllerImpl) {
		fc.yaw = yaw
		fc.pitch = pitch
	}
}

// WithLookSensitivity sets the mouse-look rate in degrees per pixel.
func WithLookSensitivity(sensitivity float32) FlyControllerOption {
	return func(fc *flyControllerImpl) {
		fc.lookSensitivity = sensitivity
	}
}

// WithMoveSpeed sets the movement speed in units per second.
func WithMoveSpeed(speed float32) FlyControllerOption {
	return func(fc *flyControllerImpl) {
		fc.moveSpeed = speed
	}
}

// WithScrollSensitivity sets the field-of-view change in degrees per scroll notch.
func WithScrollSensitivity(sensitivity float32) FlyControllerOption {
	return func(fc *flyControllerImpl) {
		fc.scrollSensitivity = sensitivity
	}
}
