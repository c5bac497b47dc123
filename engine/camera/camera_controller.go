package camera

import (
	"github.com/Carmen-Shannon/oxy-csm/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// Controller positions the camera. The camera asks it for an eye and a look-at point
// every time it rebuilds its matrices.
type Controller interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the world-space point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at point
	Target() mgl32.Vec3

	// Apply advances the controller by one frame of input.
	//
	// Parameters:
	//   - in: the input snapshot for this frame
	//   - dt: the frame time in seconds
	//
	// Returns:
	//   - float32: a field-of-view change in radians the camera should apply, 0 for none
	Apply(in input.FrameInput, dt float32) float32
}

// OrbitController circles a target point on a sphere and can pan the target along the
// camera's local axes. Orbit methods change the spherical coordinates; pan methods move
// position and target together so the orbit relationship is preserved.
type OrbitController interface {
	Controller

	// SetTarget moves the orbit centre and recomputes the position.
	//
	// Parameters:
	//   - target: the new look-at point
	SetTarget(target mgl32.Vec3)

	// Zoom moves the camera towards (positive) or away from (negative) the target.
	// The radius is clamped to the configured bounds.
	//
	// Parameters:
	//   - delta: the zoom amount, scaled by the zoom speed
	Zoom(delta float32)

	// Orbit rotates the camera around the target. Elevation is clamped to the configured bounds.
	//
	// Parameters:
	//   - dAzimuth: the change in azimuth in radians
	//   - dElevation: the change in elevation in radians
	Orbit(dAzimuth, dElevation float32)

	// PanRight translates position and target along the camera's right axis.
	PanRight(delta float32)

	// PanForward translates position and target along the camera's view direction.
	PanForward(delta float32)

	// Radius returns the distance from the target.
	Radius() float32

	// Azimuth returns the horizontal angle around the Y axis in radians.
	Azimuth() float32

	// Elevation returns the vertical angle above the horizontal plane in radians.
	Elevation() float32
}

// FlyController is a free-look camera driven by yaw and pitch.
type FlyController interface {
	Controller

	// SetPosition moves the camera without changing its orientation.
	//
	// Parameters:
	//   - position: the new eye position
	SetPosition(position mgl32.Vec3)

	// Look turns the camera. Pitch is clamped to ±MaxPitch.
	//
	// Parameters:
	//   - dYaw, dPitch: the change in degrees
	Look(dYaw, dPitch float32)

	// Yaw returns the heading in degrees. -90 looks down -Z.
	Yaw() float32

	// Pitch returns the pitch in degrees.
	Pitch() float32

	// Front returns the unit view direction.
	Front() mgl32.Vec3
}
