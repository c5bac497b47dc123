package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxPitch is the pitch limit in degrees. Looking straight up or down would make the
	// look-at basis degenerate.
	MaxPitch float32 = 89.0
	// DefaultLookSensitivity is the mouse-look rate in degrees per pixel.
	DefaultLookSensitivity float32 = 0.1
	// DefaultMoveSpeed is the WASD speed in units per second.
	DefaultMoveSpeed float32 = 2.5
	// DefaultScrollSensitivity is the field-of-view change in degrees per scroll notch.
	DefaultScrollSensitivity float32 = 3.0
)

type flyControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	front    mgl32.Vec3
	right    mgl32.Vec3

	yaw   float32 // degrees
	pitch float32 // degrees

	lookSensitivity   float32
	moveSpeed         float32
	scrollSensitivity float32
}

var _ FlyController = &flyControllerImpl{}

// NewFlyController creates a free-look controller at the origin looking down -Z.
//
// Controls applied by Apply:
//   - mouse movement with the right button held turns the camera
//   - W/S move along the view direction, A/D strafe, Space/Left Shift rise/sink
//   - the scroll wheel narrows or widens the field of view
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - FlyController: the newly created controller
func NewFlyController(options ...FlyControllerOption) FlyController {
	fc := &flyControllerImpl{
		mu:                &sync.Mutex{},
		yaw:               -90,
		lookSensitivity:   DefaultLookSensitivity,
		moveSpeed:         DefaultMoveSpeed,
		scrollSensitivity: DefaultScrollSensitivity,
	}
	for _, option := range options {
		option(fc)
	}
	fc.pitch = mgl32.Clamp(fc.pitch, -MaxPitch, MaxPitch)
	fc.updateVectors()
	return fc
}

// updateVectors rebuilds front and right from yaw and pitch. Caller must hold the mutex.
func (fc *flyControllerImpl) updateVectors() {
	yaw := float64(mgl32.DegToRad(fc.yaw))
	pitch := float64(mgl32.DegToRad(fc.pitch))
	fc.front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	fc.right = fc.front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (fc *flyControllerImpl) Position() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.position
}

func (fc *flyControllerImpl) Target() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.position.Add(fc.front)
}

func (fc *flyControllerImpl) SetPosition(position mgl32.Vec3) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = position
}

func (fc *flyControllerImpl) Look(dYaw, dPitch float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.yaw += dYaw
	fc.pitch = mgl32.Clamp(fc.pitch+dPitch, -MaxPitch, MaxPitch)
	fc.updateVectors()
}

func (fc *flyControllerImpl) Yaw() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.yaw
}

func (fc *flyControllerImpl) Pitch() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.pitch
}

func (fc *flyControllerImpl) Front() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.front
}

func (fc *flyControllerImpl) Apply(in input.FrameInput, dt float32) float32 {
	if in.Button(common.MouseButtonRight) && (in.MouseDX != 0 || in.MouseDY != 0) {
		// Screen Y grows downwards.
		fc.Look(in.MouseDX*fc.lookSensitivity, -in.MouseDY*fc.lookSensitivity)
	}

	fc.mu.Lock()
	step := fc.moveSpeed * dt
	var move mgl32.Vec3
	if in.Down(common.KeyW) {
		move = move.Add(fc.front)
	}
	if in.Down(common.KeyS) {
		move = move.Sub(fc.front)
	}
	if in.Down(common.KeyD) {
		move = move.Add(fc.right)
	}
	if in.Down(common.KeyA) {
		move = move.Sub(fc.right)
	}
	if in.Down(common.KeySpace) {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if in.Down(common.KeyLeftShift) {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}
	fc.position = fc.position.Add(move.Mul(step))
	zoom := -in.Scroll * fc.scrollSensitivity
	fc.mu.Unlock()

	return mgl32.DegToRad(zoom)
}
