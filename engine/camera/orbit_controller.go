package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// orbitControllerImpl is the implementation of OrbitController.
type orbitControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32 // around Y
	elevation float32 // above the XZ plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed       float32 // radians per second for Q/E
	mouseSensitivity float32 // radians per pixel while dragging
	zoomSpeed        float32 // radius units per scroll notch
	panSpeed         float32 // units per second for WASD
}

var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates an orbit controller. The defaults frame a scene a few
// tens of units across from slightly above.
//
// Controls applied by Apply:
//   - right mouse drag orbits
//   - Q/E orbit left/right
//   - W/S pan forward/back, A/D pan left/right
//   - the scroll wheel zooms
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(options ...OrbitControllerOption) OrbitController {
	cc := &orbitControllerImpl{
		mu:        &sync.Mutex{},
		radius:    30.0,
		elevation: float32(math.Pi / 6),

		minRadius:    2.0,
		maxRadius:    500.0,
		minElevation: 0.05,
		maxElevation: float32(math.Pi/2 - 0.1),

		orbitSpeed:       1.5,
		mouseSensitivity: 0.005,
		zoomSpeed:        2.0,
		panSpeed:         10.0,
	}

	for _, option := range options {
		option(cc)
	}

	cc.clamp()
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *orbitControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// clamp keeps radius and elevation inside their bounds. Caller must hold the mutex.
func (cc *orbitControllerImpl) clamp() {
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl32.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
}

// localAxes returns the right and forward axes matching the look-at view matrix.
// Right is horizontal because world up is +Y. Caller must hold the mutex.
func (cc *orbitControllerImpl) localAxes() (right, forward mgl32.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, back.Mul(-1)
	}
	return right.Normalize(), back.Mul(-1)
}

func (cc *orbitControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *orbitControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *orbitControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *orbitControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius -= delta * cc.zoomSpeed
	cc.clamp()
	cc.updatePosition()
}

func (cc *orbitControllerImpl) Orbit(dAzimuth, dElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += dAzimuth
	cc.elevation += dElevation
	cc.clamp()
	cc.updatePosition()
}

func (cc *orbitControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, _ := cc.localAxes()
	offset := right.Mul(delta)
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *orbitControllerImpl) PanForward(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, forward := cc.localAxes()
	offset := forward.Mul(delta)
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *orbitControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *orbitControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *orbitControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *orbitControllerImpl) Apply(in input.FrameInput, dt float32) float32 {
	cc.mu.Lock()
	orbitSpeed, sens, pan := cc.orbitSpeed, cc.mouseSensitivity, cc.panSpeed*dt
	cc.mu.Unlock()

	var dAz, dEl float32
	if in.Button(common.MouseButtonRight) {
		dAz -= in.MouseDX * sens
		dEl += in.MouseDY * sens
	}
	if in.Down(common.KeyQ) {
		dAz -= orbitSpeed * dt
	}
	if in.Down(common.KeyE) {
		dAz += orbitSpeed * dt
	}
	if dAz != 0 || dEl != 0 {
		cc.Orbit(dAz, dEl)
	}

	if in.Down(common.KeyW) {
		cc.PanForward(pan)
	}
	if in.Down(common.KeyS) {
		cc.PanForward(-pan)
	}
	if in.Down(common.KeyD) {
		cc.PanRight(pan)
	}
	if in.Down(common.KeyA) {
		cc.PanRight(-pan)
	}
	if in.Scroll != 0 {
		cc.Zoom(in.Scroll)
	}
	return 0
}
