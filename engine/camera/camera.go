package camera

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/input"
	"github.com/Carmen-Shannon/oxy-csm/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultFov is the vertical field of view in radians (45°).
	DefaultFov float32 = 45.0 * math.Pi / 180.0
	// DefaultNear and DefaultFar are the default clip planes.
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 100.0
)

var (
	// MinFov and MaxFov bound the field of view in radians.
	MinFov = mgl32.DegToRad(1)
	MaxFov = mgl32.DegToRad(90)
)

// ErrInvalidCamera is returned by Validate when the projection parameters cannot
// produce a usable frustum.
var ErrInvalidCamera = errors.New("invalid camera parameters")

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	controller Controller
}

// Camera holds perspective settings and computes view and projection matrices from
// an attached Controller. Projection uses a [0, 1] depth range.
type Camera interface {
	// Up returns the camera's up vector.
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Position returns the eye position reported by the controller, or the origin without one.
	Position() mgl32.Vec3

	// ViewMatrix returns the current view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	ProjectionMatrix() mgl32.Mat4

	// Params returns the subset of the camera the cascade fitter needs.
	//
	// Returns:
	//   - light.CameraParams: view matrix, fov, aspect and clip planes
	Params() light.CameraParams

	// Uniform returns the camera uniform for the lit pass.
	//
	// Returns:
	//   - GPUCameraUniform: the packed uniform
	Uniform() GPUCameraUniform

	// Validate reports whether the projection parameters describe a usable frustum.
	//
	// Returns:
	//   - error: ErrInvalidCamera wrapped with the offending values, or nil
	Validate() error

	// Controller returns the attached controller, or nil.
	Controller() Controller

	// Apply forwards one frame of input to the controller, applies any field-of-view
	// change it requests and rebuilds the matrices.
	//
	// Parameters:
	//   - in: the input snapshot for this frame
	//   - dt: the frame time in seconds
	Apply(in input.FrameInput, dt float32)

	// Update rebuilds the matrices from the controller.
	Update()

	// SetUp sets the camera's up vector.
	SetUp(up mgl32.Vec3)

	// SetFov sets the vertical field of view in radians, clamped to [MinFov, MaxFov].
	SetFov(fov float32)

	// SetAspect sets the aspect ratio.
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	SetFar(far float32)

	// SetController attaches a controller.
	SetController(ctrl Controller)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with a 45° field of view and clip planes [0.1, 100].
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                   &sync.Mutex{},
		up:                   mgl32.Vec3{0, 1, 0},
		fov:                  DefaultFov,
		aspect:               1.0,
		near:                 DefaultNear,
		far:                  DefaultFar,
		viewMatrix:           mgl32.Ident4(),
		projectionMatrix:     mgl32.Ident4(),
		viewProjectionMatrix: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()
	if ctrl == nil {
		return mgl32.Vec3{}
	}
	return ctrl.Position()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Params() light.CameraParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return light.CameraParams{
		View:   c.viewMatrix,
		FovY:   c.fov,
		Aspect: c.aspect,
		Near:   c.near,
		Far:    c.far,
	}
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	pos := c.Position()
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj: c.viewProjectionMatrix,
		View:     c.viewMatrix,
		Position: pos.Vec4(1),
	}
}

func (c *cameraImpl) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.near <= 0 || c.far <= c.near:
		return fmt.Errorf("%w: near %v, far %v", ErrInvalidCamera, c.near, c.far)
	case c.fov <= 0 || c.fov >= mgl32.DegToRad(180):
		return fmt.Errorf("%w: fov %v", ErrInvalidCamera, c.fov)
	case c.aspect <= 0:
		return fmt.Errorf("%w: aspect %v", ErrInvalidCamera, c.aspect)
	}
	return nil
}

func (c *cameraImpl) Controller() Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Apply(in input.FrameInput, dt float32) {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()

	var zoom float32
	if ctrl != nil {
		zoom = ctrl.Apply(in, dt)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if zoom != 0 {
		c.fov = mgl32.Clamp(c.fov+zoom, MinFov, MaxFov)
	}
	if in.Resized && in.Width > 0 && in.Height > 0 {
		c.aspect = float32(in.Width) / float32(in.Height)
	}
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = mgl32.Clamp(fov, MinFov, MaxFov)
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recomputes view, projection and their product. Without a controller the
// view stays identity. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller != nil {
		c.viewMatrix = mgl32.LookAtV(c.controller.Position(), c.controller.Target(), c.up)
	}
	if c.near > 0 && c.far > c.near && c.aspect > 0 {
		c.projectionMatrix = common.PerspectiveZO(c.fov, c.aspect, c.near, c.far)
	}
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
