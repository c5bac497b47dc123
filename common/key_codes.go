package common

// Key codes delivered by the window layer. Printable keys use their ASCII value,
// the rest match GLFW.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW = 87
	KeyA = 65
	KeyS = 83
	KeyD = 68
	KeyQ = 81
	KeyE = 69
	KeyB = 66 // toggle bloom
	KeyC = 67 // toggle cascade debug tint
	KeyG = 71 // toggle Gooch shading
	KeyX = 88 // toggle sun shadows

	KeyLeftBracket  = 91 // shrink bloom filter radius
	KeyRightBracket = 93 // grow bloom filter radius

	KeySpace      = 32
	KeyMinus      = 45
	KeyEqual      = 61
	KeyEsc        = 256
	KeyKPSubtract = 333
	KeyKPAdd      = 334
	KeyLeftShift  = 340
)

// MouseButton identifies a mouse button in input callbacks. Values match GLFW.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)
