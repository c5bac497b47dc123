// Package input collects window events between frames and hands the render loop
// an immutable snapshot of them once per frame.
package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-csm/common"
)

// Pending accumulates events delivered by the window callbacks. The window thread
// writes to it while the render goroutine consumes it, so every method locks.
type Pending struct {
	mu *sync.Mutex

	held    map[int]bool
	pressed map[int]bool
	buttons map[common.MouseButton]bool

	mouseX, mouseY float64
	haveMouse      bool
	dx, dy         float64
	scroll         float64

	resized       bool
	width, height int
}

// FrameInput is the input state for one frame. It is never mutated after Consume returns it.
type FrameInput struct {
	held    map[int]bool
	pressed map[int]bool
	buttons map[common.MouseButton]bool

	// MouseDX and MouseDY are the cursor movement in pixels since the previous frame.
	MouseDX, MouseDY float32
	// Scroll is the accumulated vertical wheel offset since the previous frame.
	Scroll float32
	// Resized reports a framebuffer size change since the previous frame; Width and Height hold the latest size.
	Resized       bool
	Width, Height int
}

// NewPending creates an empty event accumulator.
func NewPending() *Pending {
	return &Pending{
		mu:      &sync.Mutex{},
		held:    make(map[int]bool),
		pressed: make(map[int]bool),
		buttons: make(map[common.MouseButton]bool),
	}
}

// KeyDown records a key press. Auto-repeat of a key already held does not count as a new press.
//
// Parameters:
//   - key: the key code, see common.Key*
func (p *Pending) KeyDown(key int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.held[key] {
		p.pressed[key] = true
	}
	p.held[key] = true
}

// KeyUp records a key release.
//
// Parameters:
//   - key: the key code, see common.Key*
func (p *Pending) KeyUp(key int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.held, key)
}

// MouseMove records an absolute cursor position and accumulates the delta from the last one.
// The first position after creation only establishes the origin.
//
// Parameters:
//   - x, y: the cursor position in window pixels
func (p *Pending) MouseMove(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.haveMouse {
		p.dx += x - p.mouseX
		p.dy += y - p.mouseY
	}
	p.mouseX, p.mouseY = x, y
	p.haveMouse = true
}

// MouseButton records a button transition.
//
// Parameters:
//   - button: the button that changed
//   - down: true for press, false for release
func (p *Pending) MouseButton(button common.MouseButton, down bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if down {
		p.buttons[button] = true
	} else {
		delete(p.buttons, button)
	}
}

// Scroll accumulates a vertical wheel offset.
//
// Parameters:
//   - offset: the wheel offset reported by the window
func (p *Pending) Scroll(offset float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scroll += offset
}

// Resize records the latest framebuffer size.
//
// Parameters:
//   - width, height: the new framebuffer size in pixels
func (p *Pending) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resized = true
	p.width, p.height = width, height
}

// Consume snapshots the accumulated state and resets the per-frame parts of it
// (press edges, mouse delta, scroll, resize). Held keys and buttons carry over.
//
// Returns:
//   - FrameInput: the snapshot for this frame
func (p *Pending) Consume() FrameInput {
	p.mu.Lock()
	defer p.mu.Unlock()

	in := FrameInput{
		held:    make(map[int]bool, len(p.held)),
		pressed: p.pressed,
		buttons: make(map[common.MouseButton]bool, len(p.buttons)),
		MouseDX: float32(p.dx),
		MouseDY: float32(p.dy),
		Scroll:  float32(p.scroll),
		Resized: p.resized,
		Width:   p.width,
		Height:  p.height,
	}
	for k := range p.held {
		in.held[k] = true
	}
	for b := range p.buttons {
		in.buttons[b] = true
	}

	p.pressed = make(map[int]bool)
	p.dx, p.dy, p.scroll = 0, 0, 0
	p.resized = false
	return in
}

// Down reports whether key was held at the time of the snapshot.
func (in FrameInput) Down(key int) bool {
	return in.held[key]
}

// Pressed reports whether key went down since the previous snapshot.
func (in FrameInput) Pressed(key int) bool {
	return in.pressed[key]
}

// Button reports whether the mouse button was held at the time of the snapshot.
func (in FrameInput) Button(b common.MouseButton) bool {
	return in.buttons[b]
}
