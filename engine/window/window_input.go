package window

import "github.com/Carmen-Shannon/oxy-csm/engine/input"

// BindInput routes every input and resize callback of w into p. Callbacks set this way
// replace any previously registered ones; register additional handlers afterwards by
// wrapping them.
//
// Parameters:
//   - w: the window delivering events
//   - p: the accumulator the render loop consumes once per frame
func BindInput(w Window, p *input.Pending) {
	w.SetKeyDownCallback(p.KeyDown)
	w.SetKeyUpCallback(p.KeyUp)
	w.SetMouseButtonCallback(p.MouseButton)
	w.SetMouseMoveCallback(p.MouseMove)
	w.SetScrollCallback(p.Scroll)
	w.SetResizeCallback(p.Resize)
	p.Resize(w.Width(), w.Height())
}
