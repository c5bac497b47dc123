package input

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-csm/common"
)

func TestPressedIsEdgeTriggered(t *testing.T) {
	p := NewPending()
	p.KeyDown(common.KeyB)
	p.KeyDown(common.KeyB) // auto-repeat

	in := p.Consume()
	if !in.Pressed(common.KeyB) || !in.Down(common.KeyB) {
		t.Fatalf("expected B pressed and down")
	}

	p.KeyDown(common.KeyB)
	in = p.Consume()
	if in.Pressed(common.KeyB) {
		t.Errorf("held key should not report a second press")
	}
	if !in.Down(common.KeyB) {
		t.Errorf("held key should still be down")
	}

	p.KeyUp(common.KeyB)
	p.KeyDown(common.KeyB)
	if in = p.Consume(); !in.Pressed(common.KeyB) {
		t.Errorf("release then press should report a new press")
	}
}

func TestMouseDeltaAccumulatesAndResets(t *testing.T) {
	p := NewPending()
	p.MouseMove(100, 100) // origin only
	p.MouseMove(110, 95)
	p.MouseMove(115, 90)
	p.Scroll(1)
	p.Scroll(0.5)

	in := p.Consume()
	if in.MouseDX != 15 || in.MouseDY != -10 {
		t.Errorf("delta = (%v, %v), want (15, -10)", in.MouseDX, in.MouseDY)
	}
	if in.Scroll != 1.5 {
		t.Errorf("scroll = %v, want 1.5", in.Scroll)
	}

	in = p.Consume()
	if in.MouseDX != 0 || in.MouseDY != 0 || in.Scroll != 0 {
		t.Errorf("per-frame state not reset: %+v", in)
	}
}

func TestButtonsAndResize(t *testing.T) {
	p := NewPending()
	p.MouseButton(common.MouseButtonRight, true)
	p.Resize(800, 600)

	in := p.Consume()
	if !in.Button(common.MouseButtonRight) || in.Button(common.MouseButtonLeft) {
		t.Errorf("unexpected button state")
	}
	if !in.Resized || in.Width != 800 || in.Height != 600 {
		t.Errorf("resize = %v %dx%d", in.Resized, in.Width, in.Height)
	}

	p.MouseButton(common.MouseButtonRight, false)
	in = p.Consume()
	if in.Button(common.MouseButtonRight) || in.Resized {
		t.Errorf("release or resize reset not applied")
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	p := NewPending()
	p.KeyDown(common.KeyW)
	in := p.Consume()
	p.KeyUp(common.KeyW)
	if !in.Down(common.KeyW) {
		t.Errorf("snapshot changed after later events")
	}
}

func TestConcurrentProducers(t *testing.T) {
	p := NewPending()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Scroll(1)
			}
		}()
	}
	wg.Wait()
	if in := p.Consume(); in.Scroll != 800 {
		t.Errorf("scroll = %v, want 800", in.Scroll)
	}
}
