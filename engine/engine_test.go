package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/input"
)

func TestRenderLoopConsumesInputOncePerFrame(t *testing.T) {
	pressed := make(chan bool, 64)
	e := NewEngine(
		WithRenderFrameLimit(500),
		WithFrame(func(in input.FrameInput, _ float32) error {
			pressed <- in.Pressed(common.KeyB)
			return nil
		}),
	)
	e.Input().KeyDown(common.KeyB)

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	if !<-pressed {
		t.Error("first frame did not see the press")
	}
	if <-pressed {
		t.Error("second frame saw the same press again")
	}
	e.Quit()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestFrameErrorStopsEngine(t *testing.T) {
	var frames int
	e := NewEngine(WithFrame(func(input.FrameInput, float32) error {
		frames++
		return errors.New("device lost")
	}))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine kept running after a frame error")
	}
	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
}

func TestTickCallbackRuns(t *testing.T) {
	ticks := make(chan float32, 8)
	e := NewEngine(WithTickRate(200))
	e.SetTickCallback(func(dt float32) {
		select {
		case ticks <- dt:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case dt := <-ticks:
		if dt <= 0 {
			t.Errorf("dt = %v", dt)
		}
	case <-time.After(5 * time.Second):
		t.Error("no tick")
	}
	e.Quit()
	<-done
}
