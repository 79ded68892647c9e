package engine

import (
	"context"
	"testing"
	"time"
)

func TestRenderer_Run(t *testing.T) {
	scene := NewScene()
	scene.Add(NewPoints(&Geometry{}, &Material{}))

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan uint64, 16)

	renderer := NewRenderer(scene,
		WithFrameRate(500),
		WithFrameFunc(func(frame uint64, s *Scene) {
			if s.Len() != 1 {
				t.Errorf("Expected 1 scene object, got %d", s.Len())
			}
			select {
			case frames <- frame:
			default:
			}
		}))

	done := make(chan error, 1)
	go func() {
		done <- renderer.Run(ctx)
	}()

	// Wait for a few frames, then stop the loop.
	var last uint64
	for i := 0; i < 3; i++ {
		select {
		case last = <-frames:
		case <-time.After(5 * time.Second):
			t.Fatal("Render loop produced no frames")
		}
	}
	if last < 2 {
		t.Errorf("Expected at least 3 frames, last counter was %d", last)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Render loop did not stop on cancellation")
	}
}

func TestRenderer_RunWithoutFrameFunc(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	renderer := NewRenderer(NewScene(), WithFrameRate(1000))

	done := make(chan error, 1)
	go func() {
		done <- renderer.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Render loop did not stop on cancellation")
	}
}
