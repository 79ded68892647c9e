package engine

import (
	"context"
	"io"
	"log/slog"
	"time"
)

const (
	// DefaultFrameRate is the target frame rate in frames per second.
	DefaultFrameRate = 60

	// statsInterval is how many frames pass between stats log lines.
	statsInterval = 600
)

// FrameFunc is invoked once per frame with the frame counter and the scene.
// The actual drawing backend (window, camera, stereo output) hangs off this
// hook; the loop itself only drives timing.
type FrameFunc func(frame uint64, scene *Scene)

// WithFrameRate sets the target frame rate of the render loop.
func WithFrameRate(fps int) func(*Renderer) {
	return func(r *Renderer) {
		if fps > 0 {
			r.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithFrameFunc sets the per-frame callback.
func WithFrameFunc(fn FrameFunc) func(*Renderer) {
	return func(r *Renderer) {
		r.onFrame = fn
	}
}

// WithRendererLogger sets the logger for the render loop.
func WithRendererLogger(logger *slog.Logger) func(*Renderer) {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// Renderer drives the frame loop over a scene. A frame reads whatever object
// the slot manager most recently installed; message handling and frame ticks
// are otherwise unordered relative to each other.
type Renderer struct {
	scene    *Scene
	interval time.Duration
	onFrame  FrameFunc
	logger   *slog.Logger
}

// NewRenderer creates a render loop for the given scene.
func NewRenderer(scene *Scene, options ...func(*Renderer)) *Renderer {
	r := Renderer{
		scene:    scene,
		interval: time.Second / DefaultFrameRate,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&r)
	}

	return &r
}

// Run ticks frames until the context is canceled.
func (r *Renderer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("render loop started", slog.Duration("frameInterval", r.interval))

	var frame uint64
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("render loop stopped", slog.Uint64("frames", frame))
			return nil

		case <-ticker.C:
			if r.onFrame != nil {
				r.onFrame(frame, r.scene)
			}
			frame++

			if frame%statsInterval == 0 {
				r.logger.Debug("frame stats",
					slog.Uint64("frame", frame),
					slog.Int("sceneObjects", r.scene.Len()))
			}
		}
	}
}
