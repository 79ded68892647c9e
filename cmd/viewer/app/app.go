package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/roboscan/vrviewer/internal/engine"
	"github.com/roboscan/vrviewer/internal/viewer"
)

// Run wires the scene, the builders and the router together, then drives the
// render loop and the message pump until the channel closes or the process
// is signaled.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	input, closeInput, err := openInput(config.Input)
	if err != nil {
		return err
	}
	defer closeInput()

	scene := engine.NewScene()
	slot := viewer.NewSlot(scene)

	loader := engine.NewTextureLoader(engine.WithLoaderLogger(logger))
	clouds := viewer.NewCloudBuilder(config.CloudConfig())
	spheres := viewer.NewSphereBuilder(config.SphereConfig(), loader, viewer.WithSphereLogger(logger))

	router := viewer.NewRouter(slot, clouds, spheres, viewer.WithRouterLogger(logger))
	pump := NewPump(router, WithPumpLogger(logger))

	renderer := engine.NewRenderer(scene,
		engine.WithFrameRate(config.FrameRate),
		engine.WithRendererLogger(logger))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderDone := make(chan error, 1)
	go func() {
		renderDone <- renderer.Run(ctx)
	}()

	logger.Info("viewer ready",
		slog.String("input", config.Input),
		slog.Group("tuning",
			slog.Float64("minDistanceCM", config.Tuning.MinDistanceCM),
			slog.Float64("maxDistanceCM", config.Tuning.MaxDistanceCM),
			slog.Float64("hueSpan", config.Tuning.HueSpan)))

	pumpErr := pump.Run(ctx, input)

	cancel()
	if renderErr := <-renderDone; renderErr != nil && pumpErr == nil {
		return renderErr
	}
	return pumpErr
}

func openInput(path string) (input *os.File, closeInput func(), err error) {
	if path == StdinInput {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening message source '%s': %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
