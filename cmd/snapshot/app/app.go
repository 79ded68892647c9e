package app

import (
	"bufio"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/roboscan/vrviewer/internal/engine"
	"github.com/roboscan/vrviewer/internal/viewer"
)

const (
	scanBufferSize    = 64 * 1024
	maxMessageSize    = 16 * 1024 * 1024
	jpegEncodeQuality = 98
)

// Run replays a recorded message log through the live routing pipeline and
// renders the final point cloud as an annotated top-down image.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.LogPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("message log '%s' does not exist: %w", config.LogPath, err)
	}

	f, err := os.Open(config.LogPath)
	if err != nil {
		return fmt.Errorf("opening message log: %w", err)
	}
	defer f.Close()

	scene := engine.NewScene()
	slot := viewer.NewSlot(scene)
	clouds := viewer.NewCloudBuilder(config.CloudConfig())
	spheres := viewer.NewSphereBuilder(viewer.DefaultSphereConfig(), engine.NewTextureLoader())
	router := viewer.NewRouter(slot, clouds, spheres)

	logger.Info("replaying message log", slog.String("path", config.LogPath))

	var handled, dropped int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, scanBufferSize), maxMessageSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Same drop semantics as the live viewer: a bad message never aborts
		// the replay.
		if err := router.Handle(ctx, line); err != nil {
			dropped++
			if config.Verbose {
				logger.Warn("dropping message", slog.String("error", err.Error()))
			}
			continue
		}
		handled++
	}
	if err = scanner.Err(); err != nil {
		return fmt.Errorf("reading message log: %w", err)
	}

	logger.Info("finished replaying messages",
		slog.Int("handled", handled),
		slog.Int("dropped", dropped))

	var cloud *engine.Points
	switch obj := slot.Current().(type) {
	case *engine.Points:
		cloud = obj
	case nil:
		return fmt.Errorf("message log produced no renderable")
	default:
		return fmt.Errorf("last message selected a photosphere; snapshot renders point clouds only")
	}

	renderer, err := NewCloudRenderer(RenderConfig{PlotSize: config.PlotSize}, config.CloudConfig())
	if err != nil {
		return fmt.Errorf("creating cloud renderer: %w", err)
	}

	logger.Info("rendering snapshot",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("plotSize", config.PlotSize),
			slog.Int("points", cloud.Geometry.VertexCount()),
		))

	img, err := renderer.Render(cloud)
	if err != nil {
		return fmt.Errorf("rendering snapshot: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: jpegEncodeQuality,
		})
	}
	return err
}
