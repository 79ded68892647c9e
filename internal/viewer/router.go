package viewer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// WithRouterLogger sets the logger for the router.
func WithRouterLogger(logger *slog.Logger) func(*Router) {
	return func(r *Router) {
		r.logger = logger
	}
}

// Router turns inbound messages into scene updates. Renderables are built
// fully in a local scope before the slot is touched, so a failing build never
// leaves a partially constructed object installed and never disturbs the
// object already on display.
type Router struct {
	slot    *Slot
	clouds  *CloudBuilder
	spheres *SphereBuilder
	logger  *slog.Logger
}

// NewRouter creates a router over the given slot and builders.
func NewRouter(slot *Slot, clouds *CloudBuilder, spheres *SphereBuilder, options ...func(*Router)) *Router {
	r := Router{
		slot:    slot,
		clouds:  clouds,
		spheres: spheres,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&r)
	}

	return &r
}

// Handle classifies one raw message and installs the renderable it describes.
// A returned error means the message was dropped and the scene is unchanged.
func (r *Router) Handle(ctx context.Context, raw string) error {
	switch msg := DecodeMessage(raw).(type) {
	case ImageMessage:
		r.installSphere(ctx, msg.URL)
		return nil

	case PointsMessage:
		return r.installCloud(msg.TableJSON)

	case LegacyPointsMessage:
		return r.installCloud(msg.Raw)

	default:
		return fmt.Errorf("unhandled message variant %T", msg)
	}
}

func (r *Router) installCloud(tableJSON string) error {
	cloud, stats, err := r.clouds.Build(tableJSON)
	if err != nil {
		return fmt.Errorf("building point cloud: %w", err)
	}

	r.slot.Clear()
	r.slot.Install(cloud)

	r.logger.Info("installed point cloud",
		slog.String("points", humanize.Comma(int64(stats.Accepted))),
		slog.Int("skippedRows", stats.Skipped))
	return nil
}

func (r *Router) installSphere(ctx context.Context, url string) {
	sphere := r.spheres.Build()

	r.slot.Clear()
	r.slot.Install(sphere)

	// The sphere renders untextured until the background fetch resolves; the
	// swap is skipped if the sphere has been replaced by then.
	r.spheres.LoadTexture(ctx, sphere, url, func() bool {
		return r.slot.IsCurrent(sphere)
	})

	r.logger.Info("installed photosphere", slog.String("url", url))
}
