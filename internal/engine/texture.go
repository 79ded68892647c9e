package engine

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxTextureEdge is the longest image edge accepted as-is; larger images are
// downscaled to fit so the upload path never sees an oversized texture.
const MaxTextureEdge = 4096

// Texture is a decoded image ready for sampling.
type Texture struct {
	Image image.Image

	// SRGB marks the texture as authored in perceptual sRGB so sampling
	// matches the source image colors.
	SRGB bool
}

// WithLoaderClient sets the HTTP client used to fetch textures.
func WithLoaderClient(client *http.Client) func(*TextureLoader) {
	return func(l *TextureLoader) {
		l.client = client
	}
}

// WithLoaderLogger sets the logger for the texture loader.
func WithLoaderLogger(logger *slog.Logger) func(*TextureLoader) {
	return func(l *TextureLoader) {
		l.logger = logger
	}
}

// TextureLoader fetches and decodes textures in the background. Loads are
// fire-and-forget: completion or failure is delivered via callback outside
// the caller's path, and no timeout is applied; a stuck fetch simply never
// resolves.
type TextureLoader struct {
	client *http.Client
	logger *slog.Logger
}

// NewTextureLoader creates a texture loader with a discard logger and the
// default HTTP client.
func NewTextureLoader(options ...func(*TextureLoader)) *TextureLoader {
	l := TextureLoader{
		client: http.DefaultClient,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&l)
	}

	return &l
}

// Load fetches the image at url in a new goroutine and invokes exactly one of
// onLoad or onError when the load resolves.
func (l *TextureLoader) Load(ctx context.Context, url string, onLoad func(*Texture), onError func(error)) {
	go func() {
		tex, err := l.fetch(ctx, url)
		if err != nil {
			onError(err)
			return
		}
		onLoad(tex)
	}()
}

func (l *TextureLoader) fetch(ctx context.Context, url string) (*Texture, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building texture request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching texture: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching texture: unexpected status %s", resp.Status)
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding texture: %w", err)
	}

	l.logger.Debug("texture decoded",
		slog.String("url", url),
		slog.String("format", format),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()))

	return &Texture{Image: clampTexture(img), SRGB: true}, nil
}

// clampTexture downscales img so its longest edge fits MaxTextureEdge,
// preserving aspect ratio.
func clampTexture(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	long := max(w, h)
	if long <= MaxTextureEdge {
		return img
	}

	scale := float64(MaxTextureEdge) / float64(long)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
