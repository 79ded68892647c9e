package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roboscan/vrviewer/internal/engine"
	"github.com/roboscan/vrviewer/internal/viewer"
)

const (
	defaultPlotSize = 800

	dpi            = 120.0
	fontSize       = 12.0
	tickMarkLength = 5
	pixelsPerLabel = 150.0

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 60
	defaultRightBorder  = 110

	legendBarWidth = 18
)

var plotBackground = color.RGBA{R: 16, G: 16, B: 16, A: 255}

// BorderConfig defines the sizes of white space around the plot
type BorderConfig struct {
	Top    int
	Left   int // Space for the depth scale
	Bottom int // Space for the information bar
	Right  int // Space for the distance legend
}

// RenderConfig holds the configuration options for the top-down cloud plot.
type RenderConfig struct {
	PlotSize  int     // Side of the square plot area in pixels
	FontSize  float64 // Font size in points
	PointSpan int     // Rasterized point size in pixels (0 derives it from the material)

	Borders BorderConfig
}

// CloudRenderer draws a top-down orthographic projection of a point cloud:
// the render-space ground plane (X across, Z away from the sensor), each
// point colored exactly as the live viewer colors it.
type CloudRenderer struct {
	mapper *DistanceMapper
	window viewer.CloudConfig
	config RenderConfig
}

// NewCloudRenderer creates a renderer with the given configuration.
func NewCloudRenderer(config RenderConfig, window viewer.CloudConfig) (*CloudRenderer, error) {
	if config.PlotSize == 0 {
		config.PlotSize = defaultPlotSize
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	return &CloudRenderer{
		mapper: NewDistanceMapper(window, DefaultColorMapSize),
		window: window,
		config: config,
	}, nil
}

// Render draws the point cloud into a new image. An empty cloud yields a
// valid, empty plot.
func (r *CloudRenderer) Render(cloud *engine.Points) (*image.RGBA, error) {
	size := r.config.PlotSize
	fullWidth := size + r.config.Borders.Left + r.config.Borders.Right
	fullHeight := size + r.config.Borders.Top + r.config.Borders.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	plotArea := image.Rect(
		r.config.Borders.Left,
		r.config.Borders.Top,
		r.config.Borders.Left+size,
		r.config.Borders.Top+size,
	)
	draw.Draw(img, plotArea, image.NewUniform(plotBackground), image.Point{}, draw.Src)

	bounds := cloudBounds(cloud.Geometry)

	ann, err := newAnnotator(annotatorConfig{
		FontSize: r.config.FontSize,
		Borders:  r.config.Borders,
		PlotSize: size,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	if err = ann.annotate(img, cloud, bounds, r.window, r.mapper); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	r.renderPoints(img, plotArea, cloud, bounds)
	return img, nil
}

// renderPoints projects every point onto the plot area.
func (r *CloudRenderer) renderPoints(img *image.RGBA, area image.Rectangle, cloud *engine.Points, bounds cloudExtent) {
	positions := cloud.Geometry.Positions
	colors := cloud.Geometry.Colors

	span := r.config.PointSpan
	if span == 0 {
		span = int(cloud.Material.PointSize)
	}
	if span < 1 {
		span = 1
	}

	scale, offsetX, offsetZ := bounds.fit(area)

	for i := 0; i+2 < len(positions); i += 3 {
		px := area.Min.X + int((float64(positions[i])-bounds.minX)*scale+offsetX)
		py := area.Max.Y - 1 - int((float64(positions[i+2])-bounds.minZ)*scale+offsetZ)

		c := pointColor(colors, i)
		for dy := 0; dy < span; dy++ {
			for dx := 0; dx < span; dx++ {
				pt := image.Pt(px+dx, py+dy)
				if pt.In(area) {
					img.Set(pt.X, pt.Y, c)
				}
			}
		}
	}
}

// pointColor converts the linear RGB color buffer entry at i back to sRGB.
func pointColor(colors []float32, i int) color.Color {
	if i+2 >= len(colors) {
		return color.White
	}
	return colorful.LinearRgb(float64(colors[i]), float64(colors[i+1]), float64(colors[i+2])).Clamped()
}

// cloudExtent is the ground-plane bounding box of a cloud in centimeters.
type cloudExtent struct {
	minX, maxX float64
	minZ, maxZ float64
}

func cloudBounds(g *engine.Geometry) cloudExtent {
	b := cloudExtent{
		minX: math.MaxFloat64, maxX: -math.MaxFloat64,
		minZ: math.MaxFloat64, maxZ: -math.MaxFloat64,
	}

	for i := 0; i+2 < len(g.Positions); i += 3 {
		x := float64(g.Positions[i])
		z := float64(g.Positions[i+2])
		b.minX = math.Min(b.minX, x)
		b.maxX = math.Max(b.maxX, x)
		b.minZ = math.Min(b.minZ, z)
		b.maxZ = math.Max(b.maxZ, z)
	}

	if b.minX > b.maxX { // empty cloud
		b = cloudExtent{minX: -1, maxX: 1, minZ: -1, maxZ: 1}
	}
	return b
}

// fit returns the uniform world-to-pixel scale and the pixel offsets that
// center the extent in the plot area.
func (b cloudExtent) fit(area image.Rectangle) (scale, offsetX, offsetZ float64) {
	spanX := b.maxX - b.minX
	spanZ := b.maxZ - b.minZ
	span := math.Max(spanX, spanZ)
	if span == 0 {
		span = 1
	}

	scale = float64(area.Dx()-1) / span
	offsetX = (float64(area.Dx()-1) - spanX*scale) / 2
	offsetZ = (float64(area.Dy()-1) - spanZ*scale) / 2
	return scale, offsetX, offsetZ
}

// Internal annotator implementation

type annotatorConfig struct {
	FontSize float64
	Borders  BorderConfig
	PlotSize int
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, cloud *engine.Points, bounds cloudExtent, window viewer.CloudConfig, mapper *DistanceMapper) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawAcrossScale(img, bounds); err != nil {
		return fmt.Errorf("drawing across scale: %w", err)
	}
	if err := a.drawDepthScale(img, bounds); err != nil {
		return fmt.Errorf("drawing depth scale: %w", err)
	}
	if err := a.drawLegend(img, window, mapper); err != nil {
		return fmt.Errorf("drawing legend: %w", err)
	}
	if err := a.drawInfoBar(img, cloud, bounds, window); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}
	return nil
}

func (a *annotator) drawAcrossScale(img *image.RGBA, bounds cloudExtent) error {
	step := niceStep(bounds.maxX-bounds.minX, a.config.PlotSize)
	start := math.Ceil(bounds.minX/step) * step

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := a.config.Borders.Top - fontHeight/2

	for v := start; v <= bounds.maxX; v += step {
		ratio := (v - bounds.minX) / math.Max(bounds.maxX-bounds.minX, 1e-9)
		x := a.config.Borders.Left + int(ratio*float64(a.config.PlotSize-1))

		for y := a.config.Borders.Top - tickMarkLength; y < a.config.Borders.Top; y++ {
			img.Set(x, y, color.Black)
		}

		label := formatCM(v)
		width := font.MeasureString(a.fontFace, label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing across label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawDepthScale(img *image.RGBA, bounds cloudExtent) error {
	step := niceStep(bounds.maxZ-bounds.minZ, a.config.PlotSize)
	start := math.Ceil(bounds.minZ/step) * step

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for v := start; v <= bounds.maxZ; v += step {
		ratio := (v - bounds.minZ) / math.Max(bounds.maxZ-bounds.minZ, 1e-9)
		y := a.config.Borders.Top + a.config.PlotSize - 1 - int(ratio*float64(a.config.PlotSize-1))

		for x := a.config.Borders.Left - tickMarkLength; x < a.config.Borders.Left; x++ {
			img.Set(x, y, color.Black)
		}

		textY := y + fontHeight/2 - metrics.Descent.Round()
		pt := freetype.Pt(10, textY)
		if _, err := a.context.DrawString(formatCM(v), pt); err != nil {
			return fmt.Errorf("drawing depth label: %w", err)
		}
	}
	return nil
}

// drawLegend paints a vertical distance-to-color gradient in the right
// border, near distance at the bottom.
func (a *annotator) drawLegend(img *image.RGBA, window viewer.CloudConfig, mapper *DistanceMapper) error {
	barLeft := a.config.Borders.Left + a.config.PlotSize + 20
	barTop := a.config.Borders.Top
	barHeight := a.config.PlotSize

	for y := 0; y < barHeight; y++ {
		frac := 1 - float64(y)/float64(barHeight-1)
		dist := window.MinDistanceCM + frac*(window.MaxDistanceCM-window.MinDistanceCM)
		c := mapper.GetColor(dist)
		for x := barLeft; x < barLeft+legendBarWidth; x++ {
			img.Set(x, barTop+y, c)
		}
	}

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	labels := []struct {
		text string
		y    int
	}{
		{formatCM(window.MaxDistanceCM), barTop + fontHeight},
		{formatCM(window.MinDistanceCM), barTop + barHeight - metrics.Descent.Round()},
	}
	for _, l := range labels {
		pt := freetype.Pt(barLeft+legendBarWidth+5, l.y)
		if _, err := a.context.DrawString(l.text, pt); err != nil {
			return fmt.Errorf("drawing legend label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawInfoBar(img *image.RGBA, cloud *engine.Points, bounds cloudExtent, window viewer.CloudConfig) error {
	cmPerPixel := math.Max(bounds.maxX-bounds.minX, bounds.maxZ-bounds.minZ) / float64(a.config.PlotSize)

	info := fmt.Sprintf("Points: %s; Window: (%s, %s); 1px = %s",
		humanize.Comma(int64(cloud.Geometry.VertexCount())),
		formatCM(window.MinDistanceCM),
		formatCM(window.MaxDistanceCM),
		formatCM(cmPerPixel))

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(a.config.Borders.Left, textY)
	if _, err := a.context.DrawString(info, pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// Helper functions

func niceStep(span float64, width int) float64 {
	steps := []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}

	desiredSteps := float64(width) / pixelsPerLabel
	targetStep := span / math.Max(desiredSteps, 1)

	for _, step := range steps {
		if step >= targetStep {
			if span/step >= 2 {
				return step
			}
			break
		}
	}
	return math.Max(span/2, 1)
}

func formatCM(v float64) string {
	if v >= 100 {
		f, suffix := humanize.ComputeSI(v / 100)
		return fmt.Sprintf("%0.1f %sm", f, suffix)
	}
	return fmt.Sprintf("%0.1f cm", v)
}
