package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/storage"
)

const (
	defaultWidth    = 640
	defaultHeight   = 400
	defaultFontSize = 14.0

	compassRadius = 80
	gaugeWidth    = 160
	gaugeHeight   = 28
	margin        = 20
)

// RenderConfig holds the card layout options
type RenderConfig struct {
	Location *time.Location // Timezone for the recorded timestamp
	FontSize float64        // Font size in points
	Width    int
	Height   int
}

// CardRenderer draws a stored report as a single image card
type CardRenderer struct {
	config RenderConfig
}

// NewCardRenderer creates a new card renderer with the given configuration
func NewCardRenderer(config RenderConfig) (*CardRenderer, error) {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}

	minWidth := 2*compassRadius + gaugeWidth + 2*margin
	if config.Width < minWidth || config.Height < 2*compassRadius+gaugeHeight+3*margin {
		return nil, fmt.Errorf("card size %dx%d is too small", config.Width, config.Height)
	}

	return &CardRenderer{config: config}, nil
}

// compassCenter is the centre of the heading dial, top right of the card.
func (r *CardRenderer) compassCenter() image.Point {
	return image.Pt(r.config.Width-margin-compassRadius, margin+compassRadius)
}

// gaugeRect is the battery gauge area below the heading dial.
func (r *CardRenderer) gaugeRect() image.Rectangle {
	c := r.compassCenter()
	top := c.Y + compassRadius + 2*margin
	return image.Rect(c.X-gaugeWidth/2, top, c.X+gaugeWidth/2, top+gaugeHeight)
}

// Render creates the card image for a stored record
func (r *CardRenderer) Render(rec *storage.Record) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ann, err := newAnnotator(r.config)
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	if err = ann.annotate(img, rec); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	r.drawCompass(img, rec.Report.HeadingRadians)
	r.drawGauge(img, rec.Report.BatteryAfterDecay)

	return img, nil
}

func (r *CardRenderer) drawCompass(img *image.RGBA, heading float64) {
	c := r.compassCenter()

	for deg := 0; deg < 360; deg++ {
		img.Set(c.X+int(math.Round(compassRadius*math.Cos(float64(deg)*math.Pi/180))),
			c.Y-int(math.Round(compassRadius*math.Sin(float64(deg)*math.Pi/180))), outlineColor)
	}

	// Ticks on the cardinal directions, +east first.
	for q := 0; q < 4; q++ {
		theta := float64(q) * math.Pi / 2
		for d := compassRadius - 8; d <= compassRadius; d++ {
			p := needlePoint(c, float64(d), theta)
			img.Set(p.X, p.Y, outlineColor)
		}
	}

	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return
	}
	for d := 0; d <= compassRadius-10; d++ {
		p := needlePoint(c, float64(d), heading)
		img.Set(p.X, p.Y, color.Black)
		img.Set(p.X+1, p.Y, color.Black)
	}
}

// needlePoint returns the pixel at distance d from the centre along theta,
// measured counterclockwise from the +east axis.
func needlePoint(c image.Point, d, theta float64) image.Point {
	return image.Pt(c.X+int(math.Round(d*math.Cos(theta))), c.Y-int(math.Round(d*math.Sin(theta))))
}

func (r *CardRenderer) drawGauge(img *image.RGBA, level float64) {
	rect := r.gaugeRect()

	fill := rect.Inset(2)
	if !math.IsNaN(level) {
		fill.Max.X = fill.Min.X + int(math.Round(flight.Clamp(level, 0, 1)*float64(fill.Dx())))
	}
	draw.Draw(img, fill, image.NewUniform(batteryColor(level)), image.Point{}, draw.Src)

	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.Set(x, rect.Min.Y, outlineColor)
		img.Set(x, rect.Max.Y-1, outlineColor)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.Set(rect.Min.X, y, outlineColor)
		img.Set(rect.Max.X-1, y, outlineColor)
	}
}
