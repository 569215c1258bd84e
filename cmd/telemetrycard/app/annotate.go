package app

import (
	"fmt"
	"image"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roman-kulish/flight-telemetry/internal/storage"
)

const (
	dpi     = 72.0
	spacing = 1.35
)

type annotator struct {
	context  *freetype.Context
	config   RenderConfig
	fontFace font.Face
}

func newAnnotator(config RenderConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, rec *storage.Record) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawLines(rec); err != nil {
		return fmt.Errorf("drawing report: %w", err)
	}
	if err := a.drawFooter(img, rec); err != nil {
		return fmt.Errorf("drawing footer: %w", err)
	}
	return nil
}

func (a *annotator) drawLines(rec *storage.Record) error {
	metrics := a.fontFace.Metrics()

	pt := freetype.Pt(margin, margin+metrics.Ascent.Round())
	for _, s := range cardLines(rec, a.config.Location) {
		if _, err := a.context.DrawString(s, pt); err != nil {
			return err
		}
		pt.Y += a.context.PointToFixed(a.config.FontSize * spacing)
	}
	return nil
}

// drawFooter labels the battery gauge, centred under it.
func (a *annotator) drawFooter(img *image.RGBA, rec *storage.Record) error {
	r := CardRenderer{config: a.config}
	gauge := r.gaugeRect()

	label := fmt.Sprintf("Battery %.1f%%", rec.Report.BatteryAfterDecay*100)
	width := font.MeasureString(a.fontFace, label).Round()

	metrics := a.fontFace.Metrics()
	pt := freetype.Pt(gauge.Min.X+(gauge.Dx()-width)/2, gauge.Max.Y+margin/2+metrics.Ascent.Round())
	if pt.Y.Round() > img.Bounds().Max.Y {
		return nil
	}
	_, err := a.context.DrawString(label, pt)
	return err
}

// cardLines is the text column of the card.
func cardLines(rec *storage.Record, loc *time.Location) []string {
	in, r := rec.Telemetry.Snapshot, rec.Report

	return []string{
		fmt.Sprintf("%s  #%s", rec.Telemetry.Scenario, humanize.Comma(rec.ID)),
		"Recorded: " + rec.Telemetry.Timestamp.In(loc).Format(time.DateTime),
		fmt.Sprintf("Distance: %s", humanize.SIWithDigits(r.HorizontalDistance, 2, "m")),
		fmt.Sprintf("Altitude: %.1f m (display %d m)", r.ClampedAltitude, r.AltitudeRounded),
		fmt.Sprintf("Heading: %.2f°", r.HeadingDegrees),
		fmt.Sprintf("Battery: %d%% to %.2f%% after %.1f h", r.BatteryPercent, r.BatteryAfterDecay*100, in.FlightTime),
		fmt.Sprintf("Signal: %.2f dBm (%s)", r.SignalDBm, humanize.SIWithDigits(in.ReceivedPower, 2, "W")),
		fmt.Sprintf("Thrust: %.2f m/s²", r.Thrust),
		fmt.Sprintf("Grid layer: %d, next at %s", r.GridLayer, humanize.SIWithDigits(r.NextLayerCeiling, 0, "m")),
		fmt.Sprintf("Vertical: %s", r.VerticalCommand),
		fmt.Sprintf("Pressure: %.1f", r.PressureNormalized),
		fmt.Sprintf("ADC: %.6f", r.AmplifiedReading),
		fmt.Sprintf("Waypoint in tolerance: %t", r.WaypointInTolerance),
		fmt.Sprintf("Snapped GPS: %.1f", r.SnappedCoordinate),
	}
}
