package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

// PrintReport writes one line per transform, in sequence order.
func PrintReport(w io.Writer, t *telemetry.Telemetry, r *flight.Report, p flight.Parameters) error {
	in := t.Snapshot

	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s @ %s\n", t.Scenario, t.Timestamp.Format(time.DateTime))
	fmt.Fprintf(&sb, "Distance from base: %.3f m (%s)\n", r.HorizontalDistance, humanize.SIWithDigits(r.HorizontalDistance, 2, "m"))
	fmt.Fprintf(&sb, "Altitude clamped to: %.1f m\n", r.ClampedAltitude)
	fmt.Fprintf(&sb, "Display telemetry | Alt: %d m | Bat: %d%%\n", r.AltitudeRounded, r.BatteryPercent)
	fmt.Fprintf(&sb, "Heading: %.2f° (from +East axis)\n", r.HeadingDegrees)
	fmt.Fprintf(&sb, "Battery after %.1f h: %.2f%%\n", in.FlightTime, r.BatteryAfterDecay*100.0)
	fmt.Fprintf(&sb, "Signal: %.2f dBm (%s received)\n", r.SignalDBm, humanize.SIWithDigits(in.ReceivedPower, 2, "W"))
	fmt.Fprintf(&sb, "Thrust (wind-comp): %.2f m/s² | Wind: %.1f m/s\n", r.Thrust, in.WindSpeed)
	fmt.Fprintf(&sb, "Grid layer: %d | Next layer at: %.0f m\n", r.GridLayer, r.NextLayerCeiling)
	fmt.Fprintf(&sb, "Vertical command: %s\n", r.VerticalCommand)
	fmt.Fprintf(&sb, "Pressure (cbrt): %.1f units\n", r.PressureNormalized)
	fmt.Fprintf(&sb, "ADC (×%g gain): %.6f\n", flight.Scalb(1, p.ADCGainExponent), r.AmplifiedReading)
	fmt.Fprintf(&sb, "Waypoint tolerance test passed: %t\n", r.WaypointInTolerance)
	fmt.Fprintf(&sb, "Snapped GPS coord: %.1f\n", r.SnappedCoordinate)

	_, err := io.WriteString(w, sb.String())
	return err
}
