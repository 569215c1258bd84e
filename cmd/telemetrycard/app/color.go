package app

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	hueEmpty = 0.0   // red
	hueFull  = 120.0 // green
)

var (
	noDataColor  = color.Gray{Y: 0x99}
	outlineColor = color.Gray{Y: 0x33}
)

// batteryColor maps a normalized charge onto a red to green ramp. Charge
// outside [0, 1] is clamped; NaN has no colour of its own.
func batteryColor(level float64) color.Color {
	if math.IsNaN(level) {
		return noDataColor
	}

	level = math.Min(math.Max(level, 0), 1)
	hue := hueEmpty + level*(hueFull-hueEmpty)

	return colorful.Hsv(hue, 1, 0.90)
}
