package flight

import "math"

// HorizontalDistance returns √(x²+y²) without intermediate overflow.
func HorizontalDistance(x, y float64) float64 {
	return math.Hypot(x, y)
}

// Heading returns the angle of the (east, north) offset measured from the
// +east axis, in radians within [-π, π].
func Heading(east, north float64) float64 {
	return math.Atan2(north, east)
}

// DecayBattery applies first-order exponential discharge: level·e^(-k·t).
func DecayBattery(level, k, hours float64) float64 {
	return level * math.Exp(-k*hours)
}

// SignalDBm converts a received power to decibels relative to ref.
// Zero power yields -Inf and negative power NaN.
func SignalDBm(power, ref float64) float64 {
	return 10.0 * math.Log10(power/ref)
}

// CompensateWind adds the compensation magnitude to the base thrust, signed
// like the wind. The sign bit of ±0 and NaN wind is honoured.
func CompensateWind(base, compensation, wind float64) float64 {
	return base + math.Copysign(compensation, wind)
}

// GridLayer returns the altitude layer index and the altitude at which the
// next layer begins.
func GridLayer(altitude, cellHeight float64) (layer int32, nextCeiling float64) {
	cells := altitude / cellHeight
	return FloorToInt32(cells), math.Ceil(cells) * cellHeight
}

// NormalizePressure takes the real cube root of a raw pressure value. Unlike
// pow(x, 1/3) it is defined for negative readings.
func NormalizePressure(raw float64) float64 {
	return math.Cbrt(raw)
}

// WithinTolerance reports whether computed is within n ULPs of expected.
func WithinTolerance(computed, expected, n float64) bool {
	return math.Abs(computed-expected) <= n*ULP(expected)
}

// OffsetByULPs moves v by n units in the last place of v.
func OffsetByULPs(v, n float64) float64 {
	return v + n*ULP(v)
}

// SnapCoordinate rounds to the nearest integer with ties to even.
func SnapCoordinate(coord float64) float64 {
	return math.RoundToEven(coord)
}
