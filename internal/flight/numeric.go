package flight

import "math"

const radiansToDegrees = 57.29577951308232 // 180/π

// RoundHalfUp rounds to the nearest integer with ties going towards positive
// infinity. NaN rounds to 0, values outside the int64 range saturate.
func RoundHalfUp(a float64) int64 {
	if math.IsNaN(a) {
		return 0
	}

	r := math.Floor(a)
	if a-r >= 0.5 { // exact for every finite float64
		r++
	}

	switch {
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}

// RoundHalfUp32 is RoundHalfUp for single precision values, saturating to the
// int32 range.
func RoundHalfUp32(a float32) int32 {
	if math.IsNaN(float64(a)) {
		return 0
	}

	r := float32(math.Floor(float64(a)))
	if a-r >= 0.5 {
		r++
	}

	switch {
	case r >= math.MaxInt32:
		return math.MaxInt32
	case r <= math.MinInt32:
		return math.MinInt32
	}
	return int32(r)
}

// FloorToInt32 truncates floor(a) into an int32. NaN becomes 0 and values
// outside the int32 range saturate.
func FloorToInt32(a float64) int32 {
	f := math.Floor(a)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// Signum returns -1, +1 or the argument itself when it is a signed zero or NaN.
func Signum(d float64) float64 {
	if d == 0 || math.IsNaN(d) {
		return d
	}
	return math.Copysign(1, d)
}

// ULP returns the distance between |d| and the next float64 larger in
// magnitude.
//
//	ULP(NaN)        = NaN
//	ULP(±Inf)       = +Inf
//	ULP(±0)         = smallest subnormal
//	ULP(MaxFloat64) = 2^971
func ULP(d float64) float64 {
	a := math.Abs(d)
	switch {
	case math.IsNaN(a):
		return a
	case math.IsInf(a, 1):
		return a
	case a == math.MaxFloat64:
		return a - math.Nextafter(a, 0)
	}
	return math.Nextafter(a, math.Inf(1)) - a
}

// Scalb returns d·2^n rounded once.
func Scalb(d float64, n int) float64 {
	return math.Ldexp(d, n)
}

// ToDegrees converts an angle in radians to degrees.
func ToDegrees(rad float64) float64 {
	return rad * radiansToDegrees
}

// Clamp bounds v to [lo, hi]. NaN in any argument yields NaN.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
