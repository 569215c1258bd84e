package flight

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

// Report holds every value derived from a single snapshot.
type Report struct {
	HorizontalDistance  float64         `json:"horizontalDistance"`  // Meters from base
	ClampedAltitude     float64         `json:"clampedAltitude"`     // Meters, within the safe range
	AltitudeRounded     int64           `json:"altitudeRounded"`     // Meters, for display
	BatteryPercent      int32           `json:"batteryPercent"`      // Initial charge, for display
	HeadingRadians      float64         `json:"headingRadians"`      // [-π, π] from the +east axis
	HeadingDegrees      float64         `json:"headingDegrees"`      // [-180, 180] from the +east axis
	BatteryAfterDecay   float64         `json:"batteryAfterDecay"`   // Normalized charge after the flight time
	SignalDBm           float64         `json:"signalDBm"`           // Radio link strength
	Thrust              float64         `json:"thrust"`              // m/s² after wind compensation
	GridLayer           int32           `json:"gridLayer"`           // Altitude layer index
	NextLayerCeiling    float64         `json:"nextLayerCeiling"`    // Meters
	ClimbDirection      float64         `json:"climbDirection"`      // Signum of the altitude error
	VerticalCommand     VerticalCommand `json:"verticalCommand"`     // Derived from ClimbDirection
	PressureNormalized  float64         `json:"pressureNormalized"`  // Cube root of the raw reading
	AmplifiedReading    float64         `json:"amplifiedReading"`    // ADC reading after the power-of-two gain
	ComputedWaypoint    float64         `json:"computedWaypoint"`    // Expected waypoint plus its error
	WaypointInTolerance bool            `json:"waypointInTolerance"` // Computed waypoint within tolerance
	SnappedCoordinate   float64         `json:"snappedCoordinate"`   // GPS coordinate rounded half to even
}

// Sequence applies the transform chain with a fixed set of parameters.
// It is safe for concurrent use.
type Sequence struct {
	params  Parameters
	workers int
}

// WithWorkers limits the number of snapshots ComputeAll processes at once.
func WithWorkers(n int) func(*Sequence) {
	return func(s *Sequence) {
		s.workers = n
	}
}

// NewSequence validates the parameters and returns a ready Sequence.
func NewSequence(params Parameters, options ...func(*Sequence)) (*Sequence, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	s := Sequence{
		params:  params,
		workers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(&s)
	}
	if s.workers <= 0 {
		s.workers = 1
	}

	return &s, nil
}

// Parameters returns the parameters the sequence was built with.
func (s *Sequence) Parameters() Parameters {
	return s.params
}

// Compute runs every transform on the snapshot. It never fails: NaN, ±Inf and
// signed zeros in the input propagate through the IEEE-754 arithmetic.
func (s *Sequence) Compute(in telemetry.Snapshot) Report {
	return Compute(in, s.params)
}

// ComputeAll computes a report for every snapshot, in input order. Snapshots
// are processed concurrently; cancellation of ctx stops the batch.
func (s *Sequence) ComputeAll(ctx context.Context, in []telemetry.Snapshot) ([]Report, error) {
	reports := make([]Report, len(in))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range in {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = s.Compute(in[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing reports: %w", err)
	}
	return reports, nil
}

// Compute applies the transform chain to a snapshot. Parameters are used as
// given; see Parameters.Validate.
func Compute(in telemetry.Snapshot, p Parameters) Report {
	var r Report

	r.HorizontalDistance = HorizontalDistance(in.X, in.Y)

	r.ClampedAltitude = Clamp(in.Altitude, p.MinSafeAltitude, p.MaxSafeAltitude)
	r.AltitudeRounded = RoundHalfUp(r.ClampedAltitude)
	r.BatteryPercent = RoundHalfUp32(float32(in.Battery * 100.0))

	r.HeadingRadians = Heading(in.X, in.Y)
	r.HeadingDegrees = ToDegrees(r.HeadingRadians)

	r.BatteryAfterDecay = DecayBattery(in.Battery, p.DecayConstant, in.FlightTime)
	r.SignalDBm = SignalDBm(in.ReceivedPower, p.ReferencePower)
	r.Thrust = CompensateWind(p.BaseThrust, p.WindCompensation, in.WindSpeed)

	r.GridLayer, r.NextLayerCeiling = GridLayer(r.ClampedAltitude, p.GridCellHeight)

	r.ClimbDirection = Signum(in.TargetAltitude - r.ClampedAltitude)
	r.VerticalCommand = CommandFor(r.ClimbDirection)

	r.PressureNormalized = NormalizePressure(in.PressureRaw)
	r.AmplifiedReading = Scalb(in.ADCReading, p.ADCGainExponent)

	r.ComputedWaypoint = OffsetByULPs(in.ExpectedWaypoint, in.WaypointOffsetULPs)
	r.WaypointInTolerance = WithinTolerance(r.ComputedWaypoint, in.ExpectedWaypoint, p.ToleranceULPs)

	r.SnappedCoordinate = SnapCoordinate(in.GPSCoordinate)

	return r
}
