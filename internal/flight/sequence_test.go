package flight

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCompute_DefaultScenario(t *testing.T) {
	r := Compute(telemetry.DefaultSnapshot(), DefaultParameters())

	floats := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"distance", r.HorizontalDistance, 12.920139318134305, 1e-12},
		{"altitude", r.ClampedAltitude, 120.7, 0},
		{"heading", r.HeadingDegrees, -37.135975204500454, 1e-9},
		{"battery after decay", r.BatteryAfterDecay * 100, 76.91118053305655, 1e-9},
		{"signal", r.SignalDBm, 6.989700043360188, 1e-12},
		{"thrust", r.Thrust, 3.5, 0},
		{"next layer", r.NextLayerCeiling, 130, 1e-9},
		{"climb direction", r.ClimbDirection, -1, 0},
		{"pressure", r.PressureNormalized, -5, 1e-12},
		{"adc", r.AmplifiedReading, 19.75308624, 1e-12},
		{"snapped", r.SnappedCoordinate, 10, 0},
	}
	for _, f := range floats {
		if !approx(f.got, f.want, f.tol) {
			t.Errorf("%s: expected %v, got %v", f.name, f.want, f.got)
		}
	}

	if r.AltitudeRounded != 121 {
		t.Errorf("expected rounded altitude 121, got %d", r.AltitudeRounded)
	}
	if r.BatteryPercent != 85 {
		t.Errorf("expected battery 85%%, got %d", r.BatteryPercent)
	}
	if r.GridLayer != 12 {
		t.Errorf("expected grid layer 12, got %d", r.GridLayer)
	}
	if r.VerticalCommand != Descend {
		t.Errorf("expected descend, got %s", r.VerticalCommand)
	}
	if r.ComputedWaypoint != 100+ULP(100) {
		t.Errorf("expected waypoint one ULP above 100, got %v", r.ComputedWaypoint)
	}
	if !r.WaypointInTolerance {
		t.Error("waypoint should be within tolerance")
	}
}

func TestCompute_AltitudeIsClampedBeforeUse(t *testing.T) {
	in := telemetry.DefaultSnapshot()
	in.Altitude = 500
	in.TargetAltitude = 150

	r := Compute(in, DefaultParameters())
	if r.ClampedAltitude != 150 {
		t.Fatalf("expected altitude clamped to 150, got %v", r.ClampedAltitude)
	}
	if r.GridLayer != 15 || r.NextLayerCeiling != 150 {
		t.Errorf("expected layer 15 with ceiling 150, got %d and %v", r.GridLayer, r.NextLayerCeiling)
	}
	if r.VerticalCommand != Hover || math.Signbit(r.ClimbDirection) {
		t.Errorf("expected hover with +0 direction, got %s (%v)", r.VerticalCommand, r.ClimbDirection)
	}
}

func TestCompute_NaNPropagation(t *testing.T) {
	in := telemetry.DefaultSnapshot()
	in.Altitude = math.NaN()
	in.WindSpeed = math.Copysign(math.NaN(), -1)

	r := Compute(in, DefaultParameters())
	if !math.IsNaN(r.ClampedAltitude) {
		t.Errorf("expected NaN altitude, got %v", r.ClampedAltitude)
	}
	if r.AltitudeRounded != 0 {
		t.Errorf("expected NaN to round to 0, got %d", r.AltitudeRounded)
	}
	if r.GridLayer != 0 {
		t.Errorf("expected NaN layer to be 0, got %d", r.GridLayer)
	}
	if r.VerticalCommand != Hover {
		t.Errorf("expected hover for NaN direction, got %s", r.VerticalCommand)
	}
	if r.Thrust != 3.5 {
		t.Errorf("expected negative NaN wind to subtract compensation, got %v", r.Thrust)
	}
}

func TestTransformProperties(t *testing.T) {
	values := []float64{0, math.Copysign(0, -1), 1, -1, 1e-300, -7.8, 10.3, 1e200, -1e200, 42.42}

	for _, x := range values {
		for _, y := range values {
			if d := HorizontalDistance(x, y); d < 0 || math.IsInf(d, 0) {
				t.Errorf("HorizontalDistance(%v, %v) = %v", x, y, d)
			}
			if h := Heading(x, y); h < -math.Pi || h > math.Pi {
				t.Errorf("Heading(%v, %v) = %v out of range", x, y, h)
			}
			thrust := CompensateWind(0, math.Abs(x), y)
			if math.Abs(thrust) != math.Abs(x) || math.Signbit(thrust) != math.Signbit(y) && thrust != 0 {
				t.Errorf("CompensateWind(0, %v, %v) = %v", math.Abs(x), y, thrust)
			}
		}
	}

	if got := CompensateWind(4, 0.5, math.Copysign(0, -1)); got != 3.5 {
		t.Errorf("expected -0 wind to subtract, got %v", got)
	}
}

func TestSignalDBm_Domain(t *testing.T) {
	if got := SignalDBm(0, 1e-3); !math.IsInf(got, -1) {
		t.Errorf("expected -Inf for zero power, got %v", got)
	}
	if got := SignalDBm(-1, 1e-3); !math.IsNaN(got) {
		t.Errorf("expected NaN for negative power, got %v", got)
	}
	if got := SignalDBm(1e-3, 1e-3); got != 0 {
		t.Errorf("expected 0 dBm at reference, got %v", got)
	}
}

func TestNormalizePressure(t *testing.T) {
	if got := NormalizePressure(-8); !approx(got, -2, 1e-15) {
		t.Errorf("expected -2, got %v", got)
	}
	if got := NormalizePressure(27); !approx(got, 3, 1e-15) {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestSnapCoordinate(t *testing.T) {
	testCases := []struct{ in, want float64 }{
		{2.5, 2},
		{3.5, 4},
		{-2.5, -2},
		{10.49999999999999, 10},
	}
	for _, tc := range testCases {
		if got := SnapCoordinate(tc.in); got != tc.want {
			t.Errorf("SnapCoordinate(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(OffsetByULPs(100, 2), 100, 2) {
		t.Error("2 ULPs off should be within a 2 ULP tolerance")
	}
	if WithinTolerance(OffsetByULPs(100, 3), 100, 2) {
		t.Error("3 ULPs off should not be within a 2 ULP tolerance")
	}
	if WithinTolerance(1e-9+100, 100, 2) {
		t.Error("a fixed epsilon offset should not pass")
	}
}

func TestParameters_Validate(t *testing.T) {
	if err := DefaultParameters().Validate(); err != nil {
		t.Fatalf("default parameters should be valid: %v", err)
	}

	testCases := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"inverted altitude range", func(p *Parameters) { p.MinSafeAltitude, p.MaxSafeAltitude = 200, 100 }},
		{"zero grid cell", func(p *Parameters) { p.GridCellHeight = 0 }},
		{"NaN grid cell", func(p *Parameters) { p.GridCellHeight = math.NaN() }},
		{"negative reference power", func(p *Parameters) { p.ReferencePower = -1 }},
		{"negative tolerance", func(p *Parameters) { p.ToleranceULPs = -1 }},
		{"NaN decay", func(p *Parameters) { p.DecayConstant = math.NaN() }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParameters()
			tc.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
			if _, err := NewSequence(p); err == nil {
				t.Error("expected NewSequence to reject parameters")
			}
		})
	}
}

func TestSequence_ComputeAll(t *testing.T) {
	seq, err := NewSequence(DefaultParameters(), WithWorkers(3))
	if err != nil {
		t.Fatalf("Failed to create sequence: %v", err)
	}

	in := make([]telemetry.Snapshot, 25)
	for i := range in {
		in[i] = telemetry.DefaultSnapshot()
		in[i].Altitude = float64(i * 10)
	}

	reports, err := seq.ComputeAll(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeAll failed: %v", err)
	}
	if len(reports) != len(in) {
		t.Fatalf("expected %d reports, got %d", len(in), len(reports))
	}

	for i, r := range reports {
		want := seq.Compute(in[i])
		if r.ClampedAltitude != want.ClampedAltitude || r.GridLayer != want.GridLayer {
			t.Errorf("report %d out of order: expected altitude %v, got %v", i, want.ClampedAltitude, r.ClampedAltitude)
		}
	}
}

func TestSequence_ComputeAllCancelled(t *testing.T) {
	seq, err := NewSequence(DefaultParameters(), WithWorkers(1))
	if err != nil {
		t.Fatalf("Failed to create sequence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = seq.ComputeAll(ctx, []telemetry.Snapshot{telemetry.DefaultSnapshot()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestVerticalCommand_Text(t *testing.T) {
	for _, c := range []VerticalCommand{Hover, Climb, Descend} {
		p, err := c.MarshalText()
		if err != nil {
			t.Fatalf("marshal %s: %v", c, err)
		}

		var back VerticalCommand
		if err = back.UnmarshalText(p); err != nil || back != c {
			t.Errorf("expected %s, got %s (%v)", c, back, err)
		}
	}

	if _, err := ParseVerticalCommand("sideways"); err == nil {
		t.Error("expected error for unknown command")
	}
}
