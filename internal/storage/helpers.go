package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

// toSQLNullFloat maps NaN to NULL; SQLite cannot store it as REAL.
func toSQLNullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{
		Float64: f,
		Valid:   !math.IsNaN(f),
	}
}

func fromSQLNullFloat(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

func toTelemetryData(sessionID int64, t *telemetry.Telemetry) *telemetryData {
	s := t.Snapshot
	return &telemetryData{
		SessionID:          sessionID,
		Scenario:           t.Scenario,
		Timestamp:          t.Timestamp.UTC(),
		X:                  toSQLNullFloat(s.X),
		Y:                  toSQLNullFloat(s.Y),
		Battery:            toSQLNullFloat(s.Battery),
		Altitude:           toSQLNullFloat(s.Altitude),
		TargetAltitude:     toSQLNullFloat(s.TargetAltitude),
		WindSpeed:          toSQLNullFloat(s.WindSpeed),
		SensorNoise:        toSQLNullFloat(s.SensorNoise),
		FlightTime:         toSQLNullFloat(s.FlightTime),
		ReceivedPower:      toSQLNullFloat(s.ReceivedPower),
		PressureRaw:        toSQLNullFloat(s.PressureRaw),
		ADCReading:         toSQLNullFloat(s.ADCReading),
		ExpectedWaypoint:   toSQLNullFloat(s.ExpectedWaypoint),
		WaypointOffsetULPs: toSQLNullFloat(s.WaypointOffsetULPs),
		GPSCoordinate:      toSQLNullFloat(s.GPSCoordinate),
	}
}

func toReportData(sessionID, telemetryID int64, r *flight.Report) *reportData {
	return &reportData{
		SessionID:           sessionID,
		TelemetryID:         telemetryID,
		HorizontalDistance:  toSQLNullFloat(r.HorizontalDistance),
		ClampedAltitude:     toSQLNullFloat(r.ClampedAltitude),
		AltitudeRounded:     r.AltitudeRounded,
		BatteryPercent:      int64(r.BatteryPercent),
		HeadingRadians:      toSQLNullFloat(r.HeadingRadians),
		HeadingDegrees:      toSQLNullFloat(r.HeadingDegrees),
		BatteryAfterDecay:   toSQLNullFloat(r.BatteryAfterDecay),
		SignalDBm:           toSQLNullFloat(r.SignalDBm),
		Thrust:              toSQLNullFloat(r.Thrust),
		GridLayer:           int64(r.GridLayer),
		NextLayerCeiling:    toSQLNullFloat(r.NextLayerCeiling),
		ClimbDirection:      toSQLNullFloat(r.ClimbDirection),
		VerticalCommand:     r.VerticalCommand.String(),
		PressureNormalized:  toSQLNullFloat(r.PressureNormalized),
		AmplifiedReading:    toSQLNullFloat(r.AmplifiedReading),
		ComputedWaypoint:    toSQLNullFloat(r.ComputedWaypoint),
		WaypointInTolerance: r.WaypointInTolerance,
		SnappedCoordinate:   toSQLNullFloat(r.SnappedCoordinate),
	}
}

func (d *recordData) scanArgs() []any {
	return []any{
		&d.ID,
		&d.reportData.SessionID,
		&d.Scenario,
		&d.Timestamp,
		&d.X,
		&d.Y,
		&d.Battery,
		&d.Altitude,
		&d.TargetAltitude,
		&d.WindSpeed,
		&d.SensorNoise,
		&d.FlightTime,
		&d.ReceivedPower,
		&d.PressureRaw,
		&d.ADCReading,
		&d.ExpectedWaypoint,
		&d.WaypointOffsetULPs,
		&d.GPSCoordinate,
		&d.HorizontalDistance,
		&d.ClampedAltitude,
		&d.AltitudeRounded,
		&d.BatteryPercent,
		&d.HeadingRadians,
		&d.HeadingDegrees,
		&d.BatteryAfterDecay,
		&d.SignalDBm,
		&d.Thrust,
		&d.GridLayer,
		&d.NextLayerCeiling,
		&d.ClimbDirection,
		&d.VerticalCommand,
		&d.PressureNormalized,
		&d.AmplifiedReading,
		&d.ComputedWaypoint,
		&d.WaypointInTolerance,
		&d.SnappedCoordinate,
	}
}

func (d *recordData) toRecord() (*Record, error) {
	cmd, err := flight.ParseVerticalCommand(d.VerticalCommand)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", d.ID, err)
	}

	return &Record{
		ID:        d.ID,
		SessionID: d.reportData.SessionID,
		Telemetry: telemetry.Telemetry{
			Scenario:  d.Scenario,
			Timestamp: d.Timestamp.UTC(),
			Snapshot: telemetry.Snapshot{
				X:                  fromSQLNullFloat(d.X),
				Y:                  fromSQLNullFloat(d.Y),
				Battery:            fromSQLNullFloat(d.Battery),
				Altitude:           fromSQLNullFloat(d.Altitude),
				TargetAltitude:     fromSQLNullFloat(d.TargetAltitude),
				WindSpeed:          fromSQLNullFloat(d.WindSpeed),
				SensorNoise:        fromSQLNullFloat(d.SensorNoise),
				FlightTime:         fromSQLNullFloat(d.FlightTime),
				ReceivedPower:      fromSQLNullFloat(d.ReceivedPower),
				PressureRaw:        fromSQLNullFloat(d.PressureRaw),
				ADCReading:         fromSQLNullFloat(d.ADCReading),
				ExpectedWaypoint:   fromSQLNullFloat(d.ExpectedWaypoint),
				WaypointOffsetULPs: fromSQLNullFloat(d.WaypointOffsetULPs),
				GPSCoordinate:      fromSQLNullFloat(d.GPSCoordinate),
			},
		},
		Report: flight.Report{
			HorizontalDistance:  fromSQLNullFloat(d.HorizontalDistance),
			ClampedAltitude:     fromSQLNullFloat(d.ClampedAltitude),
			AltitudeRounded:     d.AltitudeRounded,
			BatteryPercent:      int32(d.BatteryPercent),
			HeadingRadians:      fromSQLNullFloat(d.HeadingRadians),
			HeadingDegrees:      fromSQLNullFloat(d.HeadingDegrees),
			BatteryAfterDecay:   fromSQLNullFloat(d.BatteryAfterDecay),
			SignalDBm:           fromSQLNullFloat(d.SignalDBm),
			Thrust:              fromSQLNullFloat(d.Thrust),
			GridLayer:           int32(d.GridLayer),
			NextLayerCeiling:    fromSQLNullFloat(d.NextLayerCeiling),
			ClimbDirection:      fromSQLNullFloat(d.ClimbDirection),
			VerticalCommand:     cmd,
			PressureNormalized:  fromSQLNullFloat(d.PressureNormalized),
			AmplifiedReading:    fromSQLNullFloat(d.AmplifiedReading),
			ComputedWaypoint:    fromSQLNullFloat(d.ComputedWaypoint),
			WaypointInTolerance: d.WaypointInTolerance,
			SnappedCoordinate:   fromSQLNullFloat(d.SnappedCoordinate),
		},
	}, nil
}
