package storage

import (
	"database/sql"
	"time"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

// Session represents a single run of the transform sequence over one or
// more scenarios.
type Session struct {
	ID        int64     `json:"ID"`                      // Unique identifier for the session
	StartTime time.Time `json:"startTime"`               // When the run began
	Label     string    `json:"label"`                   // Free form label, usually the config file name
	Config    *string   `json:"config,string,omitempty"` // Optional run configuration in JSON format
}

// Record is a stored telemetry snapshot together with the report computed
// from it.
type Record struct {
	ID        int64               `json:"ID"`
	SessionID int64               `json:"sessionID"`
	Telemetry telemetry.Telemetry `json:"telemetry"`
	Report    flight.Report       `json:"report"`
}

// NaN is stored as NULL.
type telemetryData struct {
	SessionID          int64
	Scenario           string
	Timestamp          time.Time
	X                  sql.NullFloat64
	Y                  sql.NullFloat64
	Battery            sql.NullFloat64
	Altitude           sql.NullFloat64
	TargetAltitude     sql.NullFloat64
	WindSpeed          sql.NullFloat64
	SensorNoise        sql.NullFloat64
	FlightTime         sql.NullFloat64
	ReceivedPower      sql.NullFloat64
	PressureRaw        sql.NullFloat64
	ADCReading         sql.NullFloat64
	ExpectedWaypoint   sql.NullFloat64
	WaypointOffsetULPs sql.NullFloat64
	GPSCoordinate      sql.NullFloat64
}

type reportData struct {
	SessionID           int64
	TelemetryID         int64
	HorizontalDistance  sql.NullFloat64
	ClampedAltitude     sql.NullFloat64
	AltitudeRounded     int64
	BatteryPercent      int64
	HeadingRadians      sql.NullFloat64
	HeadingDegrees      sql.NullFloat64
	BatteryAfterDecay   sql.NullFloat64
	SignalDBm           sql.NullFloat64
	Thrust              sql.NullFloat64
	GridLayer           int64
	NextLayerCeiling    sql.NullFloat64
	ClimbDirection      sql.NullFloat64
	VerticalCommand     string
	PressureNormalized  sql.NullFloat64
	AmplifiedReading    sql.NullFloat64
	ComputedWaypoint    sql.NullFloat64
	WaypointInTolerance bool
	SnappedCoordinate   sql.NullFloat64
}

type recordData struct {
	ID        int64
	telemetryData
	reportData
}
