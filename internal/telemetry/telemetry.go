package telemetry

import (
	"time"
)

// Snapshot is a single reading of the drone sensors. SI units unless noted.
type Snapshot struct {
	X                  float64 `yaml:"x" json:"x"`                                   // East offset from origin in meters
	Y                  float64 `yaml:"y" json:"y"`                                   // North offset in meters, negative is south
	Battery            float64 `yaml:"battery" json:"battery"`                       // Normalized state of charge [0, 1]
	Altitude           float64 `yaml:"altitude" json:"altitude"`                     // Meters above ground level
	TargetAltitude     float64 `yaml:"targetAltitude" json:"targetAltitude"`         // Desired cruise altitude in meters
	WindSpeed          float64 `yaml:"windSpeed" json:"windSpeed"`                   // m/s, positive is tailwind
	SensorNoise        float64 `yaml:"sensorNoise" json:"sensorNoise"`               // ADC quantization noise, unitless
	FlightTime         float64 `yaml:"flightTime" json:"flightTime"`                 // Hours in the air
	ReceivedPower      float64 `yaml:"receivedPower" json:"receivedPower"`           // Radio link power in watts
	PressureRaw        float64 `yaml:"pressureRaw" json:"pressureRaw"`               // Raw pressure sensor value, may carry a negative bias
	ADCReading         float64 `yaml:"adcReading" json:"adcReading"`                 // Raw ADC reading before gain
	ExpectedWaypoint   float64 `yaml:"expectedWaypoint" json:"expectedWaypoint"`     // Planned waypoint coordinate in meters
	WaypointOffsetULPs float64 `yaml:"waypointOffsetULPs" json:"waypointOffsetULPs"` // Error of the computed waypoint in ULPs
	GPSCoordinate      float64 `yaml:"gpsCoordinate" json:"gpsCoordinate"`           // GPS coordinate in degrees
}

// DefaultSnapshot returns the reference reading of the drone simulator.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		X:                  10.3,
		Y:                  -7.8,
		Battery:            0.85,
		Altitude:           120.7,
		TargetAltitude:     100.0,
		WindSpeed:          -3.2,
		SensorNoise:        1e-5,
		FlightTime:         0.5,
		ReceivedPower:      5e-3,
		PressureRaw:        -125.0,
		ADCReading:         1.23456789,
		ExpectedWaypoint:   100.0,
		WaypointOffsetULPs: 1,
		GPSCoordinate:      10.49999999999999,
	}
}

// Telemetry is a snapshot tagged with the scenario it belongs to and the time
// it was captured.
type Telemetry struct {
	Scenario  string    `json:"scenario"`  // Scenario name
	Timestamp time.Time `json:"timestamp"` // Timestamp of telemetry measurement
	Snapshot  Snapshot  `json:"snapshot"`
}
