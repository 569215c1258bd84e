package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

//go:embed indexes.sql
var initIndexesSQL string

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      label,
                      config)
VALUES (?, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    label,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    label,
    config
FROM sessions
ORDER BY start_time, id`

	insertTelemetrySQL = `
INSERT INTO telemetry (session_id,
                       scenario,
                       timestamp,
                       x,
                       y,
                       battery,
                       altitude,
                       target_altitude,
                       wind_speed,
                       sensor_noise,
                       flight_time,
                       received_power,
                       pressure_raw,
                       adc_reading,
                       expected_waypoint,
                       waypoint_offset_ulps,
                       gps_coordinate)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertReportSQL = `
INSERT INTO reports (session_id,
                     telemetry_id,
                     horizontal_distance,
                     clamped_altitude,
                     altitude_rounded,
                     battery_percent,
                     heading_radians,
                     heading_degrees,
                     battery_after_decay,
                     signal_dbm,
                     thrust,
                     grid_layer,
                     next_layer_ceiling,
                     climb_direction,
                     vertical_command,
                     pressure_normalized,
                     amplified_reading,
                     computed_waypoint,
                     waypoint_in_tolerance,
                     snapped_coordinate)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectRecordColumnsSQL = `
SELECT r.id,
       r.session_id,
       t.scenario,
       t.timestamp,
       t.x,
       t.y,
       t.battery,
       t.altitude,
       t.target_altitude,
       t.wind_speed,
       t.sensor_noise,
       t.flight_time,
       t.received_power,
       t.pressure_raw,
       t.adc_reading,
       t.expected_waypoint,
       t.waypoint_offset_ulps,
       t.gps_coordinate,
       r.horizontal_distance,
       r.clamped_altitude,
       r.altitude_rounded,
       r.battery_percent,
       r.heading_radians,
       r.heading_degrees,
       r.battery_after_decay,
       r.signal_dbm,
       r.thrust,
       r.grid_layer,
       r.next_layer_ceiling,
       r.climb_direction,
       r.vertical_command,
       r.pressure_normalized,
       r.amplified_reading,
       r.computed_waypoint,
       r.waypoint_in_tolerance,
       r.snapped_coordinate
FROM reports r
         JOIN telemetry t ON t.id = r.telemetry_id`

	selectRecordSQL = selectRecordColumnsSQL + `
WHERE r.id = ?`
)
