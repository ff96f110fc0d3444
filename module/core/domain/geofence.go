package domain

import "time"

// ZoneRadiusMeters is the fixed radius of every silent zone.
const ZoneRadiusMeters = 100.0

type GeofenceState string

const (
	StateOutside GeofenceState = "OUTSIDE"
	StateInside  GeofenceState = "INSIDE"
)

type TransitionEvent string

const (
	ZoneEntry TransitionEvent = "zone_entry"
	ZoneExit  TransitionEvent = "zone_exit"
)

// ZoneTransition describes one boundary crossing. Commanded is false when the
// ringer command was suppressed or failed.
type ZoneTransition struct {
	ID        string          `json:"id"`
	DeviceID  string          `json:"device_id"`
	Event     TransitionEvent `json:"event"`
	Zone      Zone            `json:"zone"`
	Sample    LocationSample  `json:"sample"`
	Distance  float64         `json:"distance_m"`
	Commanded bool            `json:"commanded"`
	Timestamp time.Time       `json:"timestamp"`
}
