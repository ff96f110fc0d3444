package domain

import "time"

type StatusState string

const (
	StatusNoZone   StatusState = "NO_ZONE"
	StatusChecking StatusState = "CHECKING"
	StatusInside   StatusState = "INSIDE"
	StatusOutside  StatusState = "OUTSIDE"
)

type Status struct {
	State          StatusState `json:"state"`
	Zone           Zone        `json:"zone"`
	DistanceMeters *float64    `json:"distance_m,omitempty"`
	Text           string      `json:"text"`
	Ringer         RingerMode  `json:"ringer_mode,omitempty"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
