package domain

import "time"

type LocationSample struct {
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

type Coordinate struct {
	Lat         float64 `json:"latitude"`
	Lon         float64 `json:"longitude"`
	DisplayName string  `json:"display_name,omitempty"`
}
