package domain

import "time"

// Zone is the configured silent zone. The point (0, 0) means no zone is set.
type Zone struct {
	Lat  float64 `json:"latitude"`
	Lon  float64 `json:"longitude"`
	Name string  `json:"name"`
}

// IsSet reports whether z is a configured zone rather than the unset sentinel.
func (z Zone) IsSet() bool {
	return z.Lat != 0 || z.Lon != 0
}

// ZoneRecord is one entry of the zone history.
type ZoneRecord struct {
	ID        int64     `json:"id"`
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (r ZoneRecord) Zone() Zone {
	return Zone{Lat: r.Lat, Lon: r.Lon, Name: r.Name}
}

const (
	ZoneNameCurrentLocation = "Current Location"
	ZoneNameMapSelected     = "Map Selected Location"
)
