package domain

import "time"

type RingerMode string

const (
	RingerSilent  RingerMode = "SILENT"
	RingerNormal  RingerMode = "NORMAL"
	RingerVibrate RingerMode = "VIBRATE"
)

type RingerCommand struct {
	Mode     RingerMode `json:"mode"`
	IssuedAt time.Time  `json:"issued_at"`
}
