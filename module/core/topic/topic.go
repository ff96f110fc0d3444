// Package topic builds the MQTT topic names shared by the daemon, the device
// and the simulator.
package topic

import "fmt"

const prefix = "silentzone/device"

// Location carries {latitude, longitude, timestamp} samples from the device.
func Location(deviceID string) string {
	return fmt.Sprintf("%s/%s/location", prefix, deviceID)
}

// DND carries the device's do-not-disturb access flag, published retained.
func DND(deviceID string) string {
	return fmt.Sprintf("%s/%s/dnd", prefix, deviceID)
}

// Ringer carries ringer-mode commands to the device.
func Ringer(deviceID string) string {
	return fmt.Sprintf("%s/%s/ringer", prefix, deviceID)
}
