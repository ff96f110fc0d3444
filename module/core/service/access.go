package service

import (
	"context"
	"sync/atomic"
)

// DeviceAccess holds the device's last reported DND access flag.
type DeviceAccess struct {
	granted atomic.Bool
}

func NewDeviceAccess(initial bool) *DeviceAccess {
	a := &DeviceAccess{}
	a.granted.Store(initial)
	return a
}

func (a *DeviceAccess) SetGranted(granted bool) {
	a.granted.Store(granted)
}

func (a *DeviceAccess) HasAccess(context.Context) bool {
	return a.granted.Load()
}
