package actuator

import (
	"context"

	"github.com/nandanugg/silentzone/module/core/domain"
)

// RingerActuator applies a ringer mode on the device.
type RingerActuator interface {
	SetRingerMode(ctx context.Context, cmd *domain.RingerCommand) error
}
