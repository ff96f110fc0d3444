package publisher

import (
	"context"

	"github.com/nandanugg/silentzone/module/core/domain"
)

type TransitionPublisher interface {
	PublishTransition(ctx context.Context, t *domain.ZoneTransition) error
}
