package interfaces

import (
	"context"
	"partner_repairs/internal/domain/entities"
)

// IEventPublisher delivers transition events to the notification side.

type IEventPublisher interface {
	Publish(ctx context.Context, events []entities.TransitionEvent) error
}
