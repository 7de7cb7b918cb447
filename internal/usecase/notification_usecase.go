package usecase

import (
	"context"
	"fmt"
	"log"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// INotificationUseCase forwards request transitions observed on the change
// feed to partners.

type INotificationUseCase interface {
	Notify(ctx context.Context, events []entities.TransitionEvent) (int, error)
}

type NotificationUseCase struct {
	publisher interfaces.IEventPublisher
	tracer    trace.Tracer
}

var _ INotificationUseCase = (*NotificationUseCase)(nil)

func NewNotificationUseCase(publisher interfaces.IEventPublisher) *NotificationUseCase {
	return &NotificationUseCase{publisher: publisher, tracer: otel.Tracer(tracerName)}
}

// Notify publishes the accepted and cancelled transitions and returns how many
// were sent. The batch is published as a unit so a failed delivery is retried
// by the stream as a whole.
func (u *NotificationUseCase) Notify(ctx context.Context, events []entities.TransitionEvent) (int, error) {
	out := make([]entities.TransitionEvent, 0, len(events))
	for _, ev := range events {
		if ev.Notifiable() {
			out = append(out, ev)
		}
	}
	if len(out) == 0 {
		return 0, nil
	}

	ctx, span := u.tracer.Start(ctx, "notify.Notify")
	defer span.End()
	span.SetAttributes(attribute.Int("transitions", len(out)))

	if err := u.publisher.Publish(ctx, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		log.Printf("[notify][usecase] publish failed count=%d err=%v", len(out), err)
		return 0, fmt.Errorf("publish transitions: %w", err)
	}
	log.Printf("[notify][usecase] published count=%d skipped=%d", len(out), len(events)-len(out))
	return len(out), nil
}
