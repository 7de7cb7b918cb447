// Package stream turns the request table's change feed into transition events.
package stream

import (
	"time"

	"partner_repairs/internal/domain/entities"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

const eventNameModify = "MODIFY"

// TransitionsFromStream returns one event per MODIFY record whose status
// changed. Records without both images (KEYS_ONLY views) are skipped.
func TransitionsFromStream(ev events.DynamoDBEvent) []entities.TransitionEvent {
	out := make([]entities.TransitionEvent, 0, len(ev.Records))
	for _, rec := range ev.Records {
		if rec.EventName != eventNameModify {
			continue
		}
		oldImg, newImg := rec.Change.OldImage, rec.Change.NewImage
		if oldImg == nil || newImg == nil {
			continue
		}
		from := entities.RequestStatus(stringAttr(oldImg, "status"))
		to := entities.RequestStatus(stringAttr(newImg, "status"))
		if from == to || to == "" {
			continue
		}

		occurred := rec.Change.ApproximateCreationDateTime.Time
		if ts, err := time.Parse(time.RFC3339Nano, stringAttr(newImg, "updated_at")); err == nil {
			occurred = ts
		}

		eventID := rec.EventID
		if eventID == "" {
			eventID = uuid.NewString()
		}

		out = append(out, entities.TransitionEvent{
			EventID:      eventID,
			RequestID:    stringAttr(newImg, "id"),
			TenantID:     stringAttr(newImg, "tenant_id"),
			From:         from,
			To:           to,
			VehicleID:    stringAttr(newImg, "vehicle_id"),
			CancelReason: stringAttr(newImg, "cancel_reason"),
			OccurredAt:   occurred.UTC(),
		})
	}
	return out
}

func stringAttr(img map[string]events.DynamoDBAttributeValue, name string) string {
	v, ok := img[name]
	if !ok || v.DataType() != events.DataTypeString {
		return ""
	}
	return v.String()
}
