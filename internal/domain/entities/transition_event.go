package entities

import "time"

// TransitionEvent is published when a request changes status. It is derived
// from the request table's change feed, never emitted by the coordinators.
type TransitionEvent struct {
	EventID      string        `json:"event_id"`
	RequestID    string        `json:"request_id"`
	TenantID     string        `json:"tenant_id"`
	From         RequestStatus `json:"from"`
	To           RequestStatus `json:"to"`
	VehicleID    string        `json:"vehicle_id,omitempty"`
	CancelReason string        `json:"cancel_reason,omitempty"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

// Notifiable is true for the transitions partners are told about.
func (e TransitionEvent) Notifiable() bool {
	return e.From != e.To && (e.To == RequestStatusAccepted || e.To == RequestStatusCancelled)
}
