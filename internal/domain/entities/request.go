package entities

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle of a partner repair request.
//
// Domain notes:
//   - new -> quote_sent -> accepted is the acceptance path.
//   - new|quote_sent -> cancelled is the cancellation path.
//   - accepted -> cancelled only happens through the cascade, which deletes the
//     vehicle in the same atomic batch.
//   - cancelled is final.

type RequestStatus string

const (
	RequestStatusNew       RequestStatus = "new"
	RequestStatusQuoteSent RequestStatus = "quote_sent"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCancelled RequestStatus = "cancelled"
)

var ErrInvalidStateTransition = errors.New("invalid state transition")

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusNew:       {RequestStatusQuoteSent, RequestStatusCancelled},
	RequestStatusQuoteSent: {RequestStatusAccepted, RequestStatusCancelled},
	RequestStatusAccepted:  {RequestStatusCancelled},
}

// CanTransitionTo reports whether the state machine has an edge from s to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal is true for statuses no acceptance or variant selection may leave.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusCancelled
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusNew, RequestStatusQuoteSent, RequestStatusAccepted, RequestStatusCancelled:
		return true
	}
	return false
}

// Request is a partner-submitted repair request persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (tenant_id-index): tenant_id
//
// Concurrency:
//   - Version is bumped by every write and every transactional write is
//     conditioned on the version that was read.
type Request struct {
	ID            string        `json:"id"`
	TenantID      string        `json:"tenant_id"`
	LicensePlate  string        `json:"license_plate"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	ServiceType   ServiceType   `json:"service_type"`
	Status        RequestStatus `json:"status"`
	Quote         *Quote        `json:"quote,omitempty"`
	Photos        []string      `json:"photos,omitempty"`
	VehicleID     string        `json:"vehicle_id,omitempty"`
	Version       int64         `json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	AcceptedAt    *time.Time    `json:"accepted_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
	CancelReason  string        `json:"cancel_reason,omitempty"`
}

// Transition moves the request along the state machine, stamping the
// timestamps that belong to the target status. It never mutates on error.
func (r *Request) Transition(next RequestStatus, now time.Time) error {
	if !r.Status.CanTransitionTo(next) {
		return ErrInvalidStateTransition
	}
	r.Status = next
	r.UpdatedAt = now
	switch next {
	case RequestStatusAccepted:
		r.AcceptedAt = &now
	case RequestStatusCancelled:
		r.CancelledAt = &now
	}
	return nil
}
