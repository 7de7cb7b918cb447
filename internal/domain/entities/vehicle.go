package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleStatus is the working-life status of a job once a request is accepted.

type VehicleStatus string

const (
	VehicleStatusOrdered    VehicleStatus = "ordered"
	VehicleStatusInProgress VehicleStatus = "in_progress"
	VehicleStatusDone       VehicleStatus = "done"
	VehicleStatusPickedUp   VehicleStatus = "picked_up"
)

var vehicleStatusOrder = map[VehicleStatus]int{
	VehicleStatusOrdered:    0,
	VehicleStatusInProgress: 1,
	VehicleStatusDone:       2,
	VehicleStatusPickedUp:   3,
}

func (s VehicleStatus) Valid() bool {
	_, ok := vehicleStatusOrder[s]
	return ok
}

// CanAdvanceTo allows only the next status in the workshop flow.
func (s VehicleStatus) CanAdvanceTo(next VehicleStatus) bool {
	cur, ok := vehicleStatusOrder[s]
	if !ok {
		return false
	}
	n, ok := vehicleStatusOrder[next]
	return ok && n == cur+1
}

// Vehicle is the job record created from an accepted request.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (tenant_id-index): tenant_id
//
// AgreedPrice is copied from the chosen quote variant at acceptance and is
// never recomputed.
type Vehicle struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	LicensePlate    string          `json:"license_plate"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	ServiceType     ServiceType     `json:"service_type"`
	AgreedPrice     decimal.Decimal `json:"agreed_price"`
	Status          VehicleStatus   `json:"status"`
	SourceRequestID string          `json:"source_request_id"`
	PhotoSyncFailed bool            `json:"photo_sync_failed"`
	PhotoSyncError  string          `json:"photo_sync_error,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewVehicleFromRequest maps an accepted request onto a fresh vehicle.
func NewVehicleFromRequest(id string, r Request, now time.Time) (Vehicle, error) {
	price, err := r.Quote.ChosenTotal()
	if err != nil {
		return Vehicle{}, err
	}
	return Vehicle{
		ID:              id,
		TenantID:        r.TenantID,
		LicensePlate:    r.LicensePlate,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		ServiceType:     r.ServiceType,
		AgreedPrice:     price,
		Status:          VehicleStatusOrdered,
		SourceRequestID: r.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
