package response

import (
	"strings"
	"time"

	"partner_repairs/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// formatAmount renders at least two decimal places and never drops a
// significant digit: 1800 becomes "1800.00", 1799.999 stays "1799.999".
func formatAmount(d decimal.Decimal) string {
	s := d.String()
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		return s
	}
	return d.StringFixed(2)
}

// VehicleResponse carries agreed_price as a decimal string so no float
// conversion happens on the way out.
type VehicleResponse struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	LicensePlate    string    `json:"license_plate"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email,omitempty"`
	ServiceType     string    `json:"service_type"`
	AgreedPrice     string    `json:"agreed_price"`
	Status          string    `json:"status"`
	SourceRequestID string    `json:"source_request_id"`
	PhotoSyncFailed bool      `json:"photo_sync_failed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromVehicle(v entities.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:              v.ID,
		TenantID:        v.TenantID,
		LicensePlate:    v.LicensePlate,
		CustomerName:    v.CustomerName,
		CustomerEmail:   v.CustomerEmail,
		ServiceType:     string(v.ServiceType),
		AgreedPrice:     formatAmount(v.AgreedPrice),
		Status:          string(v.Status),
		SourceRequestID: v.SourceRequestID,
		PhotoSyncFailed: v.PhotoSyncFailed,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func FromVehicles(vs []entities.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromVehicle(v))
	}
	return out
}

type PhotoSetResponse struct {
	VehicleID   string    `json:"vehicle_id"`
	Label       string    `json:"label"`
	Photos      []string  `json:"photos"`
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"last_updated"`
}

func FromPhotoSet(p entities.PhotoSet) PhotoSetResponse {
	photos := p.Photos
	if photos == nil {
		photos = []string{}
	}
	return PhotoSetResponse{
		VehicleID:   p.VehicleID,
		Label:       p.Label,
		Photos:      photos,
		Count:       p.Count,
		LastUpdated: p.LastUpdated,
	}
}

func FromPhotoSets(ps []entities.PhotoSet) []PhotoSetResponse {
	out := make([]PhotoSetResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPhotoSet(p))
	}
	return out
}
