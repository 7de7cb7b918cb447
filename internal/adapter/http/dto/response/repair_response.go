package response

import (
	"sort"
	"time"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase"
)

type LineItemResponse struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type VariantResponse struct {
	Key       string             `json:"key"`
	LineItems []LineItemResponse `json:"line_items"`
	Total     string             `json:"total"`
}

type QuoteResponse struct {
	Variants      []VariantResponse `json:"variants"`
	ChosenVariant string            `json:"chosen_variant,omitempty"`
}

type RepairRequestResponse struct {
	ID            string         `json:"id"`
	TenantID      string         `json:"tenant_id"`
	LicensePlate  string         `json:"license_plate"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email,omitempty"`
	ServiceType   string         `json:"service_type"`
	Status        string         `json:"status"`
	Quote         *QuoteResponse `json:"quote,omitempty"`
	Photos        []string       `json:"photos"`
	VehicleID     string         `json:"vehicle_id,omitempty"`
	CancelReason  string         `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	AcceptedAt    *time.Time     `json:"accepted_at,omitempty"`
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`
}

// variantOrder lists variants from most to least expensive parts.
var variantOrder = map[entities.VariantKey]int{
	entities.VariantOriginal:    0,
	entities.VariantAftermarket: 1,
	entities.VariantUsed:        2,
}

func FromQuote(q *entities.Quote) *QuoteResponse {
	if q == nil {
		return nil
	}
	out := &QuoteResponse{
		Variants:      make([]VariantResponse, 0, len(q.Variants)),
		ChosenVariant: string(q.ChosenVariant),
	}
	for key, v := range q.Variants {
		items := make([]LineItemResponse, 0, len(v.LineItems))
		for _, li := range v.LineItems {
			items = append(items, LineItemResponse{
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitPrice:   formatAmount(li.UnitPrice),
			})
		}
		out.Variants = append(out.Variants, VariantResponse{Key: string(key), LineItems: items, Total: formatAmount(v.Total)})
	}
	sort.Slice(out.Variants, func(i, j int) bool {
		return variantOrder[entities.VariantKey(out.Variants[i].Key)] < variantOrder[entities.VariantKey(out.Variants[j].Key)]
	})
	return out
}

func FromRequest(r entities.Request) RepairRequestResponse {
	photos := r.Photos
	if photos == nil {
		photos = []string{}
	}
	return RepairRequestResponse{
		ID:            r.ID,
		TenantID:      r.TenantID,
		LicensePlate:  r.LicensePlate,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		ServiceType:   string(r.ServiceType),
		Status:        string(r.Status),
		Quote:         FromQuote(r.Quote),
		Photos:        photos,
		VehicleID:     r.VehicleID,
		CancelReason:  r.CancelReason,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		AcceptedAt:    r.AcceptedAt,
		CancelledAt:   r.CancelledAt,
	}
}

func FromRequests(rs []entities.Request) []RepairRequestResponse {
	out := make([]RepairRequestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromRequest(r))
	}
	return out
}

type AcceptResponse struct {
	RequestID string `json:"request_id"`
	VehicleID string `json:"vehicle_id"`
}

func FromAcceptResult(requestID string, res usecase.AcceptResult) AcceptResponse {
	return AcceptResponse{RequestID: requestID, VehicleID: res.VehicleID}
}

type CancelResponse struct {
	RequestID        string `json:"request_id,omitempty"`
	VehicleID        string `json:"vehicle_id,omitempty"`
	AlreadyDone      bool   `json:"already_done"`
	DeletedPhotoSets int    `json:"deleted_photo_sets"`
	SweepPasses      int    `json:"sweep_passes"`
}

func FromCancelResult(res usecase.CancelResult) CancelResponse {
	return CancelResponse{
		RequestID:        res.RequestID,
		VehicleID:        res.VehicleID,
		AlreadyDone:      res.NoOp,
		DeletedPhotoSets: res.DeletedPhotoSets,
		SweepPasses:      res.SweepPasses,
	}
}
