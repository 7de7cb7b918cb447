package repository

import (
	"partner_repairs/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Money is stored as a decimal string so the agreed price round-trips
// without float rounding.

type lineItemItem struct {
	Description string `dynamodbav:"description"`
	Quantity    int    `dynamodbav:"quantity"`
	UnitPrice   string `dynamodbav:"unit_price"`
}

type variantItem struct {
	LineItems []lineItemItem `dynamodbav:"line_items"`
	Total     string         `dynamodbav:"total"`
}

type quoteItem struct {
	Variants      map[string]variantItem `dynamodbav:"variants"`
	ChosenVariant string                 `dynamodbav:"chosen_variant,omitempty"`
}

type requestItem struct {
	ID            string     `dynamodbav:"id"`
	TenantID      string     `dynamodbav:"tenant_id"`
	LicensePlate  string     `dynamodbav:"license_plate"`
	CustomerName  string     `dynamodbav:"customer_name"`
	CustomerEmail string     `dynamodbav:"customer_email,omitempty"`
	ServiceType   string     `dynamodbav:"service_type"`
	Status        string     `dynamodbav:"status"`
	Quote         *quoteItem `dynamodbav:"quote,omitempty"`
	Photos        []string   `dynamodbav:"photos,omitempty"`
	VehicleID     string     `dynamodbav:"vehicle_id,omitempty"`
	Version       int64      `dynamodbav:"version"`
	CreatedAt     string     `dynamodbav:"created_at"`
	UpdatedAt     string     `dynamodbav:"updated_at"`
	AcceptedAt    string     `dynamodbav:"accepted_at,omitempty"`
	CancelledAt   string     `dynamodbav:"cancelled_at,omitempty"`
	CancelReason  string     `dynamodbav:"cancel_reason,omitempty"`
}

type vehicleItem struct {
	ID              string `dynamodbav:"id"`
	TenantID        string `dynamodbav:"tenant_id"`
	LicensePlate    string `dynamodbav:"license_plate"`
	CustomerName    string `dynamodbav:"customer_name"`
	CustomerEmail   string `dynamodbav:"customer_email,omitempty"`
	ServiceType     string `dynamodbav:"service_type"`
	AgreedPrice     string `dynamodbav:"agreed_price"`
	Status          string `dynamodbav:"status"`
	SourceRequestID string `dynamodbav:"source_request_id"`
	PhotoSyncFailed bool   `dynamodbav:"photo_sync_failed"`
	PhotoSyncError  string `dynamodbav:"photo_sync_error,omitempty"`
	CreatedAt       string `dynamodbav:"created_at"`
	UpdatedAt       string `dynamodbav:"updated_at"`
}

type photoSetItem struct {
	VehicleID   string   `dynamodbav:"vehicle_id"`
	Label       string   `dynamodbav:"label"`
	Photos      []string `dynamodbav:"photos"`
	Count       int      `dynamodbav:"count"`
	LastUpdated string   `dynamodbav:"last_updated"`
}

func toQuoteItem(q *entities.Quote) *quoteItem {
	if q == nil {
		return nil
	}
	out := &quoteItem{
		Variants:      make(map[string]variantItem, len(q.Variants)),
		ChosenVariant: string(q.ChosenVariant),
	}
	for k, v := range q.Variants {
		items := make([]lineItemItem, 0, len(v.LineItems))
		for _, li := range v.LineItems {
			items = append(items, lineItemItem{Description: li.Description, Quantity: li.Quantity, UnitPrice: li.UnitPrice.String()})
		}
		out.Variants[string(k)] = variantItem{LineItems: items, Total: v.Total.String()}
	}
	return out
}

func fromQuoteItem(it *quoteItem) (*entities.Quote, error) {
	if it == nil {
		return nil, nil
	}
	q := &entities.Quote{
		Variants:      make(map[entities.VariantKey]entities.Variant, len(it.Variants)),
		ChosenVariant: entities.VariantKey(it.ChosenVariant),
	}
	for k, v := range it.Variants {
		total, err := decimal.NewFromString(v.Total)
		if err != nil {
			return nil, err
		}
		items := make([]entities.LineItem, 0, len(v.LineItems))
		for _, li := range v.LineItems {
			price, err := decimal.NewFromString(li.UnitPrice)
			if err != nil {
				return nil, err
			}
			items = append(items, entities.LineItem{Description: li.Description, Quantity: li.Quantity, UnitPrice: price})
		}
		q.Variants[entities.VariantKey(k)] = entities.Variant{LineItems: items, Total: total}
	}
	return q, nil
}

func toRequestItem(r entities.Request) requestItem {
	return requestItem{
		ID:            r.ID,
		TenantID:      r.TenantID,
		LicensePlate:  r.LicensePlate,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		ServiceType:   string(r.ServiceType),
		Status:        string(r.Status),
		Quote:         toQuoteItem(r.Quote),
		Photos:        r.Photos,
		VehicleID:     r.VehicleID,
		Version:       r.Version,
		CreatedAt:     formatTime(r.CreatedAt),
		UpdatedAt:     formatTime(r.UpdatedAt),
		AcceptedAt:    formatTimePtr(r.AcceptedAt),
		CancelledAt:   formatTimePtr(r.CancelledAt),
		CancelReason:  r.CancelReason,
	}
}

func fromRequestItem(it requestItem) (entities.Request, error) {
	q, err := fromQuoteItem(it.Quote)
	if err != nil {
		return entities.Request{}, err
	}
	return entities.Request{
		ID:            it.ID,
		TenantID:      it.TenantID,
		LicensePlate:  it.LicensePlate,
		CustomerName:  it.CustomerName,
		CustomerEmail: it.CustomerEmail,
		ServiceType:   entities.ServiceType(it.ServiceType),
		Status:        entities.RequestStatus(it.Status),
		Quote:         q,
		Photos:        it.Photos,
		VehicleID:     it.VehicleID,
		Version:       it.Version,
		CreatedAt:     parseTime(it.CreatedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
		AcceptedAt:    parseTimePtr(it.AcceptedAt),
		CancelledAt:   parseTimePtr(it.CancelledAt),
		CancelReason:  it.CancelReason,
	}, nil
}

func toVehicleItem(v entities.Vehicle) vehicleItem {
	return vehicleItem{
		ID:              v.ID,
		TenantID:        v.TenantID,
		LicensePlate:    v.LicensePlate,
		CustomerName:    v.CustomerName,
		CustomerEmail:   v.CustomerEmail,
		ServiceType:     string(v.ServiceType),
		AgreedPrice:     v.AgreedPrice.String(),
		Status:          string(v.Status),
		SourceRequestID: v.SourceRequestID,
		PhotoSyncFailed: v.PhotoSyncFailed,
		PhotoSyncError:  v.PhotoSyncError,
		CreatedAt:       formatTime(v.CreatedAt),
		UpdatedAt:       formatTime(v.UpdatedAt),
	}
}

func fromVehicleItem(it vehicleItem) (entities.Vehicle, error) {
	price, err := decimal.NewFromString(it.AgreedPrice)
	if err != nil {
		return entities.Vehicle{}, err
	}
	return entities.Vehicle{
		ID:              it.ID,
		TenantID:        it.TenantID,
		LicensePlate:    it.LicensePlate,
		CustomerName:    it.CustomerName,
		CustomerEmail:   it.CustomerEmail,
		ServiceType:     entities.ServiceType(it.ServiceType),
		AgreedPrice:     price,
		Status:          entities.VehicleStatus(it.Status),
		SourceRequestID: it.SourceRequestID,
		PhotoSyncFailed: it.PhotoSyncFailed,
		PhotoSyncError:  it.PhotoSyncError,
		CreatedAt:       parseTime(it.CreatedAt),
		UpdatedAt:       parseTime(it.UpdatedAt),
	}, nil
}

func toPhotoSetItem(p entities.PhotoSet) photoSetItem {
	return photoSetItem{
		VehicleID:   p.VehicleID,
		Label:       p.Label,
		Photos:      p.Photos,
		Count:       p.Count,
		LastUpdated: formatTime(p.LastUpdated),
	}
}

func fromPhotoSetItem(it photoSetItem) entities.PhotoSet {
	return entities.PhotoSet{
		VehicleID:   it.VehicleID,
		Label:       it.Label,
		Photos:      it.Photos,
		Count:       it.Count,
		LastUpdated: parseTime(it.LastUpdated),
	}
}
