package request

import (
	"errors"
	"strings"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuote = errors.New("invalid quote payload")
)

// CreateRepairRequest is the intake payload. The tenant comes from the
// X-Tenant-ID header, not the body.
type CreateRepairRequest struct {
	LicensePlate  string   `json:"license_plate" binding:"required"`
	CustomerName  string   `json:"customer_name" binding:"required"`
	CustomerEmail string   `json:"customer_email"`
	ServiceType   string   `json:"service_type" binding:"required"`
	Photos        []string `json:"photos"`
}

func (r CreateRepairRequest) ToInput(tenantID string) usecase.CreateRequestInput {
	photos := make([]string, 0, len(r.Photos))
	for _, p := range r.Photos {
		if p = strings.TrimSpace(p); p != "" {
			photos = append(photos, p)
		}
	}
	return usecase.CreateRequestInput{
		TenantID:      tenantID,
		LicensePlate:  r.LicensePlate,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		ServiceType:   entities.ServiceType(strings.ToLower(strings.TrimSpace(r.ServiceType))),
		Photos:        photos,
	}
}

type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// VariantRequest carries either an explicit total or line items to sum.
type VariantRequest struct {
	LineItems []LineItemRequest `json:"line_items"`
	Total     *decimal.Decimal  `json:"total"`
}

// SendQuoteRequest is handed over by the quote builder. Prices may be sent as
// JSON strings ("1800.00") or numbers.
type SendQuoteRequest struct {
	Variants      map[string]VariantRequest `json:"variants" binding:"required"`
	ChosenVariant string                    `json:"chosen_variant"`
}

func (r SendQuoteRequest) ToQuote() (entities.Quote, error) {
	if len(r.Variants) == 0 {
		return entities.Quote{}, ErrInvalidQuote
	}
	q := entities.Quote{
		Variants:      make(map[entities.VariantKey]entities.Variant, len(r.Variants)),
		ChosenVariant: entities.VariantKey(strings.ToLower(strings.TrimSpace(r.ChosenVariant))),
	}
	for rawKey, v := range r.Variants {
		key := entities.VariantKey(strings.ToLower(strings.TrimSpace(rawKey)))
		if !key.Valid() {
			return entities.Quote{}, ErrInvalidQuote
		}
		variant := entities.Variant{LineItems: make([]entities.LineItem, 0, len(v.LineItems))}
		sum := decimal.Zero
		for _, li := range v.LineItems {
			if li.Quantity <= 0 || li.UnitPrice.IsNegative() {
				return entities.Quote{}, ErrInvalidQuote
			}
			variant.LineItems = append(variant.LineItems, entities.LineItem{
				Description: strings.TrimSpace(li.Description),
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice,
			})
			sum = sum.Add(li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
		}
		switch {
		case v.Total != nil:
			variant.Total = *v.Total
		case len(v.LineItems) > 0:
			variant.Total = sum
		default:
			return entities.Quote{}, ErrInvalidQuote
		}
		q.Variants[key] = variant
	}
	return q, nil
}

type SelectVariantRequest struct {
	Variant string `json:"variant" binding:"required"`
}

func (r SelectVariantRequest) Key() entities.VariantKey {
	return entities.VariantKey(strings.ToLower(strings.TrimSpace(r.Variant)))
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (r CancelRequest) ResolveReason() string {
	if v := strings.TrimSpace(r.Reason); v != "" {
		return v
	}
	return "cancelled by partner"
}
