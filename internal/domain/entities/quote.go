package entities

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownVariant   = errors.New("unknown quote variant")
	ErrVariantNotChosen = errors.New("quote variant not chosen")
	ErrQuoteMissing     = errors.New("request has no quote")
)

// VariantKey identifies one priced option of a quote.
type VariantKey string

const (
	VariantOriginal    VariantKey = "original"
	VariantAftermarket VariantKey = "aftermarket"
	VariantUsed        VariantKey = "used"
)

func (k VariantKey) Valid() bool {
	switch k {
	case VariantOriginal, VariantAftermarket, VariantUsed:
		return true
	}
	return false
}

type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Variant is one priced option. Total is authoritative; it is never derived
// from the line items once the quote has been sent.
type Variant struct {
	LineItems []LineItem      `json:"line_items"`
	Total     decimal.Decimal `json:"total"`
}

// Quote is the set of priced variants attached to a request.
type Quote struct {
	Variants      map[VariantKey]Variant `json:"variants"`
	ChosenVariant VariantKey             `json:"chosen_variant,omitempty"`
}

// Validate checks every key is a known variant and at least one exists.
func (q Quote) Validate() error {
	if len(q.Variants) == 0 {
		return ErrUnknownVariant
	}
	for k, v := range q.Variants {
		if !k.Valid() || v.Total.IsNegative() {
			return ErrUnknownVariant
		}
	}
	if q.ChosenVariant != "" {
		if _, ok := q.Variants[q.ChosenVariant]; !ok {
			return ErrUnknownVariant
		}
	}
	return nil
}

// ChosenTotal returns the total of the chosen variant exactly as stored.
func (q *Quote) ChosenTotal() (decimal.Decimal, error) {
	if q == nil {
		return decimal.Decimal{}, ErrQuoteMissing
	}
	if q.ChosenVariant == "" {
		return decimal.Decimal{}, ErrVariantNotChosen
	}
	v, ok := q.Variants[q.ChosenVariant]
	if !ok {
		return decimal.Decimal{}, ErrUnknownVariant
	}
	return v.Total, nil
}
