package usecase

import (
	"context"
	"testing"
	"time"

	"partner_repairs/internal/adapter/persistence/memory"
	"partner_repairs/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// threeVariantQuote prices the same job at 2500.00 / 1800.00 / 1200.00.
func threeVariantQuote(chosen entities.VariantKey) entities.Quote {
	return entities.Quote{
		Variants: map[entities.VariantKey]entities.Variant{
			entities.VariantOriginal: {
				LineItems: []entities.LineItem{{Description: "OEM bumper", Quantity: 1, UnitPrice: decimal.RequireFromString("2500.00")}},
				Total:     decimal.RequireFromString("2500.00"),
			},
			entities.VariantAftermarket: {
				LineItems: []entities.LineItem{{Description: "Aftermarket bumper", Quantity: 1, UnitPrice: decimal.RequireFromString("1800.00")}},
				Total:     decimal.RequireFromString("1800.00"),
			},
			entities.VariantUsed: {
				LineItems: []entities.LineItem{{Description: "Used bumper", Quantity: 1, UnitPrice: decimal.RequireFromString("1200.00")}},
				Total:     decimal.RequireFromString("1200.00"),
			},
		},
		ChosenVariant: chosen,
	}
}

func quoteSentRequest(id string) entities.Request {
	q := threeVariantQuote(entities.VariantAftermarket)
	return entities.Request{
		ID:            id,
		TenantID:      "tenant-1",
		LicensePlate:  "B-XY 123",
		CustomerName:  "Mara Jensen",
		CustomerEmail: "mara@example.com",
		ServiceType:   entities.ServiceTypePaint,
		Status:        entities.RequestStatusQuoteSent,
		Quote:         &q,
		Version:       3,
		CreatedAt:     fixedNow.Add(-time.Hour),
		UpdatedAt:     fixedNow.Add(-time.Hour),
	}
}

// seedStore returns a memory store holding one quote_sent request.
func seedStore(t *testing.T, req entities.Request) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	if _, err := store.Requests().Create(context.Background(), req); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return store
}

func newMemoryCoordinators(store *memory.Store) (*AcceptanceUseCase, *CancellationUseCase) {
	accept := NewAcceptanceUseCase(store.Requests(), store.Vehicles(), store.PhotoSets(), store.Transactor(), nil,
		WithAcceptanceClock(fixedClock))
	cancel := NewCancellationUseCase(store.Requests(), store.Vehicles(), store.PhotoSets(), store.Transactor(), nil,
		WithCancellationClock(fixedClock))
	return accept, cancel
}
