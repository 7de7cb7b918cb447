package usecase

import (
	"context"
	"testing"

	"partner_repairs/internal/domain/entities"
	mock_interfaces "partner_repairs/internal/usecase/interfaces/mocks"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

func TestCoordinators_RecordSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	store := seedStore(t, quoteSentRequest("req-1"))
	accept := NewAcceptanceUseCase(store.Requests(), store.Vehicles(), store.PhotoSets(), store.Transactor(), nil,
		WithAcceptanceClock(fixedClock), WithAcceptanceTracerProvider(tp))
	cancel := NewCancellationUseCase(store.Requests(), store.Vehicles(), store.PhotoSets(), store.Transactor(), nil,
		WithCancellationClock(fixedClock), WithCancellationTracerProvider(tp))

	ctx := context.Background()
	res, err := accept.Accept(ctx, "req-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := cancel.Cancel(ctx, "req-1", "customer withdrew"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	ended := sr.Ended()
	names := make(map[string]bool, len(ended))
	for _, s := range ended {
		names[s.Name()] = true
	}
	for _, want := range []string{"acceptance.Accept", "cascade.Cancel"} {
		if !names[want] {
			t.Fatalf("expected span %q, got %v", want, names)
		}
	}

	var vehicleID string
	for _, s := range ended {
		if s.Name() != "acceptance.Accept" {
			continue
		}
		for _, kv := range s.Attributes() {
			if kv.Key == "vehicle.id" {
				vehicleID = kv.Value.AsString()
			}
		}
	}
	if vehicleID != res.VehicleID {
		t.Fatalf("expected vehicle.id %s on the accept span, got %q", res.VehicleID, vehicleID)
	}
}

func TestNotify_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctrl := gomock.NewController(t)
	pub := mock_interfaces.NewMockIEventPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	uc := NewNotificationUseCase(pub)
	uc.tracer = tp.Tracer(tracerName)

	events := []entities.TransitionEvent{{RequestID: "req-1", From: entities.RequestStatusQuoteSent, To: entities.RequestStatusAccepted}}
	if _, err := uc.Notify(context.Background(), events); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if ended := sr.Ended(); len(ended) != 1 || ended[0].Name() != "notify.Notify" {
		t.Fatalf("expected one notify.Notify span, got %d", len(ended))
	}
}
