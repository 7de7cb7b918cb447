package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"partner_repairs/internal/adapter/persistence/memory"
	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"
	mock_interfaces "partner_repairs/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

// acceptWithPhotos accepts req-1 on store and attaches before/after sets to
// the new vehicle.
func acceptWithPhotos(t *testing.T, store *memory.Store) string {
	t.Helper()
	accept, _ := newMemoryCoordinators(store)
	res, err := accept.Accept(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	for _, label := range []string{entities.PhotoLabelBefore, entities.PhotoLabelAfter} {
		set := entities.NewPhotoSet(res.VehicleID, label, []string{label + ".jpg"}, fixedNow)
		if err := store.PhotoSets().Put(context.Background(), set); err != nil {
			t.Fatalf("put photo set: %v", err)
		}
	}
	return res.VehicleID
}

func assertCascaded(t *testing.T, store *memory.Store, requestID, vehicleID string) {
	t.Helper()
	ctx := context.Background()
	req, _ := store.Requests().GetByID(ctx, requestID)
	if req.Status != entities.RequestStatusCancelled || req.CancelledAt == nil {
		t.Fatalf("expected cancelled request, got %+v", req)
	}
	if v, _ := store.Vehicles().GetByID(ctx, vehicleID); v.ID != "" {
		t.Fatalf("expected vehicle %s to be gone", vehicleID)
	}
	if vs, _ := store.Vehicles().ListBySourceRequestID(ctx, requestID); len(vs) != 0 {
		t.Fatalf("expected no vehicle for request, got %d", len(vs))
	}
	if sets, _ := store.PhotoSets().ListByVehicleID(ctx, vehicleID); len(sets) != 0 {
		t.Fatalf("expected no photo sets, got %+v", sets)
	}
}

// injectingTransactor lands a PhotoSet write after the cascade took its
// snapshot but before the batch commits.
type injectingTransactor struct {
	interfaces.ITransactor
	photoSets interfaces.IPhotoSetRepository
	inject    []entities.PhotoSet
}

func (i *injectingTransactor) CommitCancellation(ctx context.Context, w interfaces.CancellationWrite) error {
	for _, p := range i.inject {
		if err := i.photoSets.Put(ctx, p); err != nil {
			return err
		}
	}
	i.inject = nil
	return i.ITransactor.CommitCancellation(ctx, w)
}

func TestCancellationUseCase_AcceptThenCancel(t *testing.T) {
	store := seedStore(t, quoteSentRequest("req-1"))
	vehicleID := acceptWithPhotos(t, store)
	_, cancel := newMemoryCoordinators(store)

	res, err := cancel.Cancel(context.Background(), "req-1", "customer withdrew")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.NoOp || res.VehicleID != vehicleID || res.DeletedPhotoSets != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.SweepPasses > DefaultSweepPasses || res.Residual {
		t.Fatalf("expected a clean sweep within %d passes, got %+v", DefaultSweepPasses, res)
	}
	assertCascaded(t, store, "req-1", vehicleID)

	req, _ := store.Requests().GetByID(context.Background(), "req-1")
	if req.CancelReason != "customer withdrew" {
		t.Fatalf("expected reason, got %q", req.CancelReason)
	}
}

func TestCancellationUseCase_CancelIsIdempotent(t *testing.T) {
	store := seedStore(t, quoteSentRequest("req-1"))
	vehicleID := acceptWithPhotos(t, store)
	_, cancel := newMemoryCoordinators(store)

	if _, err := cancel.Cancel(context.Background(), "req-1", ""); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	before, _ := store.Requests().GetByID(context.Background(), "req-1")

	res, err := cancel.Cancel(context.Background(), "req-1", "again")
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if !res.NoOp {
		t.Fatalf("expected no-op, got %+v", res)
	}
	after, _ := store.Requests().GetByID(context.Background(), "req-1")
	if after.Version != before.Version || after.CancelReason != before.CancelReason {
		t.Fatalf("second cancel must not write, before=%+v after=%+v", before, after)
	}
	assertCascaded(t, store, "req-1", vehicleID)
}

func TestCancellationUseCase_CancelBeforeAcceptance(t *testing.T) {
	for _, status := range []entities.RequestStatus{entities.RequestStatusNew, entities.RequestStatusQuoteSent} {
		t.Run(string(status), func(t *testing.T) {
			req := quoteSentRequest("req-1")
			req.Status = status
			store := seedStore(t, req)
			accept, cancel := newMemoryCoordinators(store)

			res, err := cancel.Cancel(context.Background(), "req-1", "")
			if err != nil {
				t.Fatalf("cancel: %v", err)
			}
			if res.VehicleID != "" || res.SweepPasses != 0 {
				t.Fatalf("expected no vehicle work, got %+v", res)
			}
			if _, err := accept.Accept(context.Background(), "req-1"); !errors.Is(err, ErrRequestCancelled) {
				t.Fatalf("expected ErrRequestCancelled after cancel, got %v", err)
			}
		})
	}
}

func TestCancellationUseCase_RaceInjectedPhotoSetIsSwept(t *testing.T) {
	store := seedStore(t, quoteSentRequest("req-1"))
	vehicleID := acceptWithPhotos(t, store)

	tx := &injectingTransactor{
		ITransactor: store.Transactor(),
		photoSets:   store.PhotoSets(),
		inject:      []entities.PhotoSet{entities.NewPhotoSet(vehicleID, "late-upload", []string{"late.jpg"}, fixedNow)},
	}
	cancel := NewCancellationUseCase(store.Requests(), store.Vehicles(), store.PhotoSets(), tx, nil, WithCancellationClock(fixedClock))

	res, err := cancel.Cancel(context.Background(), "req-1", "")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.DeletedPhotoSets != 3 || res.Residual {
		t.Fatalf("expected snapshot + swept set removed, got %+v", res)
	}
	if res.SweepPasses != 2 {
		t.Fatalf("expected the second pass to confirm the sweep, got %d", res.SweepPasses)
	}
	assertCascaded(t, store, "req-1", vehicleID)
}

func TestCancellationUseCase_DeleteVehicle(t *testing.T) {
	t.Run("cascades to the request", func(t *testing.T) {
		store := seedStore(t, quoteSentRequest("req-1"))
		vehicleID := acceptWithPhotos(t, store)
		_, cancel := newMemoryCoordinators(store)

		res, err := cancel.DeleteVehicle(context.Background(), vehicleID)
		if err != nil {
			t.Fatalf("delete vehicle: %v", err)
		}
		if res.RequestID != "req-1" || res.NoOp {
			t.Fatalf("unexpected result: %+v", res)
		}
		assertCascaded(t, store, "req-1", vehicleID)
		req, _ := store.Requests().GetByID(context.Background(), "req-1")
		if req.CancelReason != VehicleDeletedReason {
			t.Fatalf("expected reason %q, got %q", VehicleDeletedReason, req.CancelReason)
		}
	})

	t.Run("absent vehicle is a no-op", func(t *testing.T) {
		_, cancel := newMemoryCoordinators(memory.NewStore())
		res, err := cancel.DeleteVehicle(context.Background(), "veh-missing")
		if err != nil || !res.NoOp {
			t.Fatalf("expected no-op success, got %+v err=%v", res, err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		_, cancel := newMemoryCoordinators(memory.NewStore())
		if _, err := cancel.DeleteVehicle(context.Background(), ""); !errors.Is(err, ErrInvalidVehicleID) {
			t.Fatalf("expected ErrInvalidVehicleID, got %v", err)
		}
	})
}

func TestCancellationUseCase_Mocked(t *testing.T) {
	type deps struct {
		requests  *mock_interfaces.MockIRequestRepository
		vehicles  *mock_interfaces.MockIVehicleRepository
		photoSets *mock_interfaces.MockIPhotoSetRepository
		tx        *mock_interfaces.MockITransactor
		photos    *mock_interfaces.MockIPhotoStorage
	}
	setup := func(t *testing.T) (*CancellationUseCase, deps) {
		ctrl := gomock.NewController(t)
		d := deps{
			requests:  mock_interfaces.NewMockIRequestRepository(ctrl),
			vehicles:  mock_interfaces.NewMockIVehicleRepository(ctrl),
			photoSets: mock_interfaces.NewMockIPhotoSetRepository(ctrl),
			tx:        mock_interfaces.NewMockITransactor(ctrl),
			photos:    mock_interfaces.NewMockIPhotoStorage(ctrl),
		}
		uc := NewCancellationUseCase(d.requests, d.vehicles, d.photoSets, d.tx, d.photos, WithCancellationClock(fixedClock))
		return uc, d
	}
	accepted := func() entities.Request {
		r := quoteSentRequest("req-1")
		r.Status = entities.RequestStatusAccepted
		r.VehicleID = "veh-1"
		return r
	}
	leftover := []entities.PhotoSet{{VehicleID: "veh-1", Label: "after", Photos: []string{"a.jpg"}, Count: 1}}

	t.Run("not found", func(t *testing.T) {
		uc, d := setup(t)
		d.requests.EXPECT().GetByID(gomock.Any(), "req-1").Return(entities.Request{}, nil)
		if _, err := uc.Cancel(context.Background(), "req-1", ""); !errors.Is(err, ErrRequestNotFound) {
			t.Fatalf("expected ErrRequestNotFound, got %v", err)
		}
	})

	t.Run("batch carries version guard and snapshot", func(t *testing.T) {
		uc, d := setup(t)
		snapshot := []entities.PhotoSet{
			{VehicleID: "veh-1", Label: "before", Photos: []string{"b1.jpg", "b2.jpg"}},
			{VehicleID: "veh-1", Label: "after", Photos: []string{"a1.jpg"}},
		}
		d.requests.EXPECT().GetByID(gomock.Any(), "req-1").Return(accepted(), nil)
		gomock.InOrder(
			d.photoSets.EXPECT().ListByVehicleID(gomock.Any(), "veh-1").Return(snapshot, nil),
			d.tx.EXPECT().CommitCancellation(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, w interfaces.CancellationWrite) error {
					if w.Request == nil || w.Request.Status != entities.RequestStatusCancelled || w.ExpectedVersion != 3 {
						t.Fatalf("unexpected request write: %+v", w)
					}
					if w.VehicleID != "veh-1" || len(w.PhotoLabels) != 2 {
						t.Fatalf("unexpected batch: %+v", w)
					}
					return nil
				},
			),
			d.photos.EXPECT().DeletePhotos(gomock.Any(), []string{"b1.jpg", "b2.jpg", "a1.jpg"}).Return(nil),
			d.photoSets.EXPECT().ListByVehicleID(gomock.Any(), "veh-1").Return(nil, nil),
		)

		res, err := uc.Cancel(context.Background(), "req-1", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.SweepPasses != 1 || res.DeletedPhotoSets != 2 {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("version conflict re-reads and retries", func(t *testing.T) {
		uc, d := setup(t)
		d.requests.EXPECT().GetByID(gomock.Any(), "req-1").Return(accepted(), nil).Times(2)
		d.photoSets.EXPECT().ListByVehicleID(gomock.Any(), "veh-1").Return(nil, nil).Times(3)
		gomock.InOrder(
			d.tx.EXPECT().CommitCancellation(gomock.Any(), gomock.Any()).Return(interfaces.ErrWriteConflict),
			d.tx.EXPECT().CommitCancellation(gomock.Any(), gomock.Any()).Return(nil),
		)

		if _, err := uc.Cancel(context.Background(), "req-1", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("residual warning after bounded passes", func(t *testing.T) {
		uc, d := setup(t)
		d.requests.EXPECT().GetByID(gomock.Any(), "req-1").Return(accepted(), nil)
		// snapshot, two sweep passes, final check
		d.photoSets.EXPECT().ListByVehicleID(gomock.Any(), "veh-1").Return(leftover, nil).Times(4)
		d.tx.EXPECT().CommitCancellation(gomock.Any(), gomock.Any()).Return(nil)
		d.photoSets.EXPECT().DeleteMany(gomock.Any(), "veh-1", []string{"after"}).Return(nil).Times(2)
		d.photos.EXPECT().DeletePhotos(gomock.Any(), []string{"a.jpg"}).Return(nil).Times(3)

		res, err := uc.Cancel(context.Background(), "req-1", "")
		if err != nil {
			t.Fatalf("residual must not surface as an error, got %v", err)
		}
		if !res.Residual || res.SweepPasses != DefaultSweepPasses {
			t.Fatalf("expected residual after %d passes, got %+v", DefaultSweepPasses, res)
		}
	})

	t.Run("photo binary delete failure is ignored", func(t *testing.T) {
		uc, d := setup(t)
		d.requests.EXPECT().GetByID(gomock.Any(), "req-1").Return(accepted(), nil)
		gomock.InOrder(
			d.photoSets.EXPECT().ListByVehicleID(gomock.Any(), "veh-1").Return(leftover, nil),
			d.tx.EXPECT().CommitCancellation(gomock.Any(), gomock.Any()).Return(nil),
			d.photos.EXPECT().DeletePhotos(gomock.Any(), gomock.Any()).Return(errors.New("s3 down")),
			d.photoSets.EXPECT().ListByVehicleID(gomock.Any(), "veh-1").Return(nil, nil),
		)
		if _, err := uc.Cancel(context.Background(), "req-1", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("store error propagates", func(t *testing.T) {
		uc, d := setup(t)
		d.requests.EXPECT().GetByID(gomock.Any(), "req-1").Return(accepted(), nil)
		d.photoSets.EXPECT().ListByVehicleID(gomock.Any(), "veh-1").Return(nil, nil)
		d.tx.EXPECT().CommitCancellation(gomock.Any(), gomock.Any()).Return(errors.New("access denied"))

		_, err := uc.Cancel(context.Background(), "req-1", "")
		if err == nil || errors.Is(err, ErrConflict) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestCascadePlanLabels_TruncatesAtTransactionLimit(t *testing.T) {
	var p cascadePlan
	for i := 0; i < interfaces.MaxTransactItems+5; i++ {
		p.snapshot = append(p.snapshot, entities.PhotoSet{Label: fmt.Sprintf("l%03d", i)})
	}
	if got := len(p.labels()); got != interfaces.MaxTransactItems-2 {
		t.Fatalf("expected %d labels, got %d", interfaces.MaxTransactItems-2, got)
	}
}
