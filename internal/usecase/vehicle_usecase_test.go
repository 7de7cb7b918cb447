package usecase

import (
	"context"
	"errors"
	"testing"

	"partner_repairs/internal/domain/entities"
	mock_interfaces "partner_repairs/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestFilterActiveVehicles(t *testing.T) {
	vehicles := []entities.Vehicle{
		{ID: "v1", SourceRequestID: "r1"},
		{ID: "v2", SourceRequestID: "r2"},
		{ID: "v3", SourceRequestID: "r3"},
		{ID: "v4", SourceRequestID: ""},
	}
	requests := map[string]entities.Request{
		"r1": {ID: "r1", Status: entities.RequestStatusAccepted},
		"r2": {ID: "r2", Status: entities.RequestStatusCancelled},
	}

	got := FilterActiveVehicles(vehicles, requests)
	if len(got) != 1 || got[0].ID != "v1" {
		t.Fatalf("expected only v1, got %+v", got)
	}
	if out := FilterActiveVehicles(nil, nil); out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}

func TestVehicleUseCase_ListActive(t *testing.T) {
	t.Run("invalid tenant", func(t *testing.T) {
		uc := NewVehicleUseCase(nil, nil, nil, nil)
		if _, err := uc.ListActive(context.Background(), " "); !errors.Is(err, ErrInvalidTenantID) {
			t.Fatalf("expected ErrInvalidTenantID, got %v", err)
		}
	})

	t.Run("hides vehicle of cancelled request mid-cascade", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		requests := mock_interfaces.NewMockIRequestRepository(ctrl)
		uc := NewVehicleUseCase(vehicles, requests, nil, nil)

		vehicles.EXPECT().ListByTenant(gomock.Any(), "tenant-1").Return([]entities.Vehicle{
			{ID: "v1", SourceRequestID: "r1"},
			{ID: "v2", SourceRequestID: "r2"},
		}, nil)
		requests.EXPECT().GetByIDs(gomock.Any(), []string{"r1", "r2"}).Return(map[string]entities.Request{
			"r1": {ID: "r1", Status: entities.RequestStatusAccepted},
			"r2": {ID: "r2", Status: entities.RequestStatusCancelled},
		}, nil)

		got, err := uc.ListActive(context.Background(), "tenant-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "v1" {
			t.Fatalf("expected only v1, got %+v", got)
		}
	})

	t.Run("empty tenant skips request lookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		uc := NewVehicleUseCase(vehicles, nil, nil, nil)
		vehicles.EXPECT().ListByTenant(gomock.Any(), "tenant-1").Return(nil, nil)

		got, err := uc.ListActive(context.Background(), "tenant-1")
		if err != nil || got == nil || len(got) != 0 {
			t.Fatalf("expected empty list, got %+v err=%v", got, err)
		}
	})

	t.Run("lookup error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		requests := mock_interfaces.NewMockIRequestRepository(ctrl)
		uc := NewVehicleUseCase(vehicles, requests, nil, nil)
		vehicles.EXPECT().ListByTenant(gomock.Any(), "tenant-1").Return([]entities.Vehicle{{ID: "v1", SourceRequestID: "r1"}}, nil)
		requests.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return(nil, errors.New("db"))

		if _, err := uc.ListActive(context.Background(), "tenant-1"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("memory store end to end", func(t *testing.T) {
		store := seedStore(t, quoteSentRequest("req-1"))
		accept, cancel := newMemoryCoordinators(store)
		if _, err := accept.Accept(context.Background(), "req-1"); err != nil {
			t.Fatalf("accept: %v", err)
		}
		uc := NewVehicleUseCase(store.Vehicles(), store.Requests(), store.PhotoSets(), nil)

		active, _ := uc.ListActive(context.Background(), "tenant-1")
		if len(active) != 1 {
			t.Fatalf("expected one active vehicle, got %d", len(active))
		}
		if _, err := cancel.Cancel(context.Background(), "req-1", ""); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		active, _ = uc.ListActive(context.Background(), "tenant-1")
		if len(active) != 0 {
			t.Fatalf("expected no active vehicle, got %d", len(active))
		}
	})
}

func TestVehicleUseCase_AdvanceStatus(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		uc := NewVehicleUseCase(vehicles, nil, nil, nil)
		vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{}, nil)

		if _, err := uc.AdvanceStatus(context.Background(), "v1", entities.VehicleStatusInProgress); !errors.Is(err, ErrVehicleNotFound) {
			t.Fatalf("expected ErrVehicleNotFound, got %v", err)
		}
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		uc := NewVehicleUseCase(vehicles, nil, nil, nil)
		vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{ID: "v1", Status: entities.VehicleStatusOrdered}, nil)

		if _, err := uc.AdvanceStatus(context.Background(), "v1", entities.VehicleStatusDone); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		uc := NewVehicleUseCase(vehicles, nil, nil, nil)
		vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{ID: "v1", Status: entities.VehicleStatusOrdered}, nil)
		vehicles.EXPECT().UpdateStatus(gomock.Any(), "v1", entities.VehicleStatusOrdered, entities.VehicleStatusInProgress).
			Return(entities.Vehicle{ID: "v1", Status: entities.VehicleStatusInProgress}, nil)

		got, err := uc.AdvanceStatus(context.Background(), "v1", entities.VehicleStatusInProgress)
		if err != nil || got.Status != entities.VehicleStatusInProgress {
			t.Fatalf("unexpected result: %+v err=%v", got, err)
		}
	})

	t.Run("vehicle deleted between read and update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		uc := NewVehicleUseCase(vehicles, nil, nil, nil)
		gomock.InOrder(
			vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{ID: "v1", Status: entities.VehicleStatusOrdered}, nil),
			vehicles.EXPECT().UpdateStatus(gomock.Any(), "v1", gomock.Any(), gomock.Any()).Return(entities.Vehicle{}, nil),
			vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{}, nil),
		)

		if _, err := uc.AdvanceStatus(context.Background(), "v1", entities.VehicleStatusInProgress); !errors.Is(err, ErrVehicleNotFound) {
			t.Fatalf("expected ErrVehicleNotFound, got %v", err)
		}
	})
}

func TestVehicleUseCase_UploadPhotos(t *testing.T) {
	t.Run("invalid label", func(t *testing.T) {
		uc := NewVehicleUseCase(nil, nil, nil, nil)
		if _, err := uc.UploadPhotos(context.Background(), "v1", "during", []string{"a"}); !errors.Is(err, ErrInvalidPhotoLabel) {
			t.Fatalf("expected ErrInvalidPhotoLabel, got %v", err)
		}
	})

	t.Run("no photos", func(t *testing.T) {
		uc := NewVehicleUseCase(nil, nil, nil, nil)
		if _, err := uc.UploadPhotos(context.Background(), "v1", "after", nil); !errors.Is(err, ErrInvalidRequestData) {
			t.Fatalf("expected ErrInvalidRequestData, got %v", err)
		}
	})

	t.Run("copies then stores", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		photoSets := mock_interfaces.NewMockIPhotoSetRepository(ctrl)
		photos := mock_interfaces.NewMockIPhotoStorage(ctrl)
		uc := NewVehicleUseCase(vehicles, nil, photoSets, photos)
		uc.now = fixedClock

		vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{ID: "v1"}, nil).Times(2)
		photos.EXPECT().CopyPhotos(gomock.Any(), "v1", "after", []string{"up/a.jpg"}).Return([]string{"vehicles/v1/after/a.jpg"}, nil)
		photoSets.EXPECT().Put(gomock.Any(), entities.PhotoSet{
			VehicleID:   "v1",
			Label:       "after",
			Photos:      []string{"vehicles/v1/after/a.jpg"},
			Count:       1,
			LastUpdated: fixedNow,
		}).Return(nil)

		set, err := uc.UploadPhotos(context.Background(), "v1", " After ", []string{"up/a.jpg"})
		if err != nil || set.Count != 1 {
			t.Fatalf("unexpected result: %+v err=%v", set, err)
		}
	})

	t.Run("copy failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		photos := mock_interfaces.NewMockIPhotoStorage(ctrl)
		uc := NewVehicleUseCase(vehicles, nil, nil, photos)

		vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{ID: "v1"}, nil)
		photos.EXPECT().CopyPhotos(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("denied"))

		if _, err := uc.UploadPhotos(context.Background(), "v1", "before", []string{"a"}); !errors.Is(err, ErrPhotoSyncFailed) {
			t.Fatalf("expected ErrPhotoSyncFailed, got %v", err)
		}
	})

	t.Run("vehicle deleted during upload drops the set", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vehicles := mock_interfaces.NewMockIVehicleRepository(ctrl)
		photoSets := mock_interfaces.NewMockIPhotoSetRepository(ctrl)
		photos := mock_interfaces.NewMockIPhotoStorage(ctrl)
		uc := NewVehicleUseCase(vehicles, nil, photoSets, photos)
		uc.now = fixedClock

		gomock.InOrder(
			vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{ID: "v1"}, nil),
			photos.EXPECT().CopyPhotos(gomock.Any(), "v1", "before", []string{"a"}).Return([]string{"vehicles/v1/before/a"}, nil),
			photoSets.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil),
			vehicles.EXPECT().GetByID(gomock.Any(), "v1").Return(entities.Vehicle{}, nil),
			photoSets.EXPECT().DeleteMany(gomock.Any(), "v1", []string{"before"}).Return(nil),
		)

		if _, err := uc.UploadPhotos(context.Background(), "v1", "before", []string{"a"}); !errors.Is(err, ErrVehicleNotFound) {
			t.Fatalf("expected ErrVehicleNotFound, got %v", err)
		}
	})
}
