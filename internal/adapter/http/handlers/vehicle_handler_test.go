package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	response "partner_repairs/internal/adapter/http/dto/response"
	"partner_repairs/internal/adapter/http/handlers/mocks"
	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newVehicleRouter(t *testing.T) (*gin.Engine, *mocks.MockIVehicleUseCase, *mocks.MockICancellationUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	vehicles := mocks.NewMockIVehicleUseCase(ctrl)
	cancel := mocks.NewMockICancellationUseCase(ctrl)
	h := NewVehicleHandler(vehicles, cancel)

	r := gin.New()
	r.GET("/v1/vehicles", h.ListActiveVehicles)
	r.GET("/v1/vehicles/:id", h.GetVehicle)
	r.PATCH("/v1/vehicles/:id/status", h.AdvanceStatus)
	r.DELETE("/v1/vehicles/:id", h.DeleteVehicle)
	r.PUT("/v1/vehicles/:id/photos/:label", h.UploadPhotos)
	r.GET("/v1/vehicles/:id/photos", h.ListPhotoSets)
	return r, vehicles, cancel
}

func TestVehicleHandler_ListActiveVehicles(t *testing.T) {
	t.Run("missing tenant", func(t *testing.T) {
		r, _, _ := newVehicleRouter(t)
		if w := doJSON(r, http.MethodGet, "/v1/vehicles", "", ""); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, vehicles, _ := newVehicleRouter(t)
		vehicles.EXPECT().ListActive(gomock.Any(), "tenant-1").Return([]entities.Vehicle{
			{ID: "veh-1", AgreedPrice: decimal.RequireFromString("1800.00")},
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/vehicles", "", "tenant-1")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var res []response.VehicleResponse
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(res) != 1 || res[0].AgreedPrice != "1800.00" {
			t.Fatalf("unexpected body: %+v", res)
		}
	})
}

func TestVehicleHandler_GetVehicle(t *testing.T) {
	r, vehicles, _ := newVehicleRouter(t)
	vehicles.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.Vehicle{}, usecase.ErrVehicleNotFound)
	if w := doJSON(r, http.MethodGet, "/v1/vehicles/missing", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	vehicles.EXPECT().GetByID(gomock.Any(), "veh-1").Return(entities.Vehicle{ID: "veh-1", TenantID: "tenant-1"}, nil).Times(2)
	if w := doJSON(r, http.MethodGet, "/v1/vehicles/veh-1", "", "tenant-2"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other tenant, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/v1/vehicles/veh-1", "", "tenant-1"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestVehicleHandler_AdvanceStatus(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m *mocks.MockIVehicleUseCase)
		wantCode int
	}{
		{
			name:     "missing status",
			body:     `{}`,
			setup:    func(m *mocks.MockIVehicleUseCase) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "skipping a step",
			body: `{"status":"done"}`,
			setup: func(m *mocks.MockIVehicleUseCase) {
				m.EXPECT().AdvanceStatus(gomock.Any(), "veh-1", entities.VehicleStatusDone).Return(entities.Vehicle{}, usecase.ErrInvalidStateTransition)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "advanced",
			body: `{"status":"In_Progress"}`,
			setup: func(m *mocks.MockIVehicleUseCase) {
				m.EXPECT().AdvanceStatus(gomock.Any(), "veh-1", entities.VehicleStatusInProgress).Return(entities.Vehicle{ID: "veh-1", Status: entities.VehicleStatusInProgress}, nil)
			},
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, vehicles, _ := newVehicleRouter(t)
			tt.setup(vehicles)
			if w := doJSON(r, http.MethodPatch, "/v1/vehicles/veh-1/status", tt.body, ""); w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestVehicleHandler_DeleteVehicle(t *testing.T) {
	r, _, cancel := newVehicleRouter(t)
	cancel.EXPECT().DeleteVehicle(gomock.Any(), "veh-1").Return(usecase.CancelResult{RequestID: "req-1", VehicleID: "veh-1", DeletedPhotoSets: 1, SweepPasses: 1}, nil)
	w := doJSON(r, http.MethodDelete, "/v1/vehicles/veh-1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	cancel.EXPECT().DeleteVehicle(gomock.Any(), "veh-2").Return(usecase.CancelResult{}, fmt.Errorf("phase one: %w", usecase.ErrConflict))
	if w := doJSON(r, http.MethodDelete, "/v1/vehicles/veh-2", "", ""); w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestVehicleHandler_UploadPhotos(t *testing.T) {
	t.Run("empty photo list", func(t *testing.T) {
		r, _, _ := newVehicleRouter(t)
		if w := doJSON(r, http.MethodPut, "/v1/vehicles/veh-1/photos/after", `{"photos":[]}`, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid label", func(t *testing.T) {
		r, vehicles, _ := newVehicleRouter(t)
		vehicles.EXPECT().UploadPhotos(gomock.Any(), "veh-1", "during", []string{"a.jpg"}).Return(entities.PhotoSet{}, usecase.ErrInvalidPhotoLabel)
		if w := doJSON(r, http.MethodPut, "/v1/vehicles/veh-1/photos/during", `{"photos":["a.jpg"]}`, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		r, vehicles, _ := newVehicleRouter(t)
		vehicles.EXPECT().UploadPhotos(gomock.Any(), "veh-1", "after", gomock.Any()).Return(entities.PhotoSet{}, fmt.Errorf("%w: %v", usecase.ErrPhotoSyncFailed, errors.New("denied")))
		if w := doJSON(r, http.MethodPut, "/v1/vehicles/veh-1/photos/after", `{"photos":["a.jpg"]}`, ""); w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("stored", func(t *testing.T) {
		r, vehicles, _ := newVehicleRouter(t)
		vehicles.EXPECT().UploadPhotos(gomock.Any(), "veh-1", "after", []string{"a.jpg", "b.jpg"}).Return(entities.PhotoSet{VehicleID: "veh-1", Label: "after", Photos: []string{"a.jpg", "b.jpg"}, Count: 2}, nil)
		w := doJSON(r, http.MethodPut, "/v1/vehicles/veh-1/photos/after", `{"photos":["a.jpg"," b.jpg "]}`, "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var res response.PhotoSetResponse
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || res.Count != 2 {
			t.Fatalf("unexpected body %s (%v)", w.Body.String(), err)
		}
	})
}

func TestVehicleHandler_ListPhotoSets(t *testing.T) {
	r, vehicles, _ := newVehicleRouter(t)
	vehicles.EXPECT().ListPhotoSets(gomock.Any(), "veh-1").Return([]entities.PhotoSet{{VehicleID: "veh-1", Label: "before"}}, nil)
	w := doJSON(r, http.MethodGet, "/v1/vehicles/veh-1/photos", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
