package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	response "partner_repairs/internal/adapter/http/dto/response"
	"partner_repairs/internal/adapter/http/handlers"
	"partner_repairs/internal/adapter/persistence/memory"
	"partner_repairs/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mem := memory.NewStore()
	cfg := config.Config{Coordinator: config.Coordinator{AcceptMaxAttempts: 4, SweepPasses: 2}}
	s := stores{requests: mem.Requests(), vehicles: mem.Vehicles(), photoSets: mem.PhotoSets(), tx: mem.Transactor()}
	return setupRouter(cfg, s, prometheus.NewRegistry())
}

func call(t *testing.T, r *gin.Engine, method, path, body string, out any) int {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(handlers.HeaderTenantID, "tenant-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w.Code
}

func TestRoutes_Ping(t *testing.T) {
	r := newTestRouter(t)
	if code := call(t, r, http.MethodGet, "/v1/ping", "", nil); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRoutes_AcceptThenCancelLifecycle(t *testing.T) {
	r := newTestRouter(t)

	var created response.RepairRequestResponse
	if code := call(t, r, http.MethodPost, "/v1/requests", `{"license_plate":"abc1234","customer_name":"Ana","service_type":"paint"}`, &created); code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", code)
	}
	base := "/v1/requests/" + created.ID

	quote := `{"variants":{"original":{"total":"2500.00"},"aftermarket":{"total":"1800.00"},"used":{"total":"1200.00"}}}`
	if code := call(t, r, http.MethodPut, base+"/quote", quote, nil); code != http.StatusOK {
		t.Fatalf("send quote: expected 200, got %d", code)
	}
	if code := call(t, r, http.MethodPost, base+"/accept", "", nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("accept without variant: expected 422, got %d", code)
	}
	if code := call(t, r, http.MethodPatch, base+"/quote/variant", `{"variant":"aftermarket"}`, nil); code != http.StatusOK {
		t.Fatalf("select variant: expected 200, got %d", code)
	}

	var accepted response.AcceptResponse
	if code := call(t, r, http.MethodPost, base+"/accept", "", &accepted); code != http.StatusCreated {
		t.Fatalf("accept: expected 201, got %d", code)
	}
	if code := call(t, r, http.MethodPost, base+"/accept", "", nil); code != http.StatusConflict {
		t.Fatalf("second accept: expected 409, got %d", code)
	}

	var vehicles []response.VehicleResponse
	call(t, r, http.MethodGet, "/v1/vehicles", "", &vehicles)
	if len(vehicles) != 1 || vehicles[0].ID != accepted.VehicleID || vehicles[0].AgreedPrice != "1800.00" {
		t.Fatalf("unexpected vehicles after accept: %+v", vehicles)
	}

	vehiclePath := "/v1/vehicles/" + accepted.VehicleID
	if code := call(t, r, http.MethodPatch, vehiclePath+"/status", `{"status":"in_progress"}`, nil); code != http.StatusOK {
		t.Fatalf("advance: expected 200, got %d", code)
	}
	if code := call(t, r, http.MethodPut, vehiclePath+"/photos/after", `{"photos":["after/1.jpg"]}`, nil); code != http.StatusOK {
		t.Fatalf("upload photos: expected 200, got %d", code)
	}

	var cancelled response.CancelResponse
	if code := call(t, r, http.MethodPost, base+"/cancel", `{"reason":"customer withdrew"}`, &cancelled); code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d", code)
	}
	if cancelled.VehicleID != accepted.VehicleID || cancelled.DeletedPhotoSets != 1 {
		t.Fatalf("unexpected cancel response: %+v", cancelled)
	}

	vehicles = nil
	call(t, r, http.MethodGet, "/v1/vehicles", "", &vehicles)
	if len(vehicles) != 0 {
		t.Fatalf("expected no active vehicles, got %+v", vehicles)
	}
	if code := call(t, r, http.MethodGet, vehiclePath, "", nil); code != http.StatusNotFound {
		t.Fatalf("expected vehicle gone, got %d", code)
	}

	var after response.RepairRequestResponse
	call(t, r, http.MethodGet, base, "", &after)
	if after.Status != "cancelled" || after.CancelReason != "customer withdrew" {
		t.Fatalf("unexpected request after cancel: %+v", after)
	}

	if code := call(t, r, http.MethodPost, base+"/cancel", "", &cancelled); code != http.StatusOK || !cancelled.AlreadyDone {
		t.Fatalf("repeat cancel: expected no-op, got %d %+v", code, cancelled)
	}
}

func TestRoutes_MetricsExposeCoordinatorCounters(t *testing.T) {
	r := newTestRouter(t)
	call(t, r, http.MethodGet, "/v1/ping", "", nil)

	req := httptest.NewRequest(http.MethodGet, PathMetrics, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("expected http request counter in metrics output")
	}
}
