package handlers

import (
	"errors"
	"log"
	"net/http"

	request "partner_repairs/internal/adapter/http/dto/request"
	response "partner_repairs/internal/adapter/http/dto/response"
	"partner_repairs/internal/usecase"
	"partner_repairs/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidVehiclePayload = pkg.NewDomainErrorSimple("INVALID_VEHICLE_INPUT", "Invalid vehicle payload", http.StatusBadRequest)
	errVehicleNotFound       = pkg.NewDomainErrorSimple("VEHICLE_NOT_FOUND", "Vehicle not found", http.StatusNotFound)
)

// VehicleHandler handles HTTP requests for vehicles and their photo sets.

type VehicleHandler struct {
	vehicles usecase.IVehicleUseCase
	cancel   usecase.ICancellationUseCase
}

func NewVehicleHandler(vehicles usecase.IVehicleUseCase, cancel usecase.ICancellationUseCase) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, cancel: cancel}
}

// ListActiveVehicles returns the tenant's vehicles whose source request is
// not cancelled.
//
// @Summary      List active vehicles
// @Tags         vehicles
// @Produce      json
// @Param        X-Tenant-ID  header    string  true  "Partner tenant"
// @Success      200          {array}   response.VehicleResponse
// @Failure      400          {object}  pkg.HTTPError
// @Router       /vehicles [get]
func (h *VehicleHandler) ListActiveVehicles(c *gin.Context) {
	tenant, ok := requireTenant(c)
	if !ok {
		return
	}
	list, err := h.vehicles.ListActive(c.Request.Context(), tenant)
	if err != nil {
		writeAppError(c, mapVehicleError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromVehicles(list))
}

// @Summary      Get a vehicle
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.VehicleResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	v, err := h.vehicles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, mapVehicleError(err))
		return
	}
	if !visibleTo(c, v.TenantID) {
		writeAppError(c, errVehicleNotFound)
		return
	}
	c.JSON(http.StatusOK, response.FromVehicle(v))
}

// @Summary      Advance the vehicle to its next status
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id      path      string                               true  "Vehicle ID"
// @Param        status  body      request.AdvanceVehicleStatusRequest  true  "Next status"
// @Success      200     {object}  response.VehicleResponse
// @Failure      422     {object}  pkg.HTTPError
// @Router       /vehicles/{id}/status [patch]
func (h *VehicleHandler) AdvanceStatus(c *gin.Context) {
	var payload request.AdvanceVehicleStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidVehiclePayload)
		return
	}

	v, err := h.vehicles.AdvanceStatus(c.Request.Context(), c.Param("id"), payload.Next())
	if err != nil {
		writeAppError(c, mapVehicleError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromVehicle(v))
}

// DeleteVehicle runs the same cascade as a request cancellation, starting
// from the vehicle.
//
// @Summary      Delete a vehicle and cancel its request
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.CancelResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /vehicles/{id} [delete]
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	vehicleID := c.Param("id")
	log.Printf("[cancellation][handler] delete vehicle start vehicle_id=%s", vehicleID)

	res, err := h.cancel.DeleteVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		log.Printf("[cancellation][handler] delete vehicle failed vehicle_id=%s err=%v", vehicleID, err)
		writeAppError(c, mapVehicleError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromCancelResult(res))
}

// @Summary      Store a labelled photo set
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id      path      string                       true  "Vehicle ID"
// @Param        label   path      string                       true  "before or after"
// @Param        photos  body      request.UploadPhotosRequest  true  "Photo references"
// @Success      200     {object}  response.PhotoSetResponse
// @Failure      400     {object}  pkg.HTTPError
// @Failure      502     {object}  pkg.HTTPError
// @Router       /vehicles/{id}/photos/{label} [put]
func (h *VehicleHandler) UploadPhotos(c *gin.Context) {
	var payload request.UploadPhotosRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidVehiclePayload)
		return
	}

	set, err := h.vehicles.UploadPhotos(c.Request.Context(), c.Param("id"), c.Param("label"), payload.Refs())
	if err != nil {
		writeAppError(c, mapVehicleError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPhotoSet(set))
}

// @Summary      List a vehicle's photo sets
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {array}   response.PhotoSetResponse
// @Router       /vehicles/{id}/photos [get]
func (h *VehicleHandler) ListPhotoSets(c *gin.Context) {
	sets, err := h.vehicles.ListPhotoSets(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, mapVehicleError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPhotoSets(sets))
}

func mapVehicleError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidVehicleID), errors.Is(err, usecase.ErrInvalidTenantID), errors.Is(err, usecase.ErrInvalidRequestData):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidPhotoLabel):
		return pkg.NewDomainErrorSimple("INVALID_PHOTO_LABEL", "Photo label must be before or after", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrVehicleNotFound):
		return errVehicleNotFound
	case errors.Is(err, usecase.ErrInvalidStateTransition):
		return pkg.NewDomainErrorSimple("INVALID_STATE_TRANSITION", "Invalid state transition", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrConflict):
		return pkg.NewDomainErrorSimple("VEHICLE_CONFLICT", "Vehicle changed concurrently, retry later", http.StatusConflict)
	case errors.Is(err, usecase.ErrPhotoSyncFailed):
		return pkg.NewDomainError("PHOTO_SYNC_FAILED", "Photos could not be stored", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
