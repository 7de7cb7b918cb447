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
	errInvalidRequestPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST_INPUT", "Invalid request payload", http.StatusBadRequest)
	errInvalidQuotePayload   = pkg.NewDomainErrorSimple("INVALID_QUOTE_INPUT", "Invalid quote payload", http.StatusBadRequest)
	errRequestNotFound       = pkg.NewDomainErrorSimple("REQUEST_NOT_FOUND", "Request not found", http.StatusNotFound)
)

// RepairRequestHandler serves the partner request lifecycle: intake, quote
// hand-off, variant selection, acceptance and cancellation.

type RepairRequestHandler struct {
	requests   usecase.IRequestUseCase
	quotes     usecase.IQuoteUseCase
	acceptance usecase.IAcceptanceUseCase
	cancel     usecase.ICancellationUseCase
}

func NewRepairRequestHandler(
	requests usecase.IRequestUseCase,
	quotes usecase.IQuoteUseCase,
	acceptance usecase.IAcceptanceUseCase,
	cancel usecase.ICancellationUseCase,
) *RepairRequestHandler {
	return &RepairRequestHandler{requests: requests, quotes: quotes, acceptance: acceptance, cancel: cancel}
}

// @Summary      Create a repair request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID  header    string                        true  "Partner tenant"
// @Param        request      body      request.CreateRepairRequest  true  "Request data"
// @Success      201          {object}  response.RepairRequestResponse
// @Failure      400          {object}  pkg.HTTPError
// @Router       /requests [post]
func (h *RepairRequestHandler) CreateRequest(c *gin.Context) {
	tenant, ok := requireTenant(c)
	if !ok {
		return
	}
	var payload request.CreateRepairRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidRequestPayload)
		return
	}

	created, err := h.requests.CreateRequest(c.Request.Context(), payload.ToInput(tenant))
	if err != nil {
		log.Printf("[request][handler] create failed tenant_id=%s err=%v", tenant, err)
		writeAppError(c, mapRepairRequestError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromRequest(created))
}

// @Summary      List the tenant's repair requests
// @Tags         requests
// @Produce      json
// @Param        X-Tenant-ID  header    string  true  "Partner tenant"
// @Success      200          {array}   response.RepairRequestResponse
// @Failure      400          {object}  pkg.HTTPError
// @Router       /requests [get]
func (h *RepairRequestHandler) ListRequests(c *gin.Context) {
	tenant, ok := requireTenant(c)
	if !ok {
		return
	}
	list, err := h.requests.ListByTenant(c.Request.Context(), tenant)
	if err != nil {
		writeAppError(c, mapRepairRequestError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromRequests(list))
}

// @Summary      Get a repair request
// @Tags         requests
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.RepairRequestResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /requests/{id} [get]
func (h *RepairRequestHandler) GetRequest(c *gin.Context) {
	r, err := h.requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, mapRepairRequestError(err))
		return
	}
	if !visibleTo(c, r.TenantID) {
		writeAppError(c, errRequestNotFound)
		return
	}
	c.JSON(http.StatusOK, response.FromRequest(r))
}

// SendQuote stores the quote built elsewhere and moves the request to
// quote_sent.
//
// @Summary      Send a quote
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id     path      string                    true  "Request ID"
// @Param        quote  body      request.SendQuoteRequest  true  "Quote variants"
// @Success      200    {object}  response.RepairRequestResponse
// @Failure      400    {object}  pkg.HTTPError
// @Failure      422    {object}  pkg.HTTPError
// @Router       /requests/{id}/quote [put]
func (h *RepairRequestHandler) SendQuote(c *gin.Context) {
	var payload request.SendQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidQuotePayload)
		return
	}
	quote, err := payload.ToQuote()
	if err != nil {
		writeAppError(c, errInvalidQuotePayload)
		return
	}

	updated, err := h.quotes.SendQuote(c.Request.Context(), c.Param("id"), quote)
	if err != nil {
		writeAppError(c, mapRepairRequestError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromRequest(updated))
}

// @Summary      Choose a quote variant
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Request ID"
// @Param        variant  body      request.SelectVariantRequest  true  "Variant"
// @Success      200      {object}  response.RepairRequestResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      422      {object}  pkg.HTTPError
// @Router       /requests/{id}/quote/variant [patch]
func (h *RepairRequestHandler) SelectVariant(c *gin.Context) {
	var payload request.SelectVariantRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidQuotePayload)
		return
	}

	updated, err := h.quotes.SelectVariant(c.Request.Context(), c.Param("id"), payload.Key())
	if err != nil {
		writeAppError(c, mapRepairRequestError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromRequest(updated))
}

// AcceptRequest creates the vehicle for the chosen variant. A repeated accept
// answers 409 whether or not it raced the first one.
//
// @Summary      Accept a quoted request
// @Tags         requests
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      201  {object}  response.AcceptResponse
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /requests/{id}/accept [post]
func (h *RepairRequestHandler) AcceptRequest(c *gin.Context) {
	requestID := c.Param("id")
	log.Printf("[acceptance][handler] accept start request_id=%s", requestID)

	res, err := h.acceptance.Accept(c.Request.Context(), requestID)
	if err != nil {
		log.Printf("[acceptance][handler] accept failed request_id=%s err=%v", requestID, err)
		writeAppError(c, mapRepairRequestError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromAcceptResult(requestID, res))
}

// @Summary      Cancel a request and its vehicle
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id      path      string                 true   "Request ID"
// @Param        reason  body      request.CancelRequest  false  "Cancel reason"
// @Success      200     {object}  response.CancelResponse
// @Failure      409     {object}  pkg.HTTPError
// @Router       /requests/{id}/cancel [post]
func (h *RepairRequestHandler) CancelRequest(c *gin.Context) {
	var payload request.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			writeAppError(c, errInvalidRequestPayload)
			return
		}
	}
	requestID := c.Param("id")

	res, err := h.cancel.Cancel(c.Request.Context(), requestID, payload.ResolveReason())
	if err != nil {
		log.Printf("[cancellation][handler] cancel failed request_id=%s err=%v", requestID, err)
		writeAppError(c, mapRepairRequestError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromCancelResult(res))
}

func mapRepairRequestError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequestID), errors.Is(err, usecase.ErrInvalidRequestData), errors.Is(err, usecase.ErrInvalidTenantID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnknownVariant):
		return pkg.NewDomainErrorSimple("UNKNOWN_VARIANT", "Variant is not part of the quote", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return errRequestNotFound
	case errors.Is(err, usecase.ErrAlreadyAccepted):
		return pkg.NewDomainErrorSimple("REQUEST_ALREADY_ACCEPTED", "Request already accepted", http.StatusConflict)
	case errors.Is(err, usecase.ErrRequestCancelled):
		return pkg.NewDomainErrorSimple("REQUEST_CANCELLED", "Request cancelled", http.StatusConflict)
	case errors.Is(err, usecase.ErrConflict):
		return pkg.NewDomainErrorSimple("REQUEST_CONFLICT", "Request already processed, retry later", http.StatusConflict)
	case errors.Is(err, usecase.ErrVariantNotChosen), errors.Is(err, usecase.ErrQuoteMissing):
		return pkg.NewDomainErrorSimple("VARIANT_NOT_CHOSEN", "A quote variant must be chosen first", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInvalidStateTransition):
		return pkg.NewDomainErrorSimple("INVALID_STATE_TRANSITION", "Invalid state transition", http.StatusUnprocessableEntity)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
