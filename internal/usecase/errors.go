package usecase

import (
	"errors"

	"partner_repairs/internal/domain/entities"
)

var (
	// ErrConflict is surfaced once the optimistic retry budget is exhausted.
	ErrConflict = errors.New("request already processed")

	ErrAlreadyAccepted        = errors.New("request already accepted")
	ErrRequestCancelled       = errors.New("request cancelled")
	ErrInvalidStateTransition = entities.ErrInvalidStateTransition

	ErrUnknownVariant   = entities.ErrUnknownVariant
	ErrVariantNotChosen = entities.ErrVariantNotChosen
	ErrQuoteMissing     = entities.ErrQuoteMissing

	// ErrResidualChildRecords is logged, never returned to callers.
	ErrResidualChildRecords = errors.New("residual child records after cascade sweep")
	ErrPhotoSyncFailed      = errors.New("photo sync failed")

	ErrRequestNotFound    = errors.New("request not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrInvalidRequestID   = errors.New("invalid request id")
	ErrInvalidVehicleID   = errors.New("invalid vehicle id")
	ErrInvalidTenantID    = errors.New("invalid tenant id")
	ErrInvalidRequestData = errors.New("invalid request data")
	ErrInvalidPhotoLabel  = errors.New("invalid photo label")
)
