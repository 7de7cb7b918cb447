package interfaces

import (
	"context"
	"partner_repairs/internal/domain/entities"
)

// IVehicleRepository abstracts DynamoDB persistence for Vehicle.
//
// Vehicles are only inserted and deleted through ITransactor; this repository
// covers reads and the follow-up updates of a vehicle's working life.

type IVehicleRepository interface {
	GetByID(ctx context.Context, id string) (entities.Vehicle, error)
	ListBySourceRequestID(ctx context.Context, requestID string) ([]entities.Vehicle, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entities.Vehicle, error)
	MarkPhotoSyncFailed(ctx context.Context, id string, reason string) (entities.Vehicle, error)
	UpdateStatus(ctx context.Context, id string, from, to entities.VehicleStatus) (entities.Vehicle, error)
}
