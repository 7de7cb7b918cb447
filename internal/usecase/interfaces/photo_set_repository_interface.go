package interfaces

import (
	"context"
	"partner_repairs/internal/domain/entities"
)

// IPhotoSetRepository abstracts the PhotoSet child records of a vehicle.
//
// Writes here are never transactional, so a Put may land between a cascade's
// snapshot and its commit.

type IPhotoSetRepository interface {
	Put(ctx context.Context, p entities.PhotoSet) error
	ListByVehicleID(ctx context.Context, vehicleID string) ([]entities.PhotoSet, error)
	DeleteMany(ctx context.Context, vehicleID string, labels []string) error
}
