package interfaces

import (
	"context"
)

// IPhotoStorage abstracts binary photo storage (e.g. S3).
//
// The core only needs to copy a request's photos under a vehicle and to drop
// photos whose PhotoSet record was deleted.
type IPhotoStorage interface {
	CopyPhotos(ctx context.Context, vehicleID, label string, refs []string) ([]string, error)
	DeletePhotos(ctx context.Context, refs []string) error
}
