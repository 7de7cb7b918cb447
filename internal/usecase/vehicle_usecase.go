package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"
)

// IVehicleUseCase covers reads and working-life updates of vehicles. Creation
// and deletion go through the acceptance and cancellation coordinators.

type IVehicleUseCase interface {
	GetByID(ctx context.Context, id string) (entities.Vehicle, error)
	ListActive(ctx context.Context, tenantID string) ([]entities.Vehicle, error)
	AdvanceStatus(ctx context.Context, id string, next entities.VehicleStatus) (entities.Vehicle, error)
	UploadPhotos(ctx context.Context, id, label string, refs []string) (entities.PhotoSet, error)
	ListPhotoSets(ctx context.Context, id string) ([]entities.PhotoSet, error)
}

type VehicleUseCase struct {
	vehicles  interfaces.IVehicleRepository
	requests  interfaces.IRequestRepository
	photoSets interfaces.IPhotoSetRepository
	photos    interfaces.IPhotoStorage
	now       func() time.Time
}

var _ IVehicleUseCase = (*VehicleUseCase)(nil)

func NewVehicleUseCase(
	vehicles interfaces.IVehicleRepository,
	requests interfaces.IRequestRepository,
	photoSets interfaces.IPhotoSetRepository,
	photos interfaces.IPhotoStorage,
) *VehicleUseCase {
	return &VehicleUseCase{
		vehicles:  vehicles,
		requests:  requests,
		photoSets: photoSets,
		photos:    photos,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *VehicleUseCase) GetByID(ctx context.Context, id string) (entities.Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Vehicle{}, ErrInvalidVehicleID
	}
	v, err := u.vehicles.GetByID(ctx, id)
	if err != nil {
		return entities.Vehicle{}, err
	}
	if v.ID == "" {
		return entities.Vehicle{}, ErrVehicleNotFound
	}
	return v, nil
}

// ListActive lists a tenant's vehicles, hiding any whose request was
// cancelled even if the cascade has not finished removing it yet.
func (u *VehicleUseCase) ListActive(ctx context.Context, tenantID string) ([]entities.Vehicle, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}

	vehicles, err := u.vehicles.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	if len(vehicles) == 0 {
		return []entities.Vehicle{}, nil
	}

	ids := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		if v.SourceRequestID != "" {
			ids = append(ids, v.SourceRequestID)
		}
	}
	requests, err := u.requests.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get source requests: %w", err)
	}

	active := FilterActiveVehicles(vehicles, requests)
	if hidden := len(vehicles) - len(active); hidden > 0 {
		log.Printf("[vehicle][usecase] consistency filter hid vehicles tenant_id=%s hidden=%d", tenantID, hidden)
	}
	return active, nil
}

// FilterActiveVehicles drops vehicles whose source request is cancelled or no
// longer resolvable. Order is preserved.
func FilterActiveVehicles(vehicles []entities.Vehicle, requestsByID map[string]entities.Request) []entities.Vehicle {
	out := make([]entities.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		req, ok := requestsByID[v.SourceRequestID]
		if !ok || req.Status == entities.RequestStatusCancelled {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (u *VehicleUseCase) AdvanceStatus(ctx context.Context, id string, next entities.VehicleStatus) (entities.Vehicle, error) {
	current, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Vehicle{}, err
	}
	if !current.Status.CanAdvanceTo(next) {
		return entities.Vehicle{}, ErrInvalidStateTransition
	}

	updated, err := u.vehicles.UpdateStatus(ctx, current.ID, current.Status, next)
	if err != nil {
		return entities.Vehicle{}, fmt.Errorf("update vehicle status: %w", err)
	}
	if updated.ID == "" {
		// Deleted or moved on by someone else since the read.
		after, err := u.vehicles.GetByID(ctx, current.ID)
		if err != nil {
			return entities.Vehicle{}, err
		}
		if after.ID == "" {
			return entities.Vehicle{}, ErrVehicleNotFound
		}
		return entities.Vehicle{}, ErrInvalidStateTransition
	}
	log.Printf("[vehicle][usecase] status advanced vehicle_id=%s from=%s to=%s", updated.ID, current.Status, updated.Status)
	return updated, nil
}

// UploadPhotos stores refs under a vehicle label, replacing any previous set
// with that label.
func (u *VehicleUseCase) UploadPhotos(ctx context.Context, id, label string, refs []string) (entities.PhotoSet, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label != entities.PhotoLabelBefore && label != entities.PhotoLabelAfter {
		return entities.PhotoSet{}, ErrInvalidPhotoLabel
	}
	if len(refs) == 0 {
		return entities.PhotoSet{}, ErrInvalidRequestData
	}
	v, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.PhotoSet{}, err
	}

	stored := refs
	if u.photos != nil {
		if stored, err = u.photos.CopyPhotos(ctx, v.ID, label, refs); err != nil {
			return entities.PhotoSet{}, fmt.Errorf("%w: %v", ErrPhotoSyncFailed, err)
		}
	}
	set := entities.NewPhotoSet(v.ID, label, stored, u.now())
	if err := u.photoSets.Put(ctx, set); err != nil {
		return entities.PhotoSet{}, fmt.Errorf("save photo set: %w", err)
	}

	// The vehicle may have been cascaded away while the copy ran.
	current, err := u.vehicles.GetByID(ctx, v.ID)
	if err != nil {
		return entities.PhotoSet{}, err
	}
	if current.ID == "" {
		log.Printf("[vehicle][usecase] vehicle gone after photo upload vehicle_id=%s label=%s", v.ID, label)
		if dErr := u.photoSets.DeleteMany(ctx, v.ID, []string{label}); dErr != nil {
			log.Printf("[vehicle][usecase] orphan photo set cleanup failed vehicle_id=%s err=%v", v.ID, dErr)
		}
		return entities.PhotoSet{}, ErrVehicleNotFound
	}
	log.Printf("[vehicle][usecase] photos uploaded vehicle_id=%s label=%s count=%d", v.ID, label, set.Count)
	return set, nil
}

func (u *VehicleUseCase) ListPhotoSets(ctx context.Context, id string) ([]entities.PhotoSet, error) {
	v, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.photoSets.ListByVehicleID(ctx, v.ID)
}
