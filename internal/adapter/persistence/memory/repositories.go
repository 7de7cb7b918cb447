package memory

import (
	"context"
	"sort"
	"time"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"
)

type RequestRepository struct {
	s *Store
}

var _ interfaces.IRequestRepository = (*RequestRepository)(nil)

func (r *RequestRepository) Create(_ context.Context, req entities.Request) (entities.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.requests[req.ID]; ok {
		return entities.Request{}, nil
	}
	r.s.st.requests[req.ID] = cloneRequest(req)
	return cloneRequest(req), nil
}

func (r *RequestRepository) GetByID(_ context.Context, id string) (entities.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.st.requests[id]
	if !ok {
		return entities.Request{}, nil
	}
	return cloneRequest(req), nil
}

func (r *RequestRepository) GetByIDs(_ context.Context, ids []string) (map[string]entities.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]entities.Request, len(ids))
	for _, id := range ids {
		if req, ok := r.s.st.requests[id]; ok {
			out[id] = cloneRequest(req)
		}
	}
	return out, nil
}

func (r *RequestRepository) ListByTenant(_ context.Context, tenantID string) ([]entities.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entities.Request{}
	for _, req := range r.s.st.requests {
		if req.TenantID == tenantID {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *RequestRepository) UpdateQuote(_ context.Context, id string, quote entities.Quote, from []entities.RequestStatus, to entities.RequestStatus) (entities.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.st.requests[id]
	if !ok || !statusIn(req.Status, from) {
		return entities.Request{}, nil
	}
	req.Quote = &quote
	req.Status = to
	req.Version++
	req.UpdatedAt = time.Now().UTC()
	req = cloneRequest(req)
	r.s.st.requests[id] = req
	return cloneRequest(req), nil
}

func (r *RequestRepository) SelectVariant(_ context.Context, id string, key entities.VariantKey) (entities.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.st.requests[id]
	if !ok || req.Status != entities.RequestStatusQuoteSent || req.Quote == nil {
		return entities.Request{}, nil
	}
	if _, ok := req.Quote.Variants[key]; !ok {
		return entities.Request{}, nil
	}
	req = cloneRequest(req)
	req.Quote.ChosenVariant = key
	req.Version++
	req.UpdatedAt = time.Now().UTC()
	r.s.st.requests[id] = req
	return cloneRequest(req), nil
}

func statusIn(s entities.RequestStatus, set []entities.RequestStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

type VehicleRepository struct {
	s *Store
}

var _ interfaces.IVehicleRepository = (*VehicleRepository)(nil)

func (r *VehicleRepository) GetByID(_ context.Context, id string) (entities.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.st.vehicles[id], nil
}

func (r *VehicleRepository) ListBySourceRequestID(_ context.Context, requestID string) ([]entities.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entities.Vehicle{}
	for _, v := range r.s.st.vehicles {
		if v.SourceRequestID == requestID {
			out = append(out, v)
		}
	}
	return sortedVehicles(out), nil
}

func (r *VehicleRepository) ListByTenant(_ context.Context, tenantID string) ([]entities.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entities.Vehicle{}
	for _, v := range r.s.st.vehicles {
		if v.TenantID == tenantID {
			out = append(out, v)
		}
	}
	return sortedVehicles(out), nil
}

func (r *VehicleRepository) MarkPhotoSyncFailed(_ context.Context, id string, reason string) (entities.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.st.vehicles[id]
	if !ok {
		return entities.Vehicle{}, nil
	}
	v.PhotoSyncFailed = true
	v.PhotoSyncError = reason
	v.UpdatedAt = time.Now().UTC()
	r.s.st.vehicles[id] = v
	return v, nil
}

func (r *VehicleRepository) UpdateStatus(_ context.Context, id string, from, to entities.VehicleStatus) (entities.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.st.vehicles[id]
	if !ok || v.Status != from {
		return entities.Vehicle{}, nil
	}
	v.Status = to
	v.UpdatedAt = time.Now().UTC()
	r.s.st.vehicles[id] = v
	return v, nil
}

type PhotoSetRepository struct {
	s *Store
}

var _ interfaces.IPhotoSetRepository = (*PhotoSetRepository)(nil)

// Put does not check that the vehicle exists, matching a child-collection
// write in a document store.
func (r *PhotoSetRepository) Put(_ context.Context, p entities.PhotoSet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sets, ok := r.s.st.photoSets[p.VehicleID]
	if !ok {
		sets = map[string]entities.PhotoSet{}
		r.s.st.photoSets[p.VehicleID] = sets
	}
	sets[p.Label] = clonePhotoSet(p)
	return nil
}

func (r *PhotoSetRepository) ListByVehicleID(_ context.Context, vehicleID string) ([]entities.PhotoSet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entities.PhotoSet{}
	for _, p := range r.s.st.photoSets[vehicleID] {
		out = append(out, clonePhotoSet(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *PhotoSetRepository) DeleteMany(_ context.Context, vehicleID string, labels []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sets, ok := r.s.st.photoSets[vehicleID]
	if !ok {
		return nil
	}
	for _, l := range labels {
		delete(sets, l)
	}
	if len(sets) == 0 {
		delete(r.s.st.photoSets, vehicleID)
	}
	return nil
}
