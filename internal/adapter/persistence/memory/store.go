// Package memory provides an in-process implementation of the persistence
// ports. It honours the same conditional-write semantics as the DynamoDB
// adapter (version-guarded transactions, all-or-nothing batches), which makes
// it usable for local runs and for the concurrency tests of the coordinators.
package memory

import (
	"context"
	"sort"
	"sync"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"
)

type state struct {
	requests  map[string]entities.Request
	vehicles  map[string]entities.Vehicle
	photoSets map[string]map[string]entities.PhotoSet // vehicle id -> label -> set
}

// Store keeps every collection behind one mutex so a transaction observes and
// mutates a consistent view.
type Store struct {
	mu sync.Mutex
	st state
}

func NewStore() *Store {
	return &Store{st: state{
		requests:  map[string]entities.Request{},
		vehicles:  map[string]entities.Vehicle{},
		photoSets: map[string]map[string]entities.PhotoSet{},
	}}
}

func (s *Store) Requests() *RequestRepository   { return &RequestRepository{s: s} }
func (s *Store) Vehicles() *VehicleRepository   { return &VehicleRepository{s: s} }
func (s *Store) PhotoSets() *PhotoSetRepository { return &PhotoSetRepository{s: s} }
func (s *Store) Transactor() *Transactor        { return &Transactor{s: s} }

// Transactor applies acceptance and cancellation batches atomically.
type Transactor struct {
	s *Store
}

var _ interfaces.ITransactor = (*Transactor)(nil)

func (t *Transactor) CommitAcceptance(ctx context.Context, w interfaces.AcceptanceWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	cur, ok := t.s.st.requests[w.Request.ID]
	if !ok || cur.Version != w.ExpectedVersion || cur.Status != entities.RequestStatusQuoteSent {
		return interfaces.ErrWriteConflict
	}
	if _, exists := t.s.st.vehicles[w.Vehicle.ID]; exists {
		return interfaces.ErrWriteConflict
	}

	req := cloneRequest(w.Request)
	req.Version = w.ExpectedVersion + 1
	t.s.st.requests[req.ID] = req
	t.s.st.vehicles[w.Vehicle.ID] = w.Vehicle
	return nil
}

func (t *Transactor) CommitCancellation(ctx context.Context, w interfaces.CancellationWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if w.Request != nil {
		cur, ok := t.s.st.requests[w.Request.ID]
		if !ok || cur.Version != w.ExpectedVersion {
			return interfaces.ErrWriteConflict
		}
		req := cloneRequest(*w.Request)
		req.Version = w.ExpectedVersion + 1
		t.s.st.requests[req.ID] = req
	}
	if w.VehicleID != "" {
		delete(t.s.st.vehicles, w.VehicleID)
		if sets, ok := t.s.st.photoSets[w.VehicleID]; ok {
			for _, label := range w.PhotoLabels {
				delete(sets, label)
			}
			if len(sets) == 0 {
				delete(t.s.st.photoSets, w.VehicleID)
			}
		}
	}
	return nil
}

func cloneRequest(r entities.Request) entities.Request {
	out := r
	if r.Quote != nil {
		q := entities.Quote{
			Variants:      make(map[entities.VariantKey]entities.Variant, len(r.Quote.Variants)),
			ChosenVariant: r.Quote.ChosenVariant,
		}
		for k, v := range r.Quote.Variants {
			items := make([]entities.LineItem, len(v.LineItems))
			copy(items, v.LineItems)
			q.Variants[k] = entities.Variant{LineItems: items, Total: v.Total}
		}
		out.Quote = &q
	}
	if r.Photos != nil {
		out.Photos = append([]string(nil), r.Photos...)
	}
	if r.AcceptedAt != nil {
		at := *r.AcceptedAt
		out.AcceptedAt = &at
	}
	if r.CancelledAt != nil {
		at := *r.CancelledAt
		out.CancelledAt = &at
	}
	return out
}

func clonePhotoSet(p entities.PhotoSet) entities.PhotoSet {
	p.Photos = append([]string(nil), p.Photos...)
	return p
}

func sortedVehicles(in []entities.Vehicle) []entities.Vehicle {
	sort.Slice(in, func(i, j int) bool { return in[i].CreatedAt.Before(in[j].CreatedAt) })
	return in
}
