package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/infrastructure/metrics"
	"partner_repairs/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	cascadeTriggerRequest = "request"
	cascadeTriggerVehicle = "vehicle"

	VehicleDeletedReason = "vehicle deleted"
)

// CancelResult describes what a cascade did. NoOp is set when the request
// was already cancelled or the vehicle was already gone.
type CancelResult struct {
	RequestID        string
	VehicleID        string
	NoOp             bool
	DeletedPhotoSets int
	SweepPasses      int
	Residual         bool
}

// ICancellationUseCase removes a vehicle and its PhotoSets when its request is
// cancelled, or when the vehicle is deleted directly.

type ICancellationUseCase interface {
	Cancel(ctx context.Context, requestID string, reason string) (CancelResult, error)
	DeleteVehicle(ctx context.Context, vehicleID string) (CancelResult, error)
}

// cascadePlan is the Phase-1 snapshot: what the atomic batch will delete and
// which request version it is guarded by.
type cascadePlan struct {
	noop            bool
	request         *entities.Request
	expectedVersion int64
	vehicleID       string
	snapshot        []entities.PhotoSet
}

func (p cascadePlan) labels() []string {
	limit := interfaces.MaxTransactItems - 2
	out := make([]string, 0, len(p.snapshot))
	for i, s := range p.snapshot {
		if i >= limit {
			// Anything past the item limit is left to the sweep.
			break
		}
		out = append(out, s.Label)
	}
	return out
}

type CancellationUseCase struct {
	requests    interfaces.IRequestRepository
	vehicles    interfaces.IVehicleRepository
	photoSets   interfaces.IPhotoSetRepository
	tx          interfaces.ITransactor
	photos      interfaces.IPhotoStorage
	metrics     *metrics.CoordinatorMetrics
	tracer      trace.Tracer
	maxAttempts int
	sweepPasses int
	now         func() time.Time
}

var _ ICancellationUseCase = (*CancellationUseCase)(nil)

type CancellationOption func(*CancellationUseCase)

func WithSweepPasses(n int) CancellationOption {
	return func(u *CancellationUseCase) {
		if n > 0 {
			u.sweepPasses = n
		}
	}
}

func WithCancelMaxAttempts(n int) CancellationOption {
	return func(u *CancellationUseCase) {
		if n > 0 {
			u.maxAttempts = n
		}
	}
}

func WithCancellationMetrics(m *metrics.CoordinatorMetrics) CancellationOption {
	return func(u *CancellationUseCase) { u.metrics = m }
}

func WithCancellationTracerProvider(tp trace.TracerProvider) CancellationOption {
	return func(u *CancellationUseCase) { u.tracer = tp.Tracer(tracerName) }
}

func WithCancellationClock(now func() time.Time) CancellationOption {
	return func(u *CancellationUseCase) { u.now = now }
}

func NewCancellationUseCase(
	requests interfaces.IRequestRepository,
	vehicles interfaces.IVehicleRepository,
	photoSets interfaces.IPhotoSetRepository,
	tx interfaces.ITransactor,
	photos interfaces.IPhotoStorage,
	opts ...CancellationOption,
) *CancellationUseCase {
	u := &CancellationUseCase{
		requests:    requests,
		vehicles:    vehicles,
		photoSets:   photoSets,
		tx:          tx,
		photos:      photos,
		tracer:      otel.Tracer(tracerName),
		maxAttempts: DefaultAcceptMaxAttempts,
		sweepPasses: DefaultSweepPasses,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *CancellationUseCase) Cancel(ctx context.Context, requestID string, reason string) (CancelResult, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return CancelResult{}, ErrInvalidRequestID
	}
	reason = strings.TrimSpace(reason)

	ctx, span := u.tracer.Start(ctx, "cascade.Cancel")
	defer span.End()
	span.SetAttributes(attribute.String("request.id", requestID))

	res, err := u.run(ctx, cascadeTriggerRequest, requestID, func() (cascadePlan, error) {
		return u.planFromRequest(ctx, requestID, reason)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func (u *CancellationUseCase) DeleteVehicle(ctx context.Context, vehicleID string) (CancelResult, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return CancelResult{}, ErrInvalidVehicleID
	}

	ctx, span := u.tracer.Start(ctx, "cascade.DeleteVehicle")
	defer span.End()
	span.SetAttributes(attribute.String("vehicle.id", vehicleID))

	res, err := u.run(ctx, cascadeTriggerVehicle, vehicleID, func() (cascadePlan, error) {
		return u.planFromVehicle(ctx, vehicleID)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

// run executes Phase 1 (snapshot + atomic batch, retried when the guarded
// request changed underneath) and then Phase 2 (verification sweep).
func (u *CancellationUseCase) run(ctx context.Context, trigger, key string, plan func() (cascadePlan, error)) (CancelResult, error) {
	var p cascadePlan
	err := withConflictRetry(ctx, u.maxAttempts,
		func(n int) {
			log.Printf("[cascade][usecase] phase1 conflict trigger=%s key=%s attempt=%d", trigger, key, n)
		},
		func(int) (bool, error) {
			var err error
			p, err = plan()
			if err != nil || p.noop {
				return false, err
			}
			return u.commitPhaseOne(ctx, p)
		},
	)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrConflict) {
			outcome = "conflict_exhausted"
		}
		u.metrics.Cancel(trigger, outcome)
		log.Printf("[cascade][usecase] phase1 failed trigger=%s key=%s err=%v", trigger, key, err)
		return CancelResult{}, err
	}

	res := CancelResult{VehicleID: p.vehicleID, NoOp: p.noop}
	if p.request != nil {
		res.RequestID = p.request.ID
	}
	if p.noop {
		u.metrics.Cancel(trigger, "noop")
		log.Printf("[cascade][usecase] no-op trigger=%s key=%s", trigger, key)
		return res, nil
	}

	log.Printf("[cascade][usecase] phase1 committed trigger=%s request_id=%s vehicle_id=%s photo_sets=%d", trigger, res.RequestID, res.VehicleID, len(p.labels()))
	res.DeletedPhotoSets = len(p.labels())
	u.deleteBinaries(ctx, p.snapshot[:len(p.labels())])

	if p.vehicleID != "" {
		swept, passes, residual := u.sweep(ctx, p.vehicleID)
		res.DeletedPhotoSets += swept
		res.SweepPasses = passes
		res.Residual = residual
	}
	u.metrics.Cancel(trigger, "cancelled")
	return res, nil
}

func (u *CancellationUseCase) planFromRequest(ctx context.Context, requestID, reason string) (cascadePlan, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return cascadePlan{}, fmt.Errorf("get request: %w", err)
	}
	if req.ID == "" {
		return cascadePlan{}, ErrRequestNotFound
	}
	if req.Status == entities.RequestStatusCancelled {
		return cascadePlan{noop: true, request: &req, vehicleID: req.VehicleID}, nil
	}

	cancelled := req
	if err := cancelled.Transition(entities.RequestStatusCancelled, u.now()); err != nil {
		return cascadePlan{}, err
	}
	cancelled.CancelReason = reason

	p := cascadePlan{request: &cancelled, expectedVersion: req.Version, vehicleID: req.VehicleID}
	if p.vehicleID != "" {
		if p.snapshot, err = u.photoSets.ListByVehicleID(ctx, p.vehicleID); err != nil {
			return cascadePlan{}, fmt.Errorf("list photo sets: %w", err)
		}
	}
	return p, nil
}

func (u *CancellationUseCase) planFromVehicle(ctx context.Context, vehicleID string) (cascadePlan, error) {
	v, err := u.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return cascadePlan{}, fmt.Errorf("get vehicle: %w", err)
	}
	if v.ID == "" {
		return cascadePlan{noop: true, vehicleID: vehicleID}, nil
	}

	p := cascadePlan{vehicleID: v.ID}
	if v.SourceRequestID != "" {
		req, err := u.requests.GetByID(ctx, v.SourceRequestID)
		if err != nil {
			return cascadePlan{}, fmt.Errorf("get request: %w", err)
		}
		if req.ID != "" && req.Status != entities.RequestStatusCancelled {
			cancelled := req
			if err := cancelled.Transition(entities.RequestStatusCancelled, u.now()); err == nil {
				cancelled.CancelReason = VehicleDeletedReason
				p.request = &cancelled
				p.expectedVersion = req.Version
			}
		}
	}
	if p.snapshot, err = u.photoSets.ListByVehicleID(ctx, v.ID); err != nil {
		return cascadePlan{}, fmt.Errorf("list photo sets: %w", err)
	}
	return p, nil
}

func (u *CancellationUseCase) commitPhaseOne(ctx context.Context, p cascadePlan) (bool, error) {
	err := u.tx.CommitCancellation(ctx, interfaces.CancellationWrite{
		Request:         p.request,
		ExpectedVersion: p.expectedVersion,
		VehicleID:       p.vehicleID,
		PhotoLabels:     p.labels(),
	})
	if errors.Is(err, interfaces.ErrWriteConflict) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("commit cancellation: %w", err)
	}
	return false, nil
}

// sweep re-enumerates the PhotoSets of a deleted vehicle and removes whatever
// landed after the Phase-1 snapshot, for at most u.sweepPasses passes.
func (u *CancellationUseCase) sweep(ctx context.Context, vehicleID string) (deleted, passes int, residual bool) {
	for passes = 1; passes <= u.sweepPasses; passes++ {
		left, err := u.photoSets.ListByVehicleID(ctx, vehicleID)
		if err != nil {
			log.Printf("[cascade][usecase] sweep list failed vehicle_id=%s pass=%d err=%v", vehicleID, passes, err)
			continue
		}
		if len(left) == 0 {
			u.metrics.Swept(deleted)
			return deleted, passes, false
		}

		labels := make([]string, 0, len(left))
		for _, s := range left {
			labels = append(labels, s.Label)
		}
		log.Printf("[cascade][usecase] sweep found leftovers vehicle_id=%s pass=%d labels=%v", vehicleID, passes, labels)
		if err := u.photoSets.DeleteMany(ctx, vehicleID, labels); err != nil {
			log.Printf("[cascade][usecase] sweep delete failed vehicle_id=%s pass=%d err=%v", vehicleID, passes, err)
			continue
		}
		deleted += len(labels)
		u.deleteBinaries(ctx, left)
	}
	passes = u.sweepPasses
	u.metrics.Swept(deleted)

	left, err := u.photoSets.ListByVehicleID(ctx, vehicleID)
	if err == nil && len(left) == 0 {
		return deleted, passes, false
	}
	u.metrics.Residual()
	log.Printf("[cascade][usecase] WARN %v vehicle_id=%s passes=%d remaining=%d err=%v", ErrResidualChildRecords, vehicleID, passes, len(left), err)
	return deleted, passes, true
}

func (u *CancellationUseCase) deleteBinaries(ctx context.Context, sets []entities.PhotoSet) {
	if u.photos == nil || len(sets) == 0 {
		return
	}
	var refs []string
	for _, s := range sets {
		refs = append(refs, s.Photos...)
	}
	if len(refs) == 0 {
		return
	}
	if err := u.photos.DeletePhotos(ctx, refs); err != nil {
		log.Printf("[cascade][usecase] photo delete failed refs=%d err=%v", len(refs), err)
	}
}
