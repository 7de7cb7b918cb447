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

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "partner_repairs/usecase"

// AcceptResult carries the vehicle created by Accept. When Accept returns
// ErrAlreadyAccepted, VehicleID is the vehicle created by the winning call.
type AcceptResult struct {
	VehicleID string
}

// IAcceptanceUseCase turns an accepted quote into exactly one vehicle.

type IAcceptanceUseCase interface {
	Accept(ctx context.Context, requestID string) (AcceptResult, error)
}

type acceptOutcomeKind int

const (
	acceptCommitted acceptOutcomeKind = iota
	acceptConflict
	acceptAlreadyAccepted
	acceptCancelled
	acceptInvalidState
)

func (k acceptOutcomeKind) String() string {
	switch k {
	case acceptCommitted:
		return "committed"
	case acceptConflict:
		return "conflict"
	case acceptAlreadyAccepted:
		return "already_accepted"
	case acceptCancelled:
		return "cancelled"
	default:
		return "invalid_state"
	}
}

type acceptOutcome struct {
	kind    acceptOutcomeKind
	request entities.Request
	vehicle entities.Vehicle
}

type AcceptanceUseCase struct {
	requests    interfaces.IRequestRepository
	vehicles    interfaces.IVehicleRepository
	photoSets   interfaces.IPhotoSetRepository
	tx          interfaces.ITransactor
	photos      interfaces.IPhotoStorage
	metrics     *metrics.CoordinatorMetrics
	tracer      trace.Tracer
	maxAttempts int
	now         func() time.Time
	newID       func() string
}

var _ IAcceptanceUseCase = (*AcceptanceUseCase)(nil)

type AcceptanceOption func(*AcceptanceUseCase)

func WithAcceptMaxAttempts(n int) AcceptanceOption {
	return func(u *AcceptanceUseCase) {
		if n > 0 {
			u.maxAttempts = n
		}
	}
}

func WithAcceptanceMetrics(m *metrics.CoordinatorMetrics) AcceptanceOption {
	return func(u *AcceptanceUseCase) { u.metrics = m }
}

func WithAcceptanceTracerProvider(tp trace.TracerProvider) AcceptanceOption {
	return func(u *AcceptanceUseCase) { u.tracer = tp.Tracer(tracerName) }
}

func WithAcceptanceClock(now func() time.Time) AcceptanceOption {
	return func(u *AcceptanceUseCase) { u.now = now }
}

func WithVehicleIDGenerator(gen func() string) AcceptanceOption {
	return func(u *AcceptanceUseCase) { u.newID = gen }
}

// NewAcceptanceUseCase wires the coordinator. photos may be nil, in which case
// no photos are copied after acceptance.
func NewAcceptanceUseCase(
	requests interfaces.IRequestRepository,
	vehicles interfaces.IVehicleRepository,
	photoSets interfaces.IPhotoSetRepository,
	tx interfaces.ITransactor,
	photos interfaces.IPhotoStorage,
	opts ...AcceptanceOption,
) *AcceptanceUseCase {
	u := &AcceptanceUseCase{
		requests:    requests,
		vehicles:    vehicles,
		photoSets:   photoSets,
		tx:          tx,
		photos:      photos,
		tracer:      otel.Tracer(tracerName),
		maxAttempts: DefaultAcceptMaxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *AcceptanceUseCase) Accept(ctx context.Context, requestID string) (AcceptResult, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return AcceptResult{}, ErrInvalidRequestID
	}

	ctx, span := u.tracer.Start(ctx, "acceptance.Accept")
	defer span.End()
	span.SetAttributes(attribute.String("request.id", requestID))

	var last acceptOutcome
	err := withConflictRetry(ctx, u.maxAttempts,
		func(n int) {
			u.metrics.Conflict()
			log.Printf("[acceptance][usecase] write conflict request_id=%s attempt=%d max=%d", requestID, n, u.maxAttempts)
		},
		func(n int) (bool, error) {
			out, err := u.attempt(ctx, requestID)
			if err != nil {
				return false, err
			}
			last = out
			return out.kind == acceptConflict, nil
		},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrConflict) {
			u.metrics.Accept("conflict_exhausted")
			log.Printf("[acceptance][usecase] retry budget exhausted request_id=%s", requestID)
		}
		return AcceptResult{}, err
	}

	u.metrics.Accept(last.kind.String())
	switch last.kind {
	case acceptAlreadyAccepted:
		log.Printf("[acceptance][usecase] already accepted request_id=%s vehicle_id=%s", requestID, last.request.VehicleID)
		return AcceptResult{VehicleID: last.request.VehicleID}, ErrAlreadyAccepted
	case acceptCancelled:
		return AcceptResult{}, ErrRequestCancelled
	case acceptInvalidState:
		log.Printf("[acceptance][usecase] invalid state request_id=%s status=%s", requestID, last.request.Status)
		return AcceptResult{}, ErrInvalidStateTransition
	}

	span.SetAttributes(attribute.String("vehicle.id", last.vehicle.ID))
	log.Printf("[acceptance][usecase] commit success request_id=%s vehicle_id=%s agreed_price=%s", requestID, last.vehicle.ID, last.vehicle.AgreedPrice.String())

	// Outside the transaction: the acceptance stands whatever happens here.
	u.syncPhotos(ctx, last.request, last.vehicle)

	return AcceptResult{VehicleID: last.vehicle.ID}, nil
}

// attempt is one pass of the acceptance transaction. It re-reads the request,
// decides the outcome from its status and, when the request is still
// quote_sent, commits vehicle + request in one conditional write.
func (u *AcceptanceUseCase) attempt(ctx context.Context, requestID string) (acceptOutcome, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return acceptOutcome{}, fmt.Errorf("get request: %w", err)
	}
	if req.ID == "" {
		return acceptOutcome{}, ErrRequestNotFound
	}

	switch req.Status {
	case entities.RequestStatusAccepted:
		return acceptOutcome{kind: acceptAlreadyAccepted, request: req}, nil
	case entities.RequestStatusCancelled:
		return acceptOutcome{kind: acceptCancelled, request: req}, nil
	case entities.RequestStatusQuoteSent:
	default:
		return acceptOutcome{kind: acceptInvalidState, request: req}, nil
	}

	now := u.now()
	vehicle, err := entities.NewVehicleFromRequest(u.newID(), req, now)
	if err != nil {
		return acceptOutcome{}, err
	}

	expected := req.Version
	accepted := req
	if err := accepted.Transition(entities.RequestStatusAccepted, now); err != nil {
		return acceptOutcome{kind: acceptInvalidState, request: req}, nil
	}
	accepted.VehicleID = vehicle.ID

	err = u.tx.CommitAcceptance(ctx, interfaces.AcceptanceWrite{
		Request:         accepted,
		ExpectedVersion: expected,
		Vehicle:         vehicle,
	})
	if errors.Is(err, interfaces.ErrWriteConflict) {
		return acceptOutcome{kind: acceptConflict, request: req}, nil
	}
	if err != nil {
		return acceptOutcome{}, fmt.Errorf("commit acceptance: %w", err)
	}
	accepted.Version = expected + 1
	return acceptOutcome{kind: acceptCommitted, request: accepted, vehicle: vehicle}, nil
}

// syncPhotos copies the request's photos into the vehicle's "before" set.
// Failures are recorded on the vehicle and never reverse the acceptance.
func (u *AcceptanceUseCase) syncPhotos(ctx context.Context, req entities.Request, vehicle entities.Vehicle) {
	if len(req.Photos) == 0 || u.photos == nil {
		return
	}

	err := u.copyPhotos(ctx, req, vehicle)
	if err == nil {
		return
	}

	u.metrics.PhotoSyncFailure()
	log.Printf("[acceptance][usecase] photo sync failed request_id=%s vehicle_id=%s err=%v", req.ID, vehicle.ID, err)
	if _, mErr := u.vehicles.MarkPhotoSyncFailed(ctx, vehicle.ID, err.Error()); mErr != nil {
		log.Printf("[acceptance][usecase] mark photo sync failed error vehicle_id=%s err=%v", vehicle.ID, mErr)
	}
}

func (u *AcceptanceUseCase) copyPhotos(ctx context.Context, req entities.Request, vehicle entities.Vehicle) error {
	refs, err := u.photos.CopyPhotos(ctx, vehicle.ID, entities.PhotoLabelBefore, req.Photos)
	if err != nil {
		return fmt.Errorf("%w: copy: %v", ErrPhotoSyncFailed, err)
	}
	set := entities.NewPhotoSet(vehicle.ID, entities.PhotoLabelBefore, refs, u.now())
	if err := u.photoSets.Put(ctx, set); err != nil {
		return fmt.Errorf("%w: save photo set: %v", ErrPhotoSyncFailed, err)
	}

	// A cascade may have removed the vehicle while the copy ran; do not leave
	// the set behind it.
	current, err := u.vehicles.GetByID(ctx, vehicle.ID)
	if err == nil && current.ID == "" {
		log.Printf("[acceptance][usecase] vehicle gone after photo sync vehicle_id=%s", vehicle.ID)
		if dErr := u.photoSets.DeleteMany(ctx, vehicle.ID, []string{set.Label}); dErr != nil {
			log.Printf("[acceptance][usecase] orphan photo set cleanup failed vehicle_id=%s err=%v", vehicle.ID, dErr)
		}
		return nil
	}
	log.Printf("[acceptance][usecase] photos synced vehicle_id=%s count=%d", vehicle.ID, set.Count)
	return nil
}
