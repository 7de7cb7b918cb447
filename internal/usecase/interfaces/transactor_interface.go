package interfaces

import (
	"context"
	"errors"
	"partner_repairs/internal/domain/entities"
)

// ErrWriteConflict is returned when a transactional write lost an optimistic
// race: the request version read by the caller is no longer current.
var ErrWriteConflict = errors.New("write conflict")

// MaxTransactItems is the largest number of documents one atomic write may touch.
const MaxTransactItems = 100

// AcceptanceWrite inserts Vehicle and stores Request (already transitioned to
// accepted) only if the stored request still has ExpectedVersion.
type AcceptanceWrite struct {
	Request         entities.Request
	ExpectedVersion int64
	Vehicle         entities.Vehicle
}

// CancellationWrite deletes VehicleID and the listed PhotoSet labels and,
// when Request is set, stores it (already transitioned to cancelled) guarded
// by ExpectedVersion.
type CancellationWrite struct {
	Request         *entities.Request
	ExpectedVersion int64
	VehicleID       string
	PhotoLabels     []string
}

// ITransactor commits multi-document writes atomically.

type ITransactor interface {
	CommitAcceptance(ctx context.Context, w AcceptanceWrite) error
	CommitCancellation(ctx context.Context, w CancellationWrite) error
}
