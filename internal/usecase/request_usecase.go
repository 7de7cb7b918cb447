package usecase

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// CreateRequestInput is what the intake collaborator hands over.
type CreateRequestInput struct {
	TenantID      string
	LicensePlate  string
	CustomerName  string
	CustomerEmail string
	ServiceType   entities.ServiceType
	Photos        []string
}

// IRequestUseCase exposes request intake and reads.
//
// Requests are never deleted; terminal transitions belong to the acceptance
// and cancellation coordinators.

type IRequestUseCase interface {
	CreateRequest(ctx context.Context, in CreateRequestInput) (entities.Request, error)
	GetByID(ctx context.Context, id string) (entities.Request, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entities.Request, error)
}

type RequestUseCase struct {
	repo interfaces.IRequestRepository
	now  func() time.Time
}

var _ IRequestUseCase = (*RequestUseCase)(nil)

func NewRequestUseCase(repo interfaces.IRequestRepository) *RequestUseCase {
	return &RequestUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (u *RequestUseCase) CreateRequest(ctx context.Context, in CreateRequestInput) (entities.Request, error) {
	in.TenantID = strings.TrimSpace(in.TenantID)
	if in.TenantID == "" {
		return entities.Request{}, ErrInvalidTenantID
	}
	in.LicensePlate = strings.ToUpper(strings.TrimSpace(in.LicensePlate))
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.LicensePlate == "" || in.CustomerName == "" || !in.ServiceType.Valid() {
		return entities.Request{}, ErrInvalidRequestData
	}
	if email := strings.TrimSpace(in.CustomerEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return entities.Request{}, ErrInvalidRequestData
		}
		in.CustomerEmail = email
	}

	now := u.now()
	r := entities.Request{
		ID:            uuid.NewString(),
		TenantID:      in.TenantID,
		LicensePlate:  in.LicensePlate,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		ServiceType:   in.ServiceType,
		Status:        entities.RequestStatusNew,
		Photos:        in.Photos,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := u.repo.Create(ctx, r)
	if err != nil {
		return entities.Request{}, fmt.Errorf("create request: %w", err)
	}
	log.Printf("[request][usecase] created request_id=%s tenant_id=%s plate=%s", created.ID, created.TenantID, created.LicensePlate)
	return created, nil
}

func (u *RequestUseCase) GetByID(ctx context.Context, id string) (entities.Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Request{}, ErrInvalidRequestID
	}

	r, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Request{}, err
	}
	if r.ID == "" {
		return entities.Request{}, ErrRequestNotFound
	}
	return r, nil
}

func (u *RequestUseCase) ListByTenant(ctx context.Context, tenantID string) ([]entities.Request, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}
	return u.repo.ListByTenant(ctx, tenantID)
}
