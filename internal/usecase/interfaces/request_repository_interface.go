package interfaces

import (
	"context"
	"partner_repairs/internal/domain/entities"
)

// IRequestRepository abstracts DynamoDB persistence for Request.
//
// The service must be able to:
//   - create a request when a partner submits one
//   - attach or replace a quote while the request is open
//   - change the chosen variant while the quote is pending
//   - read requests consistently inside the coordinators' retry loops
//
// Getters return a zero Request (empty ID) and a nil error when nothing matches.
// Conditional updates do the same when their precondition fails.

type IRequestRepository interface {
	Create(ctx context.Context, r entities.Request) (entities.Request, error)
	GetByID(ctx context.Context, id string) (entities.Request, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]entities.Request, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entities.Request, error)
	UpdateQuote(ctx context.Context, id string, quote entities.Quote, from []entities.RequestStatus, to entities.RequestStatus) (entities.Request, error)
	SelectVariant(ctx context.Context, id string, key entities.VariantKey) (entities.Request, error)
}
