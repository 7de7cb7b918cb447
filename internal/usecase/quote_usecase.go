package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"
)

// IQuoteUseCase covers the pre-acceptance quote flow.
//
//   - SendQuote is the quote-building collaborator's hand-off (new -> quote_sent).
//   - SelectVariant lets the partner pick among the priced variants. It is not
//     transactional: the last write wins until acceptance freezes the price.

type IQuoteUseCase interface {
	SendQuote(ctx context.Context, requestID string, quote entities.Quote) (entities.Request, error)
	SelectVariant(ctx context.Context, requestID string, key entities.VariantKey) (entities.Request, error)
}

type QuoteUseCase struct {
	repo interfaces.IRequestRepository
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IRequestRepository) *QuoteUseCase {
	return &QuoteUseCase{repo: repo}
}

func (u *QuoteUseCase) SendQuote(ctx context.Context, requestID string, quote entities.Quote) (entities.Request, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.Request{}, ErrInvalidRequestID
	}
	if err := quote.Validate(); err != nil {
		return entities.Request{}, err
	}

	updated, err := u.repo.UpdateQuote(ctx, requestID, quote,
		[]entities.RequestStatus{entities.RequestStatusNew, entities.RequestStatusQuoteSent},
		entities.RequestStatusQuoteSent,
	)
	if err != nil {
		return entities.Request{}, fmt.Errorf("update quote: %w", err)
	}
	if updated.ID != "" {
		log.Printf("[quote][usecase] quote sent request_id=%s variants=%d", requestID, len(quote.Variants))
		return updated, nil
	}
	return entities.Request{}, u.explainRejection(ctx, requestID)
}

func (u *QuoteUseCase) SelectVariant(ctx context.Context, requestID string, key entities.VariantKey) (entities.Request, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.Request{}, ErrInvalidRequestID
	}
	if !key.Valid() {
		return entities.Request{}, ErrUnknownVariant
	}

	updated, err := u.repo.SelectVariant(ctx, requestID, key)
	if err != nil {
		return entities.Request{}, fmt.Errorf("select variant: %w", err)
	}
	if updated.ID != "" {
		log.Printf("[quote][usecase] variant selected request_id=%s variant=%s", requestID, key)
		return updated, nil
	}

	// The conditional update matched nothing; work out why from a fresh read.
	current, err := u.repo.GetByID(ctx, requestID)
	if err != nil {
		return entities.Request{}, fmt.Errorf("get request: %w", err)
	}
	if current.ID == "" {
		return entities.Request{}, ErrRequestNotFound
	}
	if current.Status == entities.RequestStatusQuoteSent && current.Quote != nil {
		if _, ok := current.Quote.Variants[key]; !ok {
			return entities.Request{}, ErrUnknownVariant
		}
	}
	log.Printf("[quote][usecase] variant selection rejected request_id=%s status=%s", requestID, current.Status)
	return entities.Request{}, ErrInvalidStateTransition
}

func (u *QuoteUseCase) explainRejection(ctx context.Context, requestID string) error {
	current, err := u.repo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}
	if current.ID == "" {
		return ErrRequestNotFound
	}
	log.Printf("[quote][usecase] quote rejected request_id=%s status=%s", requestID, current.Status)
	return ErrInvalidStateTransition
}
