package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/metrics"
)

const (
	cardsMetricsDomain     = "cards"
	transfersMetricsDomain = "transfers"
)

func recordMetrics(
	ctx context.Context,
	m metrics.BusinessMetrics,
	domain, operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

// cardUseCaseWithMetrics decorates CardUseCase with metrics instrumentation.
type cardUseCaseWithMetrics struct {
	next    CardUseCase
	metrics metrics.BusinessMetrics
}

// NewCardUseCaseWithMetrics wraps a CardUseCase with metrics recording.
func NewCardUseCaseWithMetrics(useCase CardUseCase, m metrics.BusinessMetrics) CardUseCase {
	return &cardUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *cardUseCaseWithMetrics) Create(ctx context.Context, input CreateCardInput) (*cardDomain.Card, error) {
	start := time.Now()
	card, err := c.next.Create(ctx, input)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_create", start, err)
	return card, err
}

func (c *cardUseCaseWithMetrics) Touch(ctx context.Context, cardID uuid.UUID) (*cardDomain.Card, error) {
	start := time.Now()
	card, err := c.next.Touch(ctx, cardID)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_get", start, err)
	return card, err
}

func (c *cardUseCaseWithMetrics) GetForOwner(
	ctx context.Context,
	cardID, ownerID uuid.UUID,
) (*cardDomain.Card, error) {
	start := time.Now()
	card, err := c.next.GetForOwner(ctx, cardID, ownerID)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_get", start, err)
	return card, err
}

func (c *cardUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*cardDomain.Card, error) {
	start := time.Now()
	cards, err := c.next.List(ctx, offset, limit)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_list", start, err)
	return cards, err
}

func (c *cardUseCaseWithMetrics) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	offset, limit int,
) ([]*cardDomain.Card, error) {
	start := time.Now()
	cards, err := c.next.ListForOwner(ctx, ownerID, search, offset, limit)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_list", start, err)
	return cards, err
}

func (c *cardUseCaseWithMetrics) ListActiveForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*cardDomain.Card, error) {
	start := time.Now()
	cards, err := c.next.ListActiveForOwner(ctx, ownerID)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_list_active", start, err)
	return cards, err
}

func (c *cardUseCaseWithMetrics) SetStatus(
	ctx context.Context,
	cardID uuid.UUID,
	target cardDomain.Status,
	scope cardDomain.CallerScope,
) (*cardDomain.Card, error) {
	start := time.Now()
	card, err := c.next.SetStatus(ctx, cardID, target, scope)

	operation := "card_block"
	if target == cardDomain.StatusActive {
		operation = "card_activate"
	}
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, operation, start, err)
	return card, err
}

func (c *cardUseCaseWithMetrics) Delete(ctx context.Context, cardID uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, cardID)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_delete", start, err)
	return err
}

func (c *cardUseCaseWithMetrics) RevealNumber(ctx context.Context, cardID, ownerID uuid.UUID) (string, error) {
	start := time.Now()
	number, err := c.next.RevealNumber(ctx, cardID, ownerID)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_reveal_number", start, err)
	return number, err
}

func (c *cardUseCaseWithMetrics) ExpireOverdue(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := c.next.ExpireOverdue(ctx)
	recordMetrics(ctx, c.metrics, cardsMetricsDomain, "card_expire_overdue", start, err)
	return count, err
}

// transferUseCaseWithMetrics decorates TransferUseCase with metrics instrumentation.
type transferUseCaseWithMetrics struct {
	next    TransferUseCase
	metrics metrics.BusinessMetrics
}

// NewTransferUseCaseWithMetrics wraps a TransferUseCase with metrics recording.
func NewTransferUseCaseWithMetrics(useCase TransferUseCase, m metrics.BusinessMetrics) TransferUseCase {
	return &transferUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *transferUseCaseWithMetrics) Transfer(
	ctx context.Context,
	input TransferInput,
) (*cardDomain.TransferResult, error) {
	start := time.Now()
	result, err := t.next.Transfer(ctx, input)
	recordMetrics(ctx, t.metrics, transfersMetricsDomain, "transfer_create", start, err)
	return result, err
}

func (t *transferUseCaseWithMetrics) List(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*cardDomain.Transfer, error) {
	start := time.Now()
	transfers, err := t.next.List(ctx, ownerID, offset, limit)
	recordMetrics(ctx, t.metrics, transfersMetricsDomain, "transfer_list", start, err)
	return transfers, err
}
