// Package mocks provides testify mock implementations of the card use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
)

// MockCardUseCase is a mock implementation of usecase.CardUseCase.
type MockCardUseCase struct {
	mock.Mock
}

func cardResult(args mock.Arguments) (*cardDomain.Card, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardDomain.Card), args.Error(1)
}

func cardsResult(args mock.Arguments) ([]*cardDomain.Card, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cardDomain.Card), args.Error(1)
}

// Create mocks the Create method.
func (m *MockCardUseCase) Create(ctx context.Context, input cardUseCase.CreateCardInput) (*cardDomain.Card, error) {
	return cardResult(m.Called(ctx, input))
}

// Touch mocks the Touch method.
func (m *MockCardUseCase) Touch(ctx context.Context, cardID uuid.UUID) (*cardDomain.Card, error) {
	return cardResult(m.Called(ctx, cardID))
}

// GetForOwner mocks the GetForOwner method.
func (m *MockCardUseCase) GetForOwner(ctx context.Context, cardID, ownerID uuid.UUID) (*cardDomain.Card, error) {
	return cardResult(m.Called(ctx, cardID, ownerID))
}

// List mocks the List method.
func (m *MockCardUseCase) List(ctx context.Context, offset, limit int) ([]*cardDomain.Card, error) {
	return cardsResult(m.Called(ctx, offset, limit))
}

// ListForOwner mocks the ListForOwner method.
func (m *MockCardUseCase) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	offset, limit int,
) ([]*cardDomain.Card, error) {
	return cardsResult(m.Called(ctx, ownerID, search, offset, limit))
}

// ListActiveForOwner mocks the ListActiveForOwner method.
func (m *MockCardUseCase) ListActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]*cardDomain.Card, error) {
	return cardsResult(m.Called(ctx, ownerID))
}

// SetStatus mocks the SetStatus method.
func (m *MockCardUseCase) SetStatus(
	ctx context.Context,
	cardID uuid.UUID,
	target cardDomain.Status,
	scope cardDomain.CallerScope,
) (*cardDomain.Card, error) {
	return cardResult(m.Called(ctx, cardID, target, scope))
}

// Delete mocks the Delete method.
func (m *MockCardUseCase) Delete(ctx context.Context, cardID uuid.UUID) error {
	args := m.Called(ctx, cardID)
	return args.Error(0)
}

// RevealNumber mocks the RevealNumber method.
func (m *MockCardUseCase) RevealNumber(ctx context.Context, cardID, ownerID uuid.UUID) (string, error) {
	args := m.Called(ctx, cardID, ownerID)
	return args.String(0), args.Error(1)
}

// ExpireOverdue mocks the ExpireOverdue method.
func (m *MockCardUseCase) ExpireOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransferUseCase is a mock implementation of usecase.TransferUseCase.
type MockTransferUseCase struct {
	mock.Mock
}

// Transfer mocks the Transfer method.
func (m *MockTransferUseCase) Transfer(
	ctx context.Context,
	input cardUseCase.TransferInput,
) (*cardDomain.TransferResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardDomain.TransferResult), args.Error(1)
}

// List mocks the List method.
func (m *MockTransferUseCase) List(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*cardDomain.Transfer, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cardDomain.Transfer), args.Error(1)
}

var (
	_ cardUseCase.CardUseCase     = (*MockCardUseCase)(nil)
	_ cardUseCase.TransferUseCase = (*MockTransferUseCase)(nil)
)
