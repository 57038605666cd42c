package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/cardvault/internal/user/domain"
	"github.com/allisson/cardvault/internal/user/usecase"
	usecaseMocks "github.com/allisson/cardvault/internal/user/usecase/mocks"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) expect(ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "users", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "users", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestUserUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	mockNext := &usecaseMocks.MockUserUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	uc := usecase.NewUserUseCaseWithMetrics(mockNext, mockMetrics)
	user := &domain.User{ID: uuid.Must(uuid.NewV7())}
	failure := errors.New("boom")

	input := usecase.CreateUserInput{Username: "john"}
	mockNext.On("Create", ctx, input).Return(user, nil).Once()
	mockMetrics.expect(ctx, "user_create", "success")
	got, err := uc.Create(ctx, input)
	assert.NoError(t, err)
	assert.Equal(t, user, got)

	mockNext.On("Get", ctx, user.ID).Return(nil, failure).Once()
	mockMetrics.expect(ctx, "user_get", "error")
	_, err = uc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, failure)

	mockNext.On("List", ctx, 0, 10).Return([]*domain.User{user}, nil).Once()
	mockMetrics.expect(ctx, "user_list", "success")
	users, err := uc.List(ctx, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, users, 1)

	mockNext.On("Block", ctx, user.ID).Return(user, nil).Once()
	mockMetrics.expect(ctx, "user_block", "success")
	_, err = uc.Block(ctx, user.ID)
	assert.NoError(t, err)

	mockNext.On("Unblock", ctx, user.ID).Return(user, nil).Once()
	mockMetrics.expect(ctx, "user_unblock", "success")
	_, err = uc.Unblock(ctx, user.ID)
	assert.NoError(t, err)

	mockNext.On("Delete", ctx, user.ID).Return(failure).Once()
	mockMetrics.expect(ctx, "user_delete", "error")
	assert.ErrorIs(t, uc.Delete(ctx, user.ID), failure)

	mockNext.AssertExpectations(t)
	mockMetrics.AssertExpectations(t)
}
