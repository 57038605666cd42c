package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	userDomain "github.com/allisson/cardvault/internal/user/domain"
	userUseCase "github.com/allisson/cardvault/internal/user/usecase"
	userMocks "github.com/allisson/cardvault/internal/user/usecase/mocks"
)

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	userID := uuid.Must(uuid.NewV7())

	t.Run("non-interactive-text", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}
		input := userUseCase.CreateUserInput{
			Username: "root",
			Email:    "root@example.com",
			Password: "S3cure-password",
			Role:     userDomain.RoleAdmin,
		}
		mockUseCase.On("Create", ctx, input).Return(&userDomain.User{
			ID:       userID,
			Username: "root",
			Email:    "root@example.com",
			Role:     userDomain.RoleAdmin,
		}, nil)

		var out bytes.Buffer
		err := RunCreateUser(
			ctx, mockUseCase, logger,
			"root", "root@example.com", "S3cure-password", "admin", "text",
			IOTuple{Writer: &out},
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), "User created successfully")
		require.Contains(t, out.String(), userID.String())
		require.Contains(t, out.String(), "ADMIN")
		require.NotContains(t, out.String(), "S3cure-password")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("interactive-json", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}
		input := userUseCase.CreateUserInput{
			Username: "john",
			Email:    "john@example.com",
			Password: "prompted-password",
			Role:     userDomain.RoleUser,
		}
		mockUseCase.On("Create", ctx, input).Return(&userDomain.User{
			ID:       userID,
			Username: "john",
			Email:    "john@example.com",
			Role:     userDomain.RoleUser,
		}, nil)

		var out bytes.Buffer
		err := RunCreateUser(
			ctx, mockUseCase, logger,
			"john", "john@example.com", "", "USER", "json",
			IOTuple{Reader: strings.NewReader("prompted-password\n"), Writer: &out},
		)
		require.NoError(t, err)

		jsonStart := strings.Index(out.String(), "{")
		require.GreaterOrEqual(t, jsonStart, 0)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out.String()[jsonStart:]), &result))
		require.Equal(t, userID.String(), result["id"])
		require.Equal(t, "john", result["username"])
		require.Equal(t, "USER", result["role"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("empty-prompted-password", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}

		var out bytes.Buffer
		err := RunCreateUser(
			ctx, mockUseCase, logger,
			"john", "john@example.com", "", "USER", "text",
			IOTuple{Reader: strings.NewReader("\n"), Writer: &out},
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "password is required")
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}
		mockUseCase.On("Create", ctx, userUseCase.CreateUserInput{
			Username: "john",
			Email:    "john@example.com",
			Password: "S3cure-password",
			Role:     userDomain.RoleUser,
		}).Return(nil, userDomain.ErrUserAlreadyExists)

		var out bytes.Buffer
		err := RunCreateUser(
			ctx, mockUseCase, logger,
			"john", "john@example.com", "S3cure-password", "user", "text",
			IOTuple{Writer: &out},
		)

		require.ErrorIs(t, err, userDomain.ErrUserAlreadyExists)
		require.Empty(t, out.String())
		mockUseCase.AssertExpectations(t)
	})
}
